package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	defer func(v string) { Version = v }(Version)
	Version = "v1.2.3"

	if got := String(); !strings.HasPrefix(got, "version: v1.2.3\n") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.Contains(got, "version v1.2.3") {
		t.Errorf("Template() = %q", got)
	}
	if got := Get(); got.Version != "v1.2.3" || got.Commit != Commit {
		t.Errorf("Get() = %+v", got)
	}
}
