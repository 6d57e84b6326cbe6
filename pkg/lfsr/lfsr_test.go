package lfsr

import "testing"

func TestNext(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 0},
		{1, 2149580803},
		{2, 1},
		{3, 2149580802},
		{0x80000000, 0x40000000},
		{19283801, 2159222703},
	}

	for _, tt := range tests {
		if got := Next(tt.in); got != tt.want {
			t.Errorf("Next(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAdvance(t *testing.T) {
	if got, want := Advance(19283801, 3), Next(Next(Next(19283801))); got != want {
		t.Errorf("Advance(_, 3) = %d, want %d", got, want)
	}
	if got := Advance(42, 0); got != 42 {
		t.Errorf("Advance(_, 0) = %d, want 42", got)
	}
}

func TestMixWraps(t *testing.T) {
	// (seed+1) overflows to zero, so only the seed itself is shifted.
	if got, want := Mix(0xFFFFFFFF, 12345), Next(0xFFFFFFFF); got != want {
		t.Errorf("Mix(max, _) = %d, want %d", got, want)
	}
}

func TestChoose(t *testing.T) {
	list := []string{"a", "b", "c"}
	if v, ok := Choose(list, 7); !ok || v != "b" {
		t.Errorf("Choose(_, 7) = %q, %v", v, ok)
	}
	if _, ok := Choose([]string(nil), 7); ok {
		t.Error("Choose on empty list should report !ok")
	}
}

func TestSourceAdvancesPerPick(t *testing.T) {
	s := NewSource(19283801)
	if _, ok := Pick(s, []int(nil)); ok {
		t.Fatal("Pick on empty list should report !ok")
	}
	if s.Seed() != Next(19283801) {
		t.Errorf("Seed() = %d after one pick, want %d", s.Seed(), Next(19283801))
	}
	v, _ := Pick(s, []int{10, 20, 30, 40})
	if want := []int{10, 20, 30, 40}[Next(19283801)%4]; v != want {
		t.Errorf("Pick() = %d, want %d", v, want)
	}
}
