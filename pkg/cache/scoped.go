package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate namespaces to
// processes that share one backend, for example servers configured with
// different catalogs or a test run next to production.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ViewKey generates a prefixed viewport key.
func (k *ScopedKeyer) ViewKey(fingerprint string, opts ViewKeyOpts) string {
	return k.prefix + k.inner.ViewKey(fingerprint, opts)
}

// TileKey generates a prefixed tile diagram key.
func (k *ScopedKeyer) TileKey(fingerprint, coord string, opts TileKeyOpts) string {
	return k.prefix + k.inner.TileKey(fingerprint, coord, opts)
}
