package cache

import (
	"context"
	"time"
)

// NullCache is the "null" backend. It backs `--no-cache` renders and a
// [pipeline] runner built without a cache: every view and tile is rendered
// from the engine and nothing is kept.
//
// [pipeline]: github.com/matzehuels/labyrinth/pkg/pipeline
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

// Clear succeeds, so `labyrinth cache clear` works with caching disabled.
func (NullCache) Clear(context.Context) error { return nil }

func (NullCache) Close() error { return nil }

var _ Clearer = NullCache{}
