package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/observability"
)

// Observe wraps c so that every lookup and write is reported to the
// registered [observability.CacheHooks]. Clear is forwarded when c
// supports it and fails with UNSUPPORTED otherwise.
func Observe(c Cache) Cache {
	return &observed{Cache: c}
}

type observed struct {
	Cache
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, nil
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func (o *observed) Clear(ctx context.Context) error {
	if c, ok := o.Cache.(Clearer); ok {
		return c.Clear(ctx)
	}
	return errors.New(errors.ErrCodeUnsupported, "cache does not support clearing")
}

// keyType strips the hash from a key: "view:3fa9..." reports as "view".
func keyType(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
