package cache

import (
	"context"
	"time"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendNull  = "null"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open creates the configured backend, wrapped with [Observe].
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		if opts.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache needs a directory")
		}
		c, err = NewFileCache(opts.Dir)
	case BackendNull:
		c = NewNullCache()
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.Redis)
	case BackendMongo:
		if err := errors.ValidateMongoURI(opts.Mongo.URI); err != nil {
			return nil, err
		}
		c, err = NewMongoCache(ctx, opts.Mongo)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Observe(c), nil
}

// Connection attempts made while opening a Redis or Mongo artifact cache.
// The delay doubles after every failed ping.
var (
	pingAttempts = 3
	pingDelay    = time.Second
)

// ping checks that a remote backend answers before a server or CLI run
// starts caching views and tiles in it. It fails with INVALID_CONFIG once
// every attempt has failed, and returns the context error if ctx ends first.
func ping(ctx context.Context, backend, addr string, fn func(context.Context) error) error {
	delay := pingDelay
	var err error
	for i := 0; i < pingAttempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == pingAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err,
		"%s cache at %s unreachable after %d attempts", backend, addr, pingAttempts)
}
