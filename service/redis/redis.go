package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
)

const (
	// Forever stores a key without expiry
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoTTL is returned by TTL when the key exists without expiry
	ErrNoTTL = errors.New("redis: key has no ttl")
	// ErrGapTime is returned when no pool is available for the command
	ErrGapTime = errors.New("redis: no pool available")
)

// Service wraps the redis commands the service relies on
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	// GetDel reads and removes key in one round trip
	GetDel(c ctx.Ctx, key string) ([]byte, error)
	Del(c ctx.Ctx, keys ...string) (int, error)
	TTL(c ctx.Ctx, key string) (int, error)
	Ping(c ctx.Ctx) error
	Name() string
}
