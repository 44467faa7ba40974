package primitive

import (
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
	// serializes Take against other Takes of the process
	takeMu sync.Mutex
}

// NewPrimitive is a process local cache of size MB
func NewPrimitive(name string, size int) provider.Provider {
	return &impl{name: name, cache: freecache.NewCache(size * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, ttl, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return nil, time.Duration(0), err
	}
	// freecache reports the expiry as a unix timestamp, 0 means none
	if ttl == 0 {
		return val, time.Duration(0), nil
	}
	return val, time.Until(time.Unix(int64(ttl), 0)), nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}

func (im *impl) Take(c ctx.Ctx, key string) ([]byte, error) {
	im.takeMu.Lock()
	defer im.takeMu.Unlock()

	val, err := im.cache.Get([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return nil, err
	}
	im.cache.Del([]byte(key))
	return val, nil
}
