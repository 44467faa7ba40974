package repository

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	hcdomain "github.com/x-xyz/nftmarket/domain/healthcheck"
	"github.com/x-xyz/nftmarket/domain/keys"
	"github.com/x-xyz/nftmarket/service/query"
	"github.com/x-xyz/nftmarket/service/redis"
)

const pingTimeout = 2 * time.Second

type impl struct {
	q          query.Mongo
	redisCache redis.Service
}

// New pings the backends that are configured, either may be nil
func New(
	q query.Mongo,
	redisCache redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		q:          q,
		redisCache: redisCache,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	if im.q == nil {
		return nil
	}
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.q.Ping(ctx); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

func (im *impl) PingCache(context ctx.Ctx) error {
	if im.redisCache == nil {
		return nil
	}
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.redisCache.Set(ctx, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
