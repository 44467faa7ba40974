package healthcheck

import (
	"github.com/x-xyz/nftmarket/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(c ctx.Ctx) error
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingDB(c ctx.Ctx) error
	PingCache(c ctx.Ctx) error
}
