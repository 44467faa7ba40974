package domain

import "github.com/x-xyz/nftmarket/base/ctx"

// Notifier posts a human readable message to an outside channel
type Notifier interface {
	Notify(c ctx.Ctx, msg string) error
}
