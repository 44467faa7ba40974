package domain

import "github.com/x-xyz/nftmarket/base/ctx"

// Transactor runs run as one all-or-nothing unit. Repositories called with
// the ctx handed to run take part in the transaction; when run returns an
// error none of their writes are visible.
type Transactor interface {
	RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error
}
