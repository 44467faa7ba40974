package payment

import (
	"errors"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must not be negative")
)

type Balance struct {
	Address   domain.Address `json:"address" bson:"address"`
	Amount    domain.Amount  `json:"amount" bson:"amount"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Repo moves value between addresses. A missing balance reads as zero.
type Repo interface {
	Balance(c ctx.Ctx, address domain.Address) (domain.Amount, error)
	// Pay fails with ErrInsufficientFunds and leaves both balances untouched
	// when `from` holds less than amount. A zero amount is a no-op.
	Pay(c ctx.Ctx, from, to domain.Address, amount domain.Amount) error
	Deposit(c ctx.Ctx, address domain.Address, amount domain.Amount) (domain.Amount, error)
}

type Usecase interface {
	Balance(c ctx.Ctx, address domain.Address) (*Balance, error)
	Deposit(c ctx.Ctx, address domain.Address, amount domain.Amount) (*Balance, error)
	Pay(c ctx.Ctx, from, to domain.Address, amount domain.Amount) error
}
