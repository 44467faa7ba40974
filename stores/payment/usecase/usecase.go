package usecase

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/payment"
)

type impl struct {
	repo payment.Repo
}

func New(repo payment.Repo) payment.Usecase {
	return &impl{repo}
}

func (im *impl) Balance(c ctx.Ctx, address domain.Address) (*payment.Balance, error) {
	if !validator.IsValidAddress(string(address)) {
		return nil, domain.ErrInvalidAddress
	}
	amount, err := im.repo.Balance(c, address)
	if err != nil {
		c.WithField("err", err).Error("repo.Balance failed")
		return nil, err
	}
	return &payment.Balance{Address: address.ToLower(), Amount: amount, UpdatedAt: time.Now()}, nil
}

func (im *impl) Deposit(c ctx.Ctx, address domain.Address, amount domain.Amount) (*payment.Balance, error) {
	if !validator.IsValidAddress(string(address)) {
		return nil, domain.ErrInvalidAddress
	}
	res, err := im.repo.Deposit(c, address, amount)
	if err != nil {
		c.WithField("err", err).Error("repo.Deposit failed")
		return nil, err
	}
	c.WithField("address", address).WithField("amount", amount).Info("deposited")
	return &payment.Balance{Address: address.ToLower(), Amount: res, UpdatedAt: time.Now()}, nil
}

func (im *impl) Pay(c ctx.Ctx, from, to domain.Address, amount domain.Amount) error {
	if err := im.repo.Pay(c, from, to, amount); err != nil {
		if err != payment.ErrInsufficientFunds {
			c.WithField("err", err).Error("repo.Pay failed")
		}
		return err
	}
	return nil
}
