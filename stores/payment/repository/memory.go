package repository

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/payment"
	"github.com/x-xyz/nftmarket/service/memdb"
)

type memoryImpl struct {
	db *memdb.DB
}

func NewMemory(db *memdb.DB) payment.Repo {
	return &memoryImpl{db}
}

func balanceOf(t *memdb.Table, address domain.Address) domain.Amount {
	if row, ok := t.Get(address.ToLowerStr()); ok {
		return row.(payment.Balance).Amount
	}
	return domain.AmountFromInt(0)
}

func setBalance(t *memdb.Table, address domain.Address, amount domain.Amount) {
	t.Put(address.ToLowerStr(), payment.Balance{Address: address.ToLower(), Amount: amount, UpdatedAt: time.Now()})
}

func (im *memoryImpl) Balance(c ctx.Ctx, address domain.Address) (domain.Amount, error) {
	var res domain.Amount
	im.db.View(c, domain.TableBalances, func(t *memdb.Table) {
		res = balanceOf(t, address)
	})
	return res, nil
}

func (im *memoryImpl) Pay(c ctx.Ctx, from, to domain.Address, amount domain.Amount) error {
	if amount.IsNegative() {
		return payment.ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}

	return im.db.Update(c, domain.TableBalances, func(t *memdb.Table) error {
		fromBal := balanceOf(t, from)
		if fromBal.LessThan(amount) {
			return payment.ErrInsufficientFunds
		}
		if from.Equals(to) {
			return nil
		}
		setBalance(t, from, fromBal.Sub(amount))
		setBalance(t, to, balanceOf(t, to).Add(amount))
		return nil
	})
}

func (im *memoryImpl) Deposit(c ctx.Ctx, address domain.Address, amount domain.Amount) (domain.Amount, error) {
	if amount.IsNegative() {
		return "", payment.ErrInvalidAmount
	}

	var res domain.Amount
	err := im.db.Update(c, domain.TableBalances, func(t *memdb.Table) error {
		res = balanceOf(t, address).Add(amount)
		setBalance(t, address, res)
		return nil
	})
	return res, err
}
