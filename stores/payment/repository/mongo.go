package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/payment"
	"github.com/x-xyz/nftmarket/service/query"
)

type mongoImpl struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) payment.Repo {
	return &mongoImpl{q}
}

func (im *mongoImpl) Balance(c ctx.Ctx, address domain.Address) (domain.Amount, error) {
	res := payment.Balance{}
	if err := im.q.FindOne(c, domain.TableBalances, bson.M{"address": address.ToLower()}, &res); err == query.ErrNotFound {
		return domain.AmountFromInt(0), nil
	} else if err != nil {
		c.WithField("err", err).WithField("address", address).Error("q.FindOne failed")
		return "", err
	}
	return res.Amount, nil
}

func (im *mongoImpl) set(c ctx.Ctx, address domain.Address, amount domain.Amount) error {
	b := &payment.Balance{Address: address.ToLower(), Amount: amount, UpdatedAt: time.Now()}
	if err := im.q.Upsert(c, domain.TableBalances, bson.M{"address": b.Address}, b); err != nil {
		c.WithField("err", err).WithField("address", address).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *mongoImpl) Pay(c ctx.Ctx, from, to domain.Address, amount domain.Amount) error {
	if amount.IsNegative() {
		return payment.ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}

	return im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		fromBal, err := im.Balance(c, from)
		if err != nil {
			return err
		}
		if fromBal.LessThan(amount) {
			return payment.ErrInsufficientFunds
		}
		if from.Equals(to) {
			return nil
		}
		if err := im.set(c, from, fromBal.Sub(amount)); err != nil {
			return err
		}

		toBal, err := im.Balance(c, to)
		if err != nil {
			return err
		}
		return im.set(c, to, toBal.Add(amount))
	})
}

func (im *mongoImpl) Deposit(c ctx.Ctx, address domain.Address, amount domain.Amount) (domain.Amount, error) {
	if amount.IsNegative() {
		return "", payment.ErrInvalidAmount
	}

	var res domain.Amount
	err := im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		bal, err := im.Balance(c, address)
		if err != nil {
			return err
		}
		res = bal.Add(amount)
		return im.set(c, address, res)
	})
	if err != nil {
		return "", err
	}
	return res, nil
}
