package usecase

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/base/metrics"
	"github.com/x-xyz/nftmarket/base/ptr"
	"github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/payment"
	"github.com/x-xyz/nftmarket/service/cache"
)

const forSaleKey = "forSale"

type MarketUseCaseCfg struct {
	ListingRepo listing.Repo
	SaleRepo    listing.SaleRepo
	AssetRepo   asset.Repo
	PaymentRepo payment.Repo
	Transactor  domain.Transactor

	// ListingFee is charged by CreateAndListNFT and paid to FeeRecipient
	ListingFee   domain.Amount
	FeeRecipient domain.Address

	// optional
	Cache    cache.Service
	Notifier domain.Notifier
}

type impl struct {
	// writers hold mu from their first check until their transaction commits
	mu sync.RWMutex

	listing  listing.Repo
	sale     listing.SaleRepo
	asset    asset.Repo
	payment  payment.Repo
	tx       domain.Transactor
	cache    cache.Service
	notifier domain.Notifier
	met      metrics.Service

	fee          domain.Amount
	feeRecipient domain.Address
}

func New(cfg *MarketUseCaseCfg) listing.Usecase {
	return &impl{
		listing:      cfg.ListingRepo,
		sale:         cfg.SaleRepo,
		asset:        cfg.AssetRepo,
		payment:      cfg.PaymentRepo,
		tx:           cfg.Transactor,
		cache:        cfg.Cache,
		notifier:     cfg.Notifier,
		met:          metrics.New("market"),
		fee:          domain.NewAmount(cfg.ListingFee.Decimal()),
		feeRecipient: cfg.FeeRecipient.ToLower(),
	}
}

func (im *impl) CreateAndListNFT(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, price, fee domain.Amount) (*listing.Listing, error) {
	defer im.met.BumpTime("create.time").End()
	c = ctx.WithValues(c, log.Fields{"op": "CreateAndListNFT", "caller": caller, "tokenId": tokenId})

	if _, err := domain.ParseAmount(string(fee)); err != nil || !fee.Equals(im.fee) {
		return nil, im.reject(c, "create", listing.NewMismatchError(listing.ErrInvalidFee, tokenId, im.fee, fee))
	}
	if _, err := domain.ParseAmount(string(price)); err != nil || price.IsNegative() {
		return nil, im.reject(c, "create", listing.NewError(listing.ErrInvalidPrice, tokenId))
	}
	price = domain.NewAmount(price.Decimal())

	im.mu.Lock()
	defer im.mu.Unlock()

	var res *listing.Listing
	err := im.apply(c, func(c ctx.Ctx) error {
		if err := im.checkOwner(c, caller, tokenId); err != nil {
			return err
		}

		existing, err := im.listing.FindOne(c, tokenId)
		if err != nil && err != domain.ErrNotFound {
			return xerrors.Errorf("listing.FindOne: %w", err)
		}
		if existing != nil && existing.Active {
			return listing.NewError(listing.ErrAlreadyListed, tokenId)
		}

		if err := im.pay(c, tokenId, caller, im.feeRecipient, fee); err != nil {
			return err
		}

		now := time.Now()
		l := &listing.Listing{
			TokenId:   tokenId,
			Seller:    caller.ToLower(),
			Price:     price,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if existing != nil {
			l.Seq = existing.Seq
			l.CreatedAt = existing.CreatedAt
		} else if l.Seq, err = im.listing.NextSeq(c); err != nil {
			return xerrors.Errorf("listing.NextSeq: %w", err)
		}

		if err := im.listing.Upsert(c, l); err != nil {
			return xerrors.Errorf("listing.Upsert: %w", err)
		}
		res = l
		return nil
	})
	if err != nil {
		return nil, im.reject(c, "create", err)
	}

	c.WithField("price", price).Info("listed")
	return res, nil
}

func (im *impl) RemoveNFTFromMarket(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error {
	defer im.met.BumpTime("remove.time").End()
	c = ctx.WithValues(c, log.Fields{"op": "RemoveNFTFromMarket", "caller": caller, "tokenId": tokenId})

	im.mu.Lock()
	defer im.mu.Unlock()

	err := im.apply(c, func(c ctx.Ctx) error {
		l, err := im.listing.FindOne(c, tokenId)
		if err == domain.ErrNotFound {
			return listing.NewError(listing.ErrNotListed, tokenId)
		} else if err != nil {
			return xerrors.Errorf("listing.FindOne: %w", err)
		}
		if !l.Active {
			return listing.NewError(listing.ErrNotListed, tokenId)
		}
		if !l.Seller.Equals(caller) {
			return listing.NewError(listing.ErrNotSeller, tokenId)
		}
		return im.toggle(c, tokenId, false, listing.ErrNotListed)
	})
	if err != nil {
		return im.reject(c, "remove", err)
	}

	c.Info("delisted")
	return nil
}

func (im *impl) AddNFTToMarket(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error {
	defer im.met.BumpTime("relist.time").End()
	c = ctx.WithValues(c, log.Fields{"op": "AddNFTToMarket", "caller": caller, "tokenId": tokenId})

	im.mu.Lock()
	defer im.mu.Unlock()

	err := im.apply(c, func(c ctx.Ctx) error {
		l, err := im.listing.FindOne(c, tokenId)
		if err == domain.ErrNotFound {
			return listing.NewError(listing.ErrNoSuchListing, tokenId)
		} else if err != nil {
			return xerrors.Errorf("listing.FindOne: %w", err)
		}
		if !l.Seller.Equals(caller) {
			return listing.NewError(listing.ErrNotOwner, tokenId)
		}
		if err := im.checkOwner(c, caller, tokenId); err != nil {
			return err
		}
		if l.Active {
			return listing.NewError(listing.ErrAlreadyListed, tokenId)
		}
		return im.toggle(c, tokenId, true, listing.ErrAlreadyListed)
	})
	if err != nil {
		return im.reject(c, "relist", err)
	}

	c.Info("relisted")
	return nil
}

func (im *impl) BuyNFT(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, amount domain.Amount) (*listing.Sale, error) {
	defer im.met.BumpTime("buy.time").End()
	c = ctx.WithValues(c, log.Fields{"op": "BuyNFT", "caller": caller, "tokenId": tokenId})

	res, err := im.buy(c, caller, tokenId, amount)
	if err != nil {
		return nil, im.reject(c, "buy", err)
	}

	im.met.BumpSum("sale", 1)
	im.met.BumpSum("volume", res.Price.Decimal().InexactFloat64())
	c.WithField("price", res.Price).WithField("seller", res.Seller).Info("sold")
	im.notify(c, fmt.Sprintf("Item %s sold by %s to %s for %s", res.TokenId, res.Seller, res.Buyer, res.Price))
	return res, nil
}

// buy applies a purchase under the ledger lock, the caller reports it after unlock
func (im *impl) buy(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, amount domain.Amount) (*listing.Sale, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	var res *listing.Sale
	err := im.apply(c, func(c ctx.Ctx) error {
		l, err := im.listing.FindOne(c, tokenId)
		if err == domain.ErrNotFound {
			return listing.NewError(listing.ErrNotForSale, tokenId)
		} else if err != nil {
			return xerrors.Errorf("listing.FindOne: %w", err)
		}
		if !l.Active {
			return listing.NewError(listing.ErrNotForSale, tokenId)
		}
		if l.Seller.Equals(caller) {
			return listing.NewError(listing.ErrSelfPurchase, tokenId)
		}
		if _, err := domain.ParseAmount(string(amount)); err != nil || !amount.Equals(l.Price) {
			return listing.NewMismatchError(listing.ErrWrongPrice, tokenId, l.Price, amount)
		}

		if err := im.asset.Transfer(c, tokenId, l.Seller, caller); errors.Is(err, asset.ErrTransferDenied) {
			return listing.NewError(listing.ErrTransferDenied, tokenId)
		} else if err != nil {
			return xerrors.Errorf("asset.Transfer: %w", err)
		}
		if err := im.pay(c, tokenId, caller, l.Seller, l.Price); err != nil {
			return err
		}

		now := time.Now()
		buyer := caller.ToLower()
		if err := im.listing.Patch(c, tokenId, true, listing.PatchableListing{
			Active:    ptr.Bool(false),
			Buyer:     &buyer,
			SoldAt:    &now,
			UpdatedAt: &now,
		}); err == domain.ErrNotFound {
			return listing.NewError(listing.ErrNotForSale, tokenId)
		} else if err != nil {
			return xerrors.Errorf("listing.Patch: %w", err)
		}

		sale := &listing.Sale{
			Id:        uuid.New().String(),
			TokenId:   tokenId,
			Seller:    l.Seller,
			Buyer:     buyer,
			Price:     l.Price,
			CreatedAt: now,
		}
		if err := im.sale.Insert(c, sale); err != nil {
			return xerrors.Errorf("sale.Insert: %w", err)
		}
		res = sale
		return nil
	})
	return res, err
}

func (im *impl) TransferNFT(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, to domain.Address) error {
	defer im.met.BumpTime("transfer.time").End()
	c = ctx.WithValues(c, log.Fields{"op": "TransferNFT", "caller": caller, "tokenId": tokenId, "to": to})

	if !validator.IsValidAddress(string(to)) {
		return im.reject(c, "transfer", domain.ErrInvalidAddress)
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	err := im.apply(c, func(c ctx.Ctx) error {
		if err := im.checkOwner(c, caller, tokenId); err != nil {
			return err
		}
		if to.Equals(caller) {
			return listing.NewError(listing.ErrInvalidRecipient, tokenId)
		}
		if err := im.asset.Transfer(c, tokenId, caller, to); errors.Is(err, asset.ErrTransferDenied) {
			return listing.NewError(listing.ErrTransferDenied, tokenId)
		} else if err != nil {
			return xerrors.Errorf("asset.Transfer: %w", err)
		}

		// a listing cannot outlive its seller's ownership
		l, err := im.listing.FindOne(c, tokenId)
		if err == domain.ErrNotFound {
			return nil
		} else if err != nil {
			return xerrors.Errorf("listing.FindOne: %w", err)
		}
		if !l.Active {
			return nil
		}
		return im.toggle(c, tokenId, false, listing.ErrNotListed)
	})
	if err != nil {
		return im.reject(c, "transfer", err)
	}

	c.Info("transferred")
	return nil
}

func (im *impl) FetchMarketItemsInSell(c ctx.Ctx) ([]*listing.Listing, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	getter := func() (interface{}, error) {
		res, err := im.listing.FindAll(c, listing.WithActive(true))
		return &res, err
	}

	if im.cache == nil {
		res, err := getter()
		if err != nil {
			c.WithField("err", err).Error("listing.FindAll failed")
			return nil, err
		}
		return *res.(*[]*listing.Listing), nil
	}

	// every committed mutation moves the key, a snapshot read before a
	// commit can only be stored under a key nobody asks for any more
	ver, err := im.listing.Version(c)
	if err != nil {
		c.WithField("err", err).Error("listing.Version failed")
		return nil, err
	}
	res := []*listing.Listing{}
	if err := im.cache.GetByFunc(c, fmt.Sprintf("%s:%d", forSaleKey, ver), &res, getter); err != nil {
		c.WithField("err", err).Error("cache.GetByFunc failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FetchMyNFTs(c ctx.Ctx, caller domain.Address) ([]*asset.Item, error) {
	if !validator.IsValidAddress(string(caller)) {
		return nil, domain.ErrInvalidAddress
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	items, err := im.asset.FindAll(c, asset.WithOwner(caller))
	if err != nil {
		c.WithField("err", err).Error("asset.FindAll failed")
		return nil, err
	}
	return items, nil
}

func (im *impl) GetListingPrice() domain.Amount {
	return im.fee
}

func (im *impl) GetListing(c ctx.Ctx, tokenId domain.TokenId) (*listing.Listing, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	l, err := im.listing.FindOne(c, tokenId)
	if err == domain.ErrNotFound {
		return nil, listing.NewError(listing.ErrNoSuchListing, tokenId)
	} else if err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("listing.FindOne failed")
		return nil, err
	}
	return l, nil
}

func (im *impl) FetchListingsBySeller(c ctx.Ctx, seller domain.Address, activeOnly bool) ([]*listing.Listing, error) {
	if !validator.IsValidAddress(string(seller)) {
		return nil, domain.ErrInvalidAddress
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	opts := []listing.FindAllOptionsFunc{listing.WithSeller(seller)}
	if activeOnly {
		opts = append(opts, listing.WithActive(true))
	}
	res, err := im.listing.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("listing.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FetchSales(c ctx.Ctx, tokenId domain.TokenId) ([]*listing.Sale, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	res, err := im.sale.FindByToken(c, tokenId)
	if err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("sale.FindByToken failed")
		return nil, err
	}
	return res, nil
}

// checkOwner fails with ErrNotOwner unless the registry has caller as owner
func (im *impl) checkOwner(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error {
	owner, err := im.asset.OwnerOf(c, tokenId)
	if errors.Is(err, asset.ErrItemNotFound) {
		return listing.NewError(listing.ErrNotOwner, tokenId).WithCause(err)
	} else if err != nil {
		return xerrors.Errorf("asset.OwnerOf: %w", err)
	}
	if !owner.Equals(caller) {
		return listing.NewError(listing.ErrNotOwner, tokenId)
	}
	return nil
}

// pay moves amount and reports a shortfall with the payer's balance
func (im *impl) pay(c ctx.Ctx, tokenId domain.TokenId, from, to domain.Address, amount domain.Amount) error {
	err := im.payment.Pay(c, from, to, amount)
	if errors.Is(err, payment.ErrInsufficientFunds) {
		bal, balErr := im.payment.Balance(c, from)
		if balErr != nil {
			return listing.NewError(listing.ErrInsufficientFunds, tokenId)
		}
		return listing.NewMismatchError(listing.ErrInsufficientFunds, tokenId, amount, bal)
	} else if err != nil {
		return xerrors.Errorf("payment.Pay: %w", err)
	}
	return nil
}

// toggle flips Active of a listing expected in the opposite state, lost
// reports a concurrent change of that state
func (im *impl) toggle(c ctx.Ctx, tokenId domain.TokenId, active bool, lost error) error {
	now := time.Now()
	err := im.listing.Patch(c, tokenId, !active, listing.PatchableListing{
		Active:    ptr.Bool(active),
		UpdatedAt: &now,
	})
	if err == domain.ErrNotFound {
		return listing.NewError(lost, tokenId)
	} else if err != nil {
		return xerrors.Errorf("listing.Patch: %w", err)
	}
	return nil
}

// reject records a failed operation. Market rejections are expected and
// logged at info, anything else is an error.
func (im *impl) reject(c ctx.Ctx, op string, err error) error {
	kind := errKind(err)
	im.met.BumpSum(op+".err", 1, "kind", kind)
	if kind == "internal" {
		c.WithField("err", err).Error("market operation failed")
	} else {
		c.WithField("err", err).Info("market operation rejected")
	}
	return err
}

// apply runs run in one transaction. With a cache configured the listing
// version is bumped in the same transaction, retiring the cached for-sale list.
func (im *impl) apply(c ctx.Ctx, run func(ctx.Ctx) error) error {
	return im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := run(c); err != nil {
			return err
		}
		if im.cache == nil {
			return nil
		}
		if _, err := im.listing.BumpVersion(c); err != nil {
			return xerrors.Errorf("listing.BumpVersion: %w", err)
		}
		return nil
	})
}

func (im *impl) notify(c ctx.Ctx, msg string) {
	if im.notifier == nil {
		return
	}
	if err := im.notifier.Notify(c, msg); err != nil {
		c.WithField("err", err).Warn("notifier.Notify failed")
	}
}

var errKinds = map[error]string{
	listing.ErrInvalidFee:        "invalid_fee",
	listing.ErrInvalidPrice:      "invalid_price",
	listing.ErrNotOwner:          "not_owner",
	listing.ErrNotListed:         "not_listed",
	listing.ErrNoSuchListing:     "no_such_listing",
	listing.ErrNotSeller:         "not_seller",
	listing.ErrNotForSale:        "not_for_sale",
	listing.ErrSelfPurchase:      "self_purchase",
	listing.ErrWrongPrice:        "wrong_price",
	listing.ErrAlreadyListed:     "already_listed",
	listing.ErrInvalidRecipient:  "invalid_recipient",
	listing.ErrTransferDenied:    "transfer_denied",
	listing.ErrInsufficientFunds: "insufficient_funds",
	domain.ErrInvalidAddress:     "invalid_address",
}

func errKind(err error) string {
	var le *listing.Error
	if errors.As(err, &le) {
		err = le.Err
	}
	if kind, ok := errKinds[err]; ok {
		return kind
	}
	return "internal"
}
