package repository

import (
	"sort"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/service/memdb"
)

type memoryImpl struct {
	db *memdb.DB
}

func NewMemory(db *memdb.DB) listing.Repo {
	return &memoryImpl{db}
}

func (im *memoryImpl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*listing.Listing, error) {
	var (
		res listing.Listing
		ok  bool
	)
	im.db.View(c, domain.TableListings, func(t *memdb.Table) {
		var row interface{}
		if row, ok = t.Get(string(tokenId)); ok {
			res = row.(listing.Listing)
		}
	})
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (im *memoryImpl) FindAll(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
		return nil, err
	}

	res := []*listing.Listing{}
	im.db.View(c, domain.TableListings, func(t *memdb.Table) {
		t.Each(func(_ string, row interface{}) bool {
			l := row.(listing.Listing)
			if opts.Seller != nil && !l.Seller.Equals(*opts.Seller) {
				return true
			}
			if opts.Active != nil && l.Active != *opts.Active {
				return true
			}
			res = append(res, &l)
			return true
		})
	})
	sort.Slice(res, func(i, j int) bool { return res[i].Seq < res[j].Seq })

	if opts.Offset != nil {
		if int(*opts.Offset) >= len(res) {
			return []*listing.Listing{}, nil
		}
		res = res[*opts.Offset:]
	}
	if opts.Limit != nil && *opts.Limit > 0 && int(*opts.Limit) < len(res) {
		res = res[:*opts.Limit]
	}
	return res, nil
}

func (im *memoryImpl) Upsert(c ctx.Ctx, value *listing.Listing) error {
	return im.db.Update(c, domain.TableListings, func(t *memdb.Table) error {
		t.Put(string(value.TokenId), *value)
		return nil
	})
}

func (im *memoryImpl) Patch(c ctx.Ctx, tokenId domain.TokenId, wasActive bool, value listing.PatchableListing) error {
	return im.db.Update(c, domain.TableListings, func(t *memdb.Table) error {
		row, ok := t.Get(string(tokenId))
		if !ok {
			return domain.ErrNotFound
		}
		l := row.(listing.Listing)
		if l.Active != wasActive {
			return domain.ErrNotFound
		}
		if value.Active != nil {
			l.Active = *value.Active
		}
		if value.Buyer != nil {
			b := *value.Buyer
			l.Buyer = &b
		}
		if value.SoldAt != nil {
			at := *value.SoldAt
			l.SoldAt = &at
		}
		if value.UpdatedAt != nil {
			l.UpdatedAt = *value.UpdatedAt
		}
		t.Put(string(tokenId), l)
		return nil
	})
}

func (im *memoryImpl) NextSeq(c ctx.Ctx) (int64, error) {
	return im.db.NextSeq(c, seqName)
}

func (im *memoryImpl) Version(c ctx.Ctx) (int64, error) {
	return im.db.Seq(c, versionName), nil
}

func (im *memoryImpl) BumpVersion(c ctx.Ctx) (int64, error) {
	return im.db.NextSeq(c, versionName)
}

type saleMemoryImpl struct {
	db *memdb.DB
}

func NewSaleMemory(db *memdb.DB) listing.SaleRepo {
	return &saleMemoryImpl{db}
}

func (im *saleMemoryImpl) Insert(c ctx.Ctx, sale *listing.Sale) error {
	return im.db.Update(c, domain.TableSales, func(t *memdb.Table) error {
		if _, ok := t.Get(sale.Id); ok {
			return domain.ErrConflict
		}
		t.Put(sale.Id, *sale)
		return nil
	})
}

func (im *saleMemoryImpl) FindByToken(c ctx.Ctx, tokenId domain.TokenId) ([]*listing.Sale, error) {
	res := []*listing.Sale{}
	im.db.View(c, domain.TableSales, func(t *memdb.Table) {
		t.Each(func(_ string, row interface{}) bool {
			if s := row.(listing.Sale); s.TokenId == tokenId {
				res = append(res, &s)
			}
			return true
		})
	})
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}
