package repository

import (
	"sort"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/service/memdb"
)

type memoryImpl struct {
	db *memdb.DB
}

func NewMemory(db *memdb.DB) asset.Repo {
	return &memoryImpl{db}
}

func (im *memoryImpl) Mint(c ctx.Ctx, owner domain.Address, contentRef, contentType string) (*asset.Item, error) {
	var item asset.Item
	err := im.db.RunWithTransaction(c, func(c ctx.Ctx) error {
		seq, err := im.db.NextSeq(c, seqName)
		if err != nil {
			return err
		}

		now := time.Now()
		item = asset.Item{
			TokenId:     domain.TokenIdFromSeq(seq),
			Seq:         seq,
			Owner:       owner.ToLower(),
			Minter:      owner.ToLower(),
			ContentRef:  contentRef,
			ContentType: contentType,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return im.db.Update(c, domain.TableItems, func(t *memdb.Table) error {
			t.Put(string(item.TokenId), item)
			return nil
		})
	})
	if err != nil {
		c.WithField("err", err).Error("db.RunWithTransaction failed")
		return nil, err
	}
	return &item, nil
}

func (im *memoryImpl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*asset.Item, error) {
	var (
		item asset.Item
		ok   bool
	)
	im.db.View(c, domain.TableItems, func(t *memdb.Table) {
		var row interface{}
		if row, ok = t.Get(string(tokenId)); ok {
			item = row.(asset.Item)
		}
	})
	if !ok {
		return nil, asset.ErrItemNotFound
	}
	return &item, nil
}

func (im *memoryImpl) OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	item, err := im.FindOne(c, tokenId)
	if err != nil {
		return "", err
	}
	return item.Owner, nil
}

func (im *memoryImpl) Transfer(c ctx.Ctx, tokenId domain.TokenId, from, to domain.Address) error {
	return im.db.Update(c, domain.TableItems, func(t *memdb.Table) error {
		row, ok := t.Get(string(tokenId))
		if !ok {
			return asset.ErrItemNotFound
		}
		item := row.(asset.Item)
		if !item.Owner.Equals(from) {
			return asset.ErrTransferDenied
		}
		item.Owner = to.ToLower()
		item.UpdatedAt = time.Now()
		t.Put(string(tokenId), item)
		return nil
	})
}

func (im *memoryImpl) FindAll(c ctx.Ctx, optFns ...asset.FindAllOptionsFunc) ([]*asset.Item, error) {
	opts, err := asset.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("asset.GetFindAllOptions failed")
		return nil, err
	}

	res := []*asset.Item{}
	im.db.View(c, domain.TableItems, func(t *memdb.Table) {
		t.Each(func(_ string, row interface{}) bool {
			item := row.(asset.Item)
			if opts.Owner == nil || item.Owner.Equals(*opts.Owner) {
				res = append(res, &item)
			}
			return true
		})
	})
	sort.Slice(res, func(i, j int) bool { return res[i].Seq < res[j].Seq })

	return paginate(res, opts.Offset, opts.Limit), nil
}

func paginate(items []*asset.Item, offset, limit *int32) []*asset.Item {
	if offset != nil {
		if int(*offset) >= len(items) {
			return []*asset.Item{}
		}
		items = items[*offset:]
	}
	if limit != nil && *limit > 0 && int(*limit) < len(items) {
		items = items[:*limit]
	}
	return items
}
