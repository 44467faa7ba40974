package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/service/query"
)

const seqName = "items"

type mongoImpl struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) asset.Repo {
	return &mongoImpl{q}
}

func (im *mongoImpl) Mint(c ctx.Ctx, owner domain.Address, contentRef, contentType string) (*asset.Item, error) {
	seq, err := query.NextSeq(c, im.q, seqName)
	if err != nil {
		c.WithField("err", err).Error("query.NextSeq failed")
		return nil, err
	}

	now := time.Now()
	item := &asset.Item{
		TokenId:     domain.TokenIdFromSeq(seq),
		Seq:         seq,
		Owner:       owner.ToLower(),
		Minter:      owner.ToLower(),
		ContentRef:  contentRef,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := im.q.Insert(c, domain.TableItems, item); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return nil, err
	}
	return item, nil
}

func (im *mongoImpl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*asset.Item, error) {
	res := &asset.Item{}
	if err := im.q.FindOne(c, domain.TableItems, bson.M{"tokenId": tokenId}, res); err == query.ErrNotFound {
		return nil, asset.ErrItemNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *mongoImpl) OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	item, err := im.FindOne(c, tokenId)
	if err != nil {
		return "", err
	}
	return item.Owner, nil
}

func (im *mongoImpl) Transfer(c ctx.Ctx, tokenId domain.TokenId, from, to domain.Address) error {
	selector := bson.M{"tokenId": tokenId, "owner": from.ToLower()}
	update := bson.M{"owner": to.ToLower(), "updatedAt": time.Now()}
	if err := im.q.Patch(c, domain.TableItems, selector, update); err == query.ErrNotFound {
		// tell a missing item apart from one held by someone else
		if _, err := im.FindOne(c, tokenId); err != nil {
			return err
		}
		return asset.ErrTransferDenied
	} else if err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("q.Patch failed")
		return err
	}
	return nil
}

func (im *mongoImpl) FindAll(c ctx.Ctx, optFns ...asset.FindAllOptionsFunc) ([]*asset.Item, error) {
	opts, err := asset.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("asset.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.Owner != nil {
		qry["owner"] = *opts.Owner
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*asset.Item{}
	if err := im.q.Search(c, domain.TableItems, offset, limit, "seq", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}
