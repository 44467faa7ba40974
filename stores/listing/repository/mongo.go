package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/service/query"
)

const (
	seqName     = "listings"
	versionName = "listings.version"
)

type mongoImpl struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) listing.Repo {
	return &mongoImpl{q}
}

func (im *mongoImpl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*listing.Listing, error) {
	res := &listing.Listing{}
	if err := im.q.FindOne(c, domain.TableListings, bson.M{"tokenId": tokenId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *mongoImpl) FindAll(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.Seller != nil {
		qry["seller"] = *opts.Seller
	}
	if opts.Active != nil {
		qry["active"] = *opts.Active
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*listing.Listing{}
	if err := im.q.Search(c, domain.TableListings, offset, limit, "seq", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *mongoImpl) Upsert(c ctx.Ctx, value *listing.Listing) error {
	if err := im.q.Upsert(c, domain.TableListings, bson.M{"tokenId": value.TokenId}, value); err != nil {
		c.WithField("err", err).WithField("tokenId", value.TokenId).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *mongoImpl) Patch(c ctx.Ctx, tokenId domain.TokenId, wasActive bool, value listing.PatchableListing) error {
	updater, err := mongoclient.MakeBsonM(value)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	selector := bson.M{"tokenId": tokenId, "active": wasActive}
	if err := im.q.Patch(c, domain.TableListings, selector, updater); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("q.Patch failed")
		return err
	}
	return nil
}

func (im *mongoImpl) NextSeq(c ctx.Ctx) (int64, error) {
	return query.NextSeq(c, im.q, seqName)
}

func (im *mongoImpl) Version(c ctx.Ctx) (int64, error) {
	return query.CurrentSeq(c, im.q, versionName)
}

func (im *mongoImpl) BumpVersion(c ctx.Ctx) (int64, error) {
	return query.NextSeq(c, im.q, versionName)
}

type saleMongoImpl struct {
	q query.Mongo
}

func NewSaleMongo(q query.Mongo) listing.SaleRepo {
	return &saleMongoImpl{q}
}

func (im *saleMongoImpl) Insert(c ctx.Ctx, sale *listing.Sale) error {
	if err := im.q.Insert(c, domain.TableSales, sale); err != nil {
		c.WithField("err", err).WithField("tokenId", sale.TokenId).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *saleMongoImpl) FindByToken(c ctx.Ctx, tokenId domain.TokenId) ([]*listing.Sale, error) {
	res := []*listing.Sale{}
	if err := im.q.Search(c, domain.TableSales, 0, 0, "createdAt", bson.M{"tokenId": tokenId}, &res); err != nil {
		c.WithField("err", err).WithField("tokenId", tokenId).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}
