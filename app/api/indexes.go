package main

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/domain"
)

// indexes backs every selector the mongo repositories issue
var indexes = []mongoclient.Index{
	{Collection: string(domain.TableItems), Keys: bson.D{{Key: "tokenId", Value: 1}}, Unique: true},
	{Collection: string(domain.TableItems), Keys: bson.D{{Key: "owner", Value: 1}, {Key: "seq", Value: 1}}},
	{Collection: string(domain.TableListings), Keys: bson.D{{Key: "tokenId", Value: 1}}, Unique: true},
	{Collection: string(domain.TableListings), Keys: bson.D{{Key: "active", Value: 1}, {Key: "seq", Value: 1}}},
	{Collection: string(domain.TableListings), Keys: bson.D{{Key: "seller", Value: 1}, {Key: "seq", Value: 1}}},
	{Collection: string(domain.TableSales), Keys: bson.D{{Key: "tokenId", Value: 1}, {Key: "createdAt", Value: 1}}},
	{Collection: string(domain.TableBalances), Keys: bson.D{{Key: "address", Value: 1}}, Unique: true},
}
