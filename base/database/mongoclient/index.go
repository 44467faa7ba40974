package mongoclient

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/nftmarket/base/log"
)

// Index describes one index of a collection, Keys are in order
type Index struct {
	Collection string
	Keys       bson.D
	Unique     bool
}

// EnsureIndexes creates the missing indexes. Existing indexes with the same
// keys are left untouched by the server.
func (c *Client) EnsureIndexes(ctx context.Context, indexes []Index) error {
	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: options.Index().SetUnique(idx.Unique),
		}
		name, err := c.Database(c.DbName).Collection(idx.Collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			log.Log().WithFields(log.Fields{
				"collection": idx.Collection,
				"keys":       idx.Keys,
				"err":        err,
			}).Error("create index failed")
			return err
		}
		log.Log().WithFields(log.Fields{"collection": idx.Collection, "index": name}).Info("index ensured")
	}
	return nil
}
