package query

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

type sequence struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// CurrentSeq returns the value of counter name, 0 before its first NextSeq
func CurrentSeq(c ctx.Ctx, q Mongo, name string) (int64, error) {
	res := sequence{}
	if err := q.FindOne(c, domain.TableSequences, bson.M{"_id": name}, &res); err == ErrNotFound {
		return 0, nil
	} else if err != nil {
		c.WithField("err", err).WithField("name", name).Error("q.FindOne failed")
		return 0, err
	}
	return res.Seq, nil
}

// NextSeq increments the counter name and returns its new value, the first
// value of a counter is 1
func NextSeq(c ctx.Ctx, q Mongo, name string) (int64, error) {
	res := sequence{}
	if err := q.Increment(c, domain.TableSequences, bson.M{"_id": name}, &res, "seq", int64(1)); err != nil {
		c.WithField("err", err).WithField("name", name).Error("q.Increment failed")
		return 0, err
	}
	return res.Seq, nil
}
