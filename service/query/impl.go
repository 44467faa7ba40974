package query

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/base/metrics"
	"github.com/x-xyz/nftmarket/domain"
)

const (
	queryMaxTime = 20 * time.Second
	// concurrent transactions per process
	txLimit = 10
)

var (
	timeNow = time.Now
	met     = metrics.New("mongo")
)

type impl struct {
	client     *mongoclient.Client
	checkIndex bool
	tokens     chan int
}

// New initializes an impl
func New(client *mongoclient.Client, checkIndex bool) Mongo {
	tokens := make(chan int, txLimit)
	for i := 0; i < txLimit; i++ {
		tokens <- i + 1
	}
	return &impl{
		client:     client,
		checkIndex: checkIndex,
		tokens:     tokens,
	}
}

func (im *impl) logerr(c ctx.Ctx, msg string, err error) {
	if _, ok := err.(topology.ConnectionError); ok {
		met.BumpSum("conn.err", 1.0)
	}
	c.WithFields(log.Fields{"err": err}).Error(msg)
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) Insert(c ctx.Ctx, table domain.Table, insert interface{}) error {
	defer met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(c, string(table), "insert", nil, nil)()

	c = ctx.WithValues(c, map[string]interface{}{
		"table":  table,
		"insert": insert,
	})

	if _, err := im.coll(table).InsertOne(c, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(c, "Insert: InsertOne failed", err)
		return err
	}

	return nil
}

func (im *impl) FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(c, string(table), "findone", query, nil)()

	c = ctx.WithValues(c, map[string]interface{}{
		"table": table,
		"query": query,
	})

	if err := im.checkQueryIndex(c, string(table), "find", bson.E{Key: "filter", Value: query}); err != nil {
		im.logerr(c, "checkQueryIndex failed", err)
		return err
	}

	findOneOpts := options.FindOne().SetMaxTime(queryMaxTime)
	res := im.coll(table).FindOne(c, query, findOneOpts)

	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(c, "FindOne: FindOne error", err)
		return err
	}
	return nil
}

func (im *impl) Count(c ctx.Ctx, table domain.Table, selector interface{}) (n int, err error) {
	defer met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(c, string(table), "count", selector, nil)()

	c = ctx.WithValues(c, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	if err := im.checkQueryIndex(c, string(table), "count", bson.E{Key: "query", Value: selector}); err != nil {
		im.logerr(c, "checkQueryIndex failed", err)
		return 0, err
	}

	opts := options.Count().SetMaxTime(queryMaxTime)
	count, err := im.coll(table).CountDocuments(c, selector, opts)
	if err != nil {
		im.logerr(c, "Count: CountDocuments failed", err)
		return 0, err
	}
	return int(count), nil
}

func (im *impl) Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer met.BumpTime("time", "func", "upsert", "table", string(table)).End()
	defer slowLog(c, string(table), "upsert", selector, nil)()

	c = ctx.WithValues(c, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	replaceOpts := options.Replace().SetUpsert(true)
	if _, err := im.coll(table).ReplaceOne(c, selector, update, replaceOpts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(c, "Upsert: ReplaceOne failed", err)
		return err
	}
	return nil
}

func getSortOption(sortStrings ...string) bson.D {
	res := bson.D{}
	for _, sort := range sortStrings {
		if sort == "" {
			continue
		}
		if sort[0] == '-' {
			res = append(res, bson.E{Key: sort[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: sort, Value: 1})
		}
	}

	return res
}

func (im *impl) Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	return im.SearchNSorts(c, table, offset, limit, []string{sort}, query, results)
}

func (im *impl) SearchNSorts(c ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error {
	defer met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(c, string(table), "search", query, sortFields)()

	c = ctx.WithValues(c, map[string]interface{}{
		"table": table,
		"query": query,
	})

	if err := im.checkQueryIndex(c, string(table), "find", bson.E{Key: "filter", Value: query}); err != nil {
		im.logerr(c, "checkQueryIndex failed", err)
		return err
	}

	findOpts := options.Find().SetMaxTime(queryMaxTime)
	findOpts.SetLimit(int64(limit)).SetSkip(int64(offset))
	if sortOpt := getSortOption(sortFields...); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}
	cursor, err := im.coll(table).Find(c, query, findOpts)
	if err != nil {
		im.logerr(c, "Search: Find failed", err)
		return err
	}
	defer cursor.Close(c)

	if err := cursor.All(c, results); err != nil {
		im.logerr(c, "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) Patch(c ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error {
	defer met.BumpTime("time", "func", "update", "table", string(table)).End()
	defer slowLog(c, string(table), "update", selector, nil)()

	o := &patchOp{}
	for _, opt := range ops {
		opt(o)
	}

	c = ctx.WithValues(c, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	var (
		err       error
		updateRes *mongo.UpdateResult
	)
	updater := bson.M{"$set": update}
	if o.patchMany {
		updateRes, err = im.coll(table).UpdateMany(c, selector, updater)
	} else {
		updateRes, err = im.coll(table).UpdateOne(c, selector, updater)
	}
	if err != nil {
		im.logerr(c, "Patch: Update failed", err)
		return err
	}

	if updateRes.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (im *impl) CustomPatch(c ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error {
	defer met.BumpTime("time", "func", "customupdate", "table", string(table)).End()
	defer slowLog(c, string(table), "customupdate", selector, nil)()

	c = ctx.WithValues(c, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	updateOpts := options.Update().SetUpsert(upsert)
	updateRes, err := im.coll(table).UpdateOne(c, selector, update, updateOpts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(c, "CustomPatch: UpdateOne failed", err)
		return err
	}

	if updateRes.MatchedCount == 0 && updateRes.UpsertedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (im *impl) Increment(c ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error {
	defer met.BumpTime("time", "func", "increment", "table", string(table)).End()
	defer slowLog(c, string(table), "increment", selector, nil)()

	updater := bson.M{"$inc": bson.M{field: inc}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	res := im.coll(table).FindOneAndUpdate(c, selector, updater, opts)
	if err := res.Decode(result); err != nil {
		im.logerr(c, "Increment: FindOneAndUpdate failed", err)
		return err
	}
	return nil
}

func (im *impl) Ping(c ctx.Ctx) error {
	return im.client.Ping(c, readpref.Primary())
}

func (im *impl) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	// nested calls join the running transaction
	if mongo.SessionFromContext(c) != nil {
		return run(c)
	}

	defer met.BumpTime("time", "func", "transaction").End()

	var token int
	select {
	case <-c.Done():
		return c.Err()
	case token = <-im.tokens:
	}
	defer func() {
		im.tokens <- token
	}()

	session, err := im.client.StartSession()
	if err != nil {
		im.logerr(c, "RunWithTransaction: StartSession failed", err)
		return err
	}
	defer session.EndSession(c)

	// WithTransaction retries run on transient transaction errors, run has to
	// re-read everything it depends on
	_, err = session.WithTransaction(c, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, run(ctx.WithContext(c, sessCtx))
	})
	return err
}

func slowLog(c ctx.Ctx, table, action string, query interface{}, sort interface{}) func() {
	start := timeNow()
	threshold := int64(500)

	return func() {
		elapsedMs := time.Since(start).Milliseconds()
		if elapsedMs >= threshold {
			met.BumpSum("slowlog", 1, "table", table, "action", action)
			c.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"startTime":  start.Unix(),
				"durationMs": elapsedMs,
				"query":      query,
				"sort":       sort,
			}).Warn("mongo slowlog")
		}
	}
}

func (im *impl) checkQueryIndex(c ctx.Ctx, table string, action string, query bson.E) error {
	// explain is not allowed inside a transaction
	if !im.checkIndex || mongo.SessionFromContext(c) != nil {
		return nil
	}
	// reference: https://docs.mongodb.com/manual/reference/command/explain/
	res := im.client.Database(im.client.DbName).RunCommand(c, bson.D{
		bson.E{
			Key: "explain",
			Value: bson.D{
				bson.E{Key: action, Value: table},
				query,
			},
		},
		bson.E{
			Key:   "verbosity",
			Value: "queryPlanner",
		},
	})

	var m bson.M
	if err := res.Decode(&m); err != nil {
		c.WithField("err", err).Warn("checkQueryIndex decode failed")
		met.BumpSum("checkQueryIndex.err", 1)
		return nil
	}

	// the explain output shape differs between server versions, so only
	// look for the stage name
	if strings.Contains(fmt.Sprintf("%v", m), "COLLSCAN") {
		c.WithField("query", query).Warn("COLLSCAN")
		return ErrCollScan
	}
	return nil
}
