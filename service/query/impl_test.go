package query

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/domain"
)

var (
	mockCTX = ctx.Background()
)

const (
	mockTable = domain.Table("query_test")
	dbName    = "testdb"
)

type dummy struct {
	Key   string `bson:"key"`
	Value string `bson:"value"`
	Count int    `bson:"count"`
}

// needs a replica set, e.g. TEST_MONGO_URI=mongodb://localhost:27017/?replicaSet=rs0
type querySuite struct {
	suite.Suite
	im *impl
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(querySuite))
}

func (q *querySuite) SetupSuite() {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		q.T().Skip("TEST_MONGO_URI not set")
	}
	client := mongoclient.MustConnect(mongoclient.Config{URI: uri, AuthDBName: "admin", DbName: dbName, SetSafe: true})
	q.im = New(client, false).(*impl)
}

func (q *querySuite) SetupTest() {
	q.Require().NoError(q.im.coll(mockTable).Drop(mockCTX))
}

func (q *querySuite) TestInsertAndFindOne() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{Key: "a", Value: "1"}))

	res := dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"key": "a"}, &res))
	q.Equal("1", res.Value)

	q.Equal(ErrNotFound, q.im.FindOne(mockCTX, mockTable, bson.M{"key": "b"}, &res))
}

func (q *querySuite) TestPatchNotFound() {
	q.Equal(ErrNotFound, q.im.Patch(mockCTX, mockTable, bson.M{"key": "missing"}, bson.M{"value": "x"}))
}

func (q *querySuite) TestIncrementUpserts() {
	res := dummy{}
	q.Require().NoError(q.im.Increment(mockCTX, mockTable, bson.M{"key": "seq"}, &res, "count", 1))
	q.Equal(1, res.Count)
	q.Require().NoError(q.im.Increment(mockCTX, mockTable, bson.M{"key": "seq"}, &res, "count", 1))
	q.Equal(2, res.Count)
}

func (q *querySuite) TestRunWithTransactionRollback() {
	// collections must exist before a transaction writes to them
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{Key: "seed"}))

	err := q.im.RunWithTransaction(mockCTX, func(c ctx.Ctx) error {
		if err := q.im.Insert(c, mockTable, dummy{Key: "tx"}); err != nil {
			return err
		}
		return domain.ErrConflict
	})
	q.Equal(domain.ErrConflict, err)

	n, err := q.im.Count(mockCTX, mockTable, bson.M{"key": "tx"})
	q.Require().NoError(err)
	q.Equal(0, n)
}

func TestGetSortOption(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "seq", Value: 1}, {Key: "createdAt", Value: -1}}, getSortOption("seq", "", "-createdAt"))
	assert.Empty(t, getSortOption(""))
}
