package query

/*
	Description:
		Package `query` provides interface for querying mongo db.
		It wraps https://github.com/mongodb/mongo-go-driver, read
		https://godoc.org/go.mongodb.org/mongo-driver/mongo for detail.

	Transactions:
		RunWithTransaction hands `run` a ctx bound to a session. Every call
		made with that ctx joins the transaction.
*/

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

type patchOp struct {
	patchMany bool
}

// PatchOp is an alias for functional argument
type PatchOp func(*patchOp)

// WithPatchMany specifies patchMany setting. To patch all entries selected, set patchMany = true.
func WithPatchMany(patchMany bool) PatchOp {
	return func(o *patchOp) {
		o.patchMany = patchMany
	}
}

//Mongo abstract the mongo layer.
type Mongo interface {
	domain.Transactor

	// Insert inserts a new document to the table
	Insert(c ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table, ErrNotFound if nothing matches
	FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	Count(c ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Upsert replaces the document matching selector, or inserts update if none does
	Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sort order by `sort` argument (ex "seq" ascending, or "-seq" descending)
	// if `sort` is "", the sort action is skipped, and the MongoDB does not guarantee the order of query results.
	Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// SearchNSorts sort with multiple fields, if you use compound key, make sure key order is correct.
	SearchNSorts(c ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error

	// Patch $sets update on the entry matching selector.
	// Return ErrNotFound if selector does not match any documents
	Patch(c ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error

	// CustomPatch patch an entry with customized mongo query
	// Return ErrNotFound if upsert is false and selector does not match any documents,
	CustomPatch(c ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error

	// Increment increases a numeric field and decodes the updated document to result.
	// If entry not exist, insert it.
	Increment(c ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error

	// Ping checks the primary is reachable
	Ping(c ctx.Ctx) error
}
