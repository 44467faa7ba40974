// Package memdb is a process local table store with all-or-nothing
// transactions. It backs the memory repositories when the service runs
// without mongo, and in tests.
package memdb

import (
	"context"
	"sort"
	"sync"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

type txKey struct{}

// DB holds named tables. Rows are stored by value, so a row read out of a
// table is a copy the caller may keep.
type DB struct {
	// txMu serializes writers, a transaction holds it for its whole run.
	// Readers outside a transaction share it so they never see uncommitted rows.
	txMu sync.RWMutex
	mu   sync.RWMutex

	tables map[domain.Table]*Table
}

// Table is a keyed set of rows. Its methods are only safe inside View or Update.
type Table struct {
	rows map[string]interface{}
}

func New() *DB {
	return &DB{
		tables: map[domain.Table]*Table{},
	}
}

func (t *Table) Get(key string) (interface{}, bool) {
	v, ok := t.rows[key]
	return v, ok
}

func (t *Table) Put(key string, row interface{}) {
	t.rows[key] = row
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Each visits rows in key order until fn returns false
func (t *Table) Each(fn func(key string, row interface{}) bool) {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !fn(k, t.rows[k]) {
			return
		}
	}
}

func (db *DB) table(name domain.Table) *Table {
	t, ok := db.tables[name]
	if !ok {
		t = &Table{rows: map[string]interface{}{}}
		db.tables[name] = t
	}
	return t
}

func (db *DB) inTx(c ctx.Ctx) bool {
	owner, _ := c.Value(txKey{}).(*DB)
	return owner == db
}

// View runs fn with read access to table name
func (db *DB) View(c ctx.Ctx, name domain.Table, fn func(t *Table)) {
	if !db.inTx(c) {
		db.txMu.RLock()
		defer db.txMu.RUnlock()
	}

	db.mu.Lock()
	t := db.table(name)
	db.mu.Unlock()

	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(t)
}

// Update runs fn with write access to table name. Outside a transaction the
// write is applied on its own; inside one it is undone if the transaction fails.
func (db *DB) Update(c ctx.Ctx, name domain.Table, fn func(t *Table) error) error {
	if !db.inTx(c) {
		db.txMu.Lock()
		defer db.txMu.Unlock()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.table(name))
}

func (db *DB) snapshot() map[domain.Table]map[string]interface{} {
	db.mu.RLock()
	defer db.mu.RUnlock()
	res := make(map[domain.Table]map[string]interface{}, len(db.tables))
	for name, t := range db.tables {
		rows := make(map[string]interface{}, len(t.rows))
		for k, v := range t.rows {
			rows[k] = v
		}
		res[name] = rows
	}
	return res
}

func (db *DB) restore(snap map[domain.Table]map[string]interface{}) {
	db.mu.Lock()
	defer db.mu.Unlock()
	tables := make(map[domain.Table]*Table, len(snap))
	for name, rows := range snap {
		tables[name] = &Table{rows: rows}
	}
	db.tables = tables
}

// RunWithTransaction runs run exclusively of every other writer. When run
// returns an error or panics all tables are restored to their state before
// run. A nested call joins the outer transaction.
func (db *DB) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) (err error) {
	if db.inTx(c) {
		return run(c)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	if err := c.Err(); err != nil {
		return err
	}

	snap := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(snap)
			panic(p)
		}
		if err != nil {
			db.restore(snap)
		}
	}()

	return run(ctx.WithContext(c, context.WithValue(c.Context, txKey{}, db)))
}

// Seq returns the current value of counter name, 0 before its first NextSeq
func (db *DB) Seq(c ctx.Ctx, name string) int64 {
	var seq int64
	db.View(c, domain.TableSequences, func(t *Table) {
		if row, ok := t.Get(name); ok {
			seq = row.(int64)
		}
	})
	return seq
}

// NextSeq increments the counter name and returns its new value, the first
// value of a counter is 1
func (db *DB) NextSeq(c ctx.Ctx, name string) (int64, error) {
	var seq int64
	err := db.Update(c, domain.TableSequences, func(t *Table) error {
		if row, ok := t.Get(name); ok {
			seq = row.(int64)
		}
		seq++
		t.Put(name, seq)
		return nil
	})
	return seq, err
}
