package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// PreparedStatementCache holds one prepared statement per query text.
// Repositories bind the cached statements to a transaction with
// tx.StmtContext instead of preparing inside it.
type PreparedStatementCache struct {
	mu         sync.RWMutex
	statements map[string]*sql.Stmt
	db         *sql.DB
}

// NewPreparedStatementCache creates a new prepared statement cache
func NewPreparedStatementCache(db *sql.DB) *PreparedStatementCache {
	return &PreparedStatementCache{
		statements: make(map[string]*sql.Stmt),
		db:         db,
	}
}

// Prepare fills the cache for every query up front. A miss inside a
// transaction would ask the pool for a second connection, which blocks
// forever on a single-connection pool. The driver may defer compiling the
// SQL until first use, so a bad query can still fail later.
func (c *PreparedStatementCache) Prepare(queries ...string) error {
	for _, q := range queries {
		if _, err := c.Get(q); err != nil {
			return fmt.Errorf("failed to prepare %q: %w", q, err)
		}
	}
	return nil
}

// Get returns the statement for query, preparing it on a miss
func (c *PreparedStatementCache) Get(query string) (*sql.Stmt, error) {
	c.mu.RLock()
	if stmt, ok := c.statements[query]; ok {
		c.mu.RUnlock()
		return stmt, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have prepared it meanwhile
	if stmt, ok := c.statements[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.Prepare(query)
	if err != nil {
		return nil, err
	}

	c.statements[query] = stmt
	return stmt, nil
}

// Close closes every statement and empties the cache. All close errors are
// reported.
func (c *PreparedStatementCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, stmt := range c.statements {
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	clear(c.statements)
	return errors.Join(errs...)
}

// Size returns the number of cached statements
func (c *PreparedStatementCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.statements)
}
