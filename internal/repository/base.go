package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed width so stored timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqlRepository holds what every sqlite-backed repository shares: the
// statement cache and the clock used for audit metadata.
type sqlRepository struct {
	stmts *PreparedStatementCache
	now   func() time.Time
}

func newSQLRepository(stmts *PreparedStatementCache) sqlRepository {
	return sqlRepository{
		stmts: stmts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// stmt returns the cached statement for query, bound to the transaction
// carried by ctx when there is one.
func (r *sqlRepository) stmt(ctx context.Context, query string) (*sql.Stmt, error) {
	stmt, err := r.stmts.Get(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	if tx, ok := txFromContext(ctx); ok {
		return tx.StmtContext(ctx, stmt), nil
	}
	return stmt, nil
}

func (r *sqlRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := r.stmt(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}

func (r *sqlRepository) queryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	stmt, err := r.stmt(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryRowContext(ctx, args...), nil
}

func (r *sqlRepository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := r.stmt(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
