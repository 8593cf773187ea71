package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// Page is a 1-based page request
type Page struct {
	Page int
	Size int
}

func (p Page) apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)
	return q.Offset(offset).Limit(limit)
}

// searchAny matches term case-insensitively against any of cols
func searchAny(term string, cols ...string) squirrel.Sqlizer {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
	or := make(squirrel.Or, 0, len(cols))
	for _, c := range cols {
		or = append(or, squirrel.Expr(c+` ILIKE ? ESCAPE '\'`, pattern))
	}
	return or
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// nonNil keeps NOT NULL array columns from receiving NULL
func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// count runs SELECT COUNT(*) over the same filters as a list query
func count(ctx context.Context, db Querier, q squirrel.SelectBuilder, what string) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build count %s query: %w", what, err)
	}

	var total int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error executing count query")
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return total, nil
}

// exec runs a write statement and returns the affected row count
func exec(ctx context.Context, db Querier, q squirrel.Sqlizer, what string) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", what).Msg("Error building SQL")
		return 0, fmt.Errorf("failed to build %s query: %w", what, err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", what).Msg("Error executing query")
		return 0, fmt.Errorf("error executing %s: %w", what, err)
	}
	return tag.RowsAffected(), nil
}

// bulkUpdateStatus sets status on every row of table whose id is in ids
func bulkUpdateStatus(ctx context.Context, db Querier, sb squirrel.StatementBuilderType, table string, ids []int64, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := sb.Update(table).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": ids})
	return exec(ctx, db, q, "bulk status "+table)
}

// bulkDelete removes every row of table whose id is in ids
func bulkDelete(ctx context.Context, db Querier, sb squirrel.StatementBuilderType, table string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := sb.Delete(table).Where(squirrel.Eq{"id": ids})
	return exec(ctx, db, q, "bulk delete "+table)
}

// countByStatus groups a table by its status column
func countByStatus(ctx context.Context, db Querier, sb squirrel.StatementBuilderType, table, column string) (map[string]int64, error) {
	sql, args, err := sb.Select(column, "COUNT(*)").From(table).GroupBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status count query: %w", err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing status count query")
		return nil, fmt.Errorf("failed to count %s by %s: %w", table, column, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// collect scans every row with scan
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

// queryList runs a select and scans it with scan
func queryList[T any](ctx context.Context, db Querier, q squirrel.SelectBuilder, what string, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error building list SQL")
		return nil, fmt.Errorf("failed to build list %s query: %w", what, err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error executing list query")
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	return collect(rows, scan)
}
