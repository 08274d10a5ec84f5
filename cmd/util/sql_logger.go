package util

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pgschema/schemadump/internal/logger"
)

// LoggingQuerier wraps a database handle and logs every query in debug mode.
// It satisfies catalog.Querier.
type LoggingQuerier struct {
	DB *sql.DB
}

// QueryContext runs the query, logging the statement and its outcome when debug is enabled
func (q *LoggingQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	isDebug := logger.IsDebug()
	if isDebug {
		logger.Get().Debug("Executing catalog query", "sql", compact(query), "args", args)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)

	if isDebug && err != nil {
		logger.Get().Debug("Catalog query failed", "error", err)
	}

	return rows, err
}

// compact collapses a multi-line query onto one line for log output
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
