package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/adapters/datasource"
	"github.com/fguintu/FlySQL/pkg/apperrors"
	"github.com/fguintu/FlySQL/pkg/logging"
	"github.com/fguintu/FlySQL/pkg/models"
	sqlpkg "github.com/fguintu/FlySQL/pkg/sql"
)

// DefaultQueryTimeout bounds a statement when no timeout is configured.
const DefaultQueryTimeout = 30 * time.Second

// QueryExecutor provides PostgreSQL query execution over a shared pool.
type QueryExecutor struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *zap.Logger
}

// NewQueryExecutor creates a PostgreSQL query executor. The pool is owned
// by the caller; a non-positive timeout uses DefaultQueryTimeout.
func NewQueryExecutor(pool *pgxpool.Pool, timeout time.Duration, logger *zap.Logger) *QueryExecutor {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &QueryExecutor{
		pool:    pool,
		timeout: timeout,
		logger:  logger.Named("postgres-executor"),
	}
}

// Execute runs a statement with positional ($1, $2, ...) bind values.
func (e *QueryExecutor) Execute(ctx context.Context, sqlQuery string, args []any) (*models.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, e.wrapError(fmt.Errorf("acquire connection: %w", err))
	}
	defer conn.Release()

	var result *models.QueryResult
	if sqlpkg.IsSelect(sqlQuery) {
		result, err = fetchRows(ctx, conn, sqlQuery, args)
	} else {
		result, err = execStatement(ctx, conn, sqlQuery, args)
	}
	if err != nil {
		e.logger.Debug("Statement failed",
			zap.String("sql", logging.SanitizeQuery(sqlQuery)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, e.wrapError(err)
	}

	result.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000
	return result, nil
}

// Ping verifies the database is reachable.
func (e *QueryExecutor) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// Close is a no-op: the pool belongs to the caller.
func (e *QueryExecutor) Close() {}

func fetchRows(ctx context.Context, conn *pgxpool.Conn, sqlQuery string, args []any) (*models.QueryResult, error) {
	rows, err := conn.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = jsonValue(values[i])
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// execStatement runs a non-SELECT statement inside a transaction and
// commits it.
func execStatement(ctx context.Context, conn *pgxpool.Conn, sqlStatement string, args []any) (*models.QueryResult, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	tag, err := tx.Exec(ctx, sqlStatement, args...)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	affected := tag.RowsAffected()
	return &models.QueryResult{
		Affected: &affected,
	}, nil
}

// wrapError converts a database failure into a QueryExecutionError.
// Deadlines and server-side timeouts are retryable.
func (e *QueryExecutor) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return apperrors.NewQueryExecutionError(
			fmt.Errorf("%w after %s: %w", apperrors.ErrQueryTimeout, e.timeout, err), true)
	}
	return apperrors.NewQueryExecutionError(err, false)
}

// jsonValue converts driver values that have no useful JSON form.
func jsonValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case []byte:
		return string(val)
	default:
		return v
	}
}

// Ensure QueryExecutor implements datasource.QueryExecutor at compile time.
var _ datasource.QueryExecutor = (*QueryExecutor)(nil)
