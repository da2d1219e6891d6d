package datasource

import (
	"context"

	"github.com/fguintu/FlySQL/pkg/models"
)

// QueryExecutor executes SQL against the database.
//
// Execute is synchronous. It acquires one connection for the call and
// releases it on every exit path. Statements starting with "select" return
// rows; anything else is executed in a transaction, committed, and reports
// the affected row count. Failures are *apperrors.QueryExecutionError.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlQuery string, args []any) (*models.QueryResult, error)

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the executor.
	Close()
}
