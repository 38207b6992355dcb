// Package executor defines the backend executor consumed by the SQL
// client and its embedded, DuckDB-backed implementation.
package executor

import (
	"context"

	"github.com/leapstack-labs/sqlclient/internal/environment"
)

// Result holds the outcome of a query: column names and stringified
// row values, ready for rendering.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Executor is the backend that starts the query runtime and manages
// sessions. CloseSession must be idempotent and safe under concurrent
// or repeated invocation: the normal teardown path and the shutdown
// hook may both call it for the same handle.
type Executor interface {
	// Start boots the query-processing runtime. Called exactly once,
	// never retried.
	Start() error

	// OpenSession opens a session with the given identifier and
	// environment and returns its handle.
	OpenSession(id string, env *environment.Config) (string, error)

	// CloseSession closes the session. Closing an unknown or already
	// closed handle is a no-op.
	CloseSession(handle string) error

	// ExecuteQuery runs a statement that produces rows.
	ExecuteQuery(ctx context.Context, handle, stmt string) (*Result, error)

	// ExecuteUpdate runs a statement that produces no rows.
	ExecuteUpdate(ctx context.Context, handle, stmt string) error
}
