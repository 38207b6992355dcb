package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/sqlclient/internal/environment"
)

// configurationPrefix marks environment keys applied as SET statements
// when a session opens.
const configurationPrefix = "configuration."

// extensionSuffix is the filename suffix of loadable DuckDB extensions
// found in library directories.
const extensionSuffix = ".duckdb_extension"

// Local is an embedded executor running DuckDB in-process. Sessions
// share one database handle; each session records its own environment.
type Local struct {
	defaults    *environment.Config
	extensions  []string
	libraryDirs []string
	logger      *slog.Logger

	mu       sync.Mutex
	db       *sql.DB
	started  bool
	sessions map[string]*session
}

type session struct {
	id  string
	env *environment.Config
}

// NewLocal creates an embedded executor. The extension and library
// directory lists must be non-nil; callers substitute empty slices for
// absent options.
func NewLocal(defaults *environment.Config, extensions, libraryDirs []string) *Local {
	if defaults == nil {
		defaults = environment.New()
	}
	return &Local{
		defaults:    defaults,
		extensions:  extensions,
		libraryDirs: libraryDirs,
		logger:      slog.New(slog.DiscardHandler),
		sessions:    map[string]*session{},
	}
}

// SetLogger replaces the executor's logger. The default discards.
func (l *Local) SetLogger(logger *slog.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Start opens the DuckDB database and loads any configured extensions.
func (l *Local) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return fmt.Errorf("executor already started")
	}

	path := ":memory:"
	if p, ok := l.defaults.Get("execution.database"); ok && p != "" {
		path = p
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	if err := l.loadExtensions(db); err != nil {
		_ = db.Close()
		return err
	}

	l.db = db
	l.started = true
	l.logger.Debug("local executor started", "database", path)
	return nil
}

// loadExtensions loads explicit extension locators plus every
// extension found in the library directories.
func (l *Local) loadExtensions(db *sql.DB) error {
	locators := append([]string{}, l.extensions...)
	for _, dir := range l.libraryDirs {
		found, err := filepath.Glob(filepath.Join(dir, "*"+extensionSuffix))
		if err != nil {
			return fmt.Errorf("failed to scan library directory %s: %w", dir, err)
		}
		locators = append(locators, found...)
	}

	for _, loc := range locators {
		if _, err := db.Exec(fmt.Sprintf("LOAD '%s'", loc)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", loc, err)
		}
		l.logger.Debug("loaded extension", "path", loc)
	}
	return nil
}

// OpenSession opens a session and returns its handle. The handle is
// unique per invocation even when session ids repeat.
func (l *Local) OpenSession(id string, env *environment.Config) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return "", fmt.Errorf("executor not started")
	}
	if env == nil {
		env = environment.New()
	}

	handle := id + "-" + uuid.NewString()[:8]

	// Environment keys under configuration. map onto engine settings.
	for _, key := range env.Keys() {
		if !strings.HasPrefix(key, configurationPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, configurationPrefix)
		value, _ := env.Get(key)
		if _, err := l.db.Exec(fmt.Sprintf("SET %s = '%s'", name, value)); err != nil {
			return "", fmt.Errorf("failed to apply session setting %s: %w", name, err)
		}
	}

	l.sessions[handle] = &session{id: id, env: env}
	l.logger.Info("session opened", "id", id, "handle", handle)
	return handle, nil
}

// CloseSession closes the session. Unknown and already closed handles
// are a no-op, which makes the call safe from both the normal teardown
// path and the shutdown hook.
func (l *Local) CloseSession(handle string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sessions[handle]; !ok {
		return nil
	}
	delete(l.sessions, handle)
	l.logger.Info("session closed", "handle", handle)

	if len(l.sessions) == 0 && l.db != nil {
		if err := l.db.Close(); err != nil {
			return fmt.Errorf("failed to close duckdb connection: %w", err)
		}
		l.db = nil
	}
	return nil
}

// ExecuteQuery runs a row-producing statement for the given session.
func (l *Local) ExecuteQuery(ctx context.Context, handle, stmt string) (*Result, error) {
	db, err := l.sessionDB(handle)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRows(rows)
}

// ExecuteUpdate runs a statement that produces no rows.
func (l *Local) ExecuteUpdate(ctx context.Context, handle, stmt string) error {
	db, err := l.sessionDB(handle)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

func (l *Local) sessionDB(handle string) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sessions[handle]; !ok {
		return nil, fmt.Errorf("unknown session handle: %s", handle)
	}
	return l.db, nil
}

func collectRows(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
