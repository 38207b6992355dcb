package cli

import (
	"fmt"

	"github.com/leapstack-labs/sqlclient/internal/environment"
	"github.com/leapstack-labs/sqlclient/internal/executor"
)

// bootstrap starts the backend executor and opens the session,
// returning its handle. Neither step is retried; any failure aborts
// the invocation.
func bootstrap(opts *Options) (string, executor.Executor, error) {
	// Downstream code never sees an absent collection.
	jars := opts.Jars
	if jars == nil {
		jars = []string{}
	}
	libraryDirs := opts.LibraryDirs
	if libraryDirs == nil {
		libraryDirs = []string{}
	}

	exec := newExecutor(environment.New(), jars, libraryDirs)
	if err := exec.Start(); err != nil {
		return "", nil, fmt.Errorf("failed to start the executor: %w", err)
	}

	env, err := readSessionEnvironment(opts.EnvironmentFile)
	if err != nil {
		return "", nil, err
	}
	env = environment.Merge(env, environment.FromMap(opts.Overrides))

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	handle, err := exec.OpenSession(sessionID, env)
	if err != nil {
		return "", nil, err
	}
	return handle, exec, nil
}

// readSessionEnvironment parses the environment file, or returns an
// empty environment when none is given.
func readSessionEnvironment(path string) (*environment.Config, error) {
	if path == "" {
		_, _ = fmt.Fprintln(stdout, "No session environment specified.")
		return environment.New(), nil
	}

	_, _ = fmt.Fprintln(stdout, "Reading session environment from: "+path)
	logger.Info("using session environment file", "path", path)

	env, err := environment.Parse(path)
	if err != nil {
		return nil, wrapClientError("Could not read session environment file at: "+path, err)
	}
	return env, nil
}
