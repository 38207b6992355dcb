package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/leapstack-labs/sqlclient/internal/executor"
	"github.com/leapstack-labs/sqlclient/internal/repl"
)

// run validates the mode-selection options and executes exactly one of
// the three modes: script, single update, or interactive. The CLI
// client bound to the session is released on every exit path.
func run(handle string, exec executor.Executor, opts *Options) error {
	historyPath, err := resolveHistoryPath(opts.HistoryFile)
	if err != nil {
		return err
	}

	if err := opts.Validate(); err != nil {
		return err
	}

	client := repl.NewClient(handle, exec, historyPath, stdout, stderr)
	defer func() { _ = client.Close() }()

	switch {
	case opts.ScriptFile != "":
		content, err := os.ReadFile(opts.ScriptFile)
		if err != nil {
			return wrapClientError(fmt.Sprintf("Fail to read content from the %s.", opts.ScriptFile), err)
		}
		return client.ExecuteFile(string(content))

	case opts.UpdateStatement != "":
		if !client.SubmitUpdate(opts.UpdateStatement) {
			return newClientError("Could not submit given SQL update statement to cluster.")
		}
		return nil

	default:
		return client.Open()
	}
}

// resolveHistoryPath returns the explicit history file if given, else
// a default under the user's home directory. Windows uses a visible
// filename, everything else a dotfile.
func resolveHistoryPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	name := ".flink-sql-history"
	if runtime.GOOS == "windows" {
		name = "flink-sql-history"
	}
	return filepath.Join(home, name), nil
}
