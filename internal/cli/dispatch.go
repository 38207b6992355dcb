// Package cli implements the session lifecycle of the embedded SQL
// client: mode dispatch, executor bootstrap, mode execution, and
// guaranteed session teardown.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sqlclient/internal/environment"
	"github.com/leapstack-labs/sqlclient/internal/executor"
)

const (
	modeEmbedded = "embedded"
	modeGateway  = "gateway"

	defaultSessionID = "default"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	// newExecutor builds the backend executor; swapped in tests.
	newExecutor = func(defaults *environment.Config, jars, libraryDirs []string) executor.Executor {
		local := executor.NewLocal(defaults, jars, libraryDirs)
		local.SetLogger(logger)
		return local
	}
)

// Dispatch is the top-level entry point. It parses the mode token,
// routes embedded mode to bootstrap and run, and classifies every
// fatal failure. Help, the no-argument path, and unrecognized mode
// tokens return nil without opening a session.
func Dispatch(args []string) error {
	if len(args) == 0 {
		printUsage(stdout)
		return nil
	}

	switch args[0] {
	case modeEmbedded:
		opts, err := parseEmbeddedOptions(args[1:])
		if err != nil {
			return fail(err)
		}
		if opts.Help {
			printEmbeddedUsage(stdout)
			return nil
		}
		return fail(runEmbedded(opts))

	case modeGateway:
		return fail(newClientError("Gateway mode is not supported yet."))

	default:
		printUsage(stdout)
		return nil
	}
}

// runEmbedded bootstraps the backend, registers the shutdown hook, and
// runs the selected mode. The session is closed on every exit path;
// the executor's CloseSession is idempotent, so the hook and the defer
// may both fire.
func runEmbedded(opts *Options) error {
	handle, exec, err := bootstrap(opts)
	if err != nil {
		return err
	}

	deregister := registerShutdown(handle, exec)
	defer deregister()
	defer func() { _ = exec.CloseSession(handle) }()

	return run(handle, exec, opts)
}

// fail classifies a fatal error, logs it, and returns it so main can
// exit non-zero. Expected client errors pass through; anything else is
// wrapped as a defect. Blank lines keep the terminal readable after
// raw mode output.
func fail(err error) error {
	if err == nil {
		return nil
	}

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout)

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		err = wrapClientError("Unexpected error. This is a bug. Please consider filing an issue.", err)
	}
	logger.Error("SQL client must stop.", "err", err)
	return err
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "sqlclient - embedded SQL command-line client")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage: sqlclient <mode> [options]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Modes:")
	_, _ = fmt.Fprintf(w, "  %-10s CLI and query backend share one process\n", modeEmbedded)
	_, _ = fmt.Fprintf(w, "  %-10s connect to a remote gateway (not supported yet)\n", modeGateway)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Run 'sqlclient embedded --help' for embedded mode options.")
}

func printEmbeddedUsage(w io.Writer) {
	fs := newEmbeddedFlagSet(&Options{})
	_, _ = fmt.Fprintln(w, "Usage: sqlclient embedded [options]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Options:")
	_, _ = fmt.Fprint(w, fs.FlagUsages())
}
