package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/leapstack-labs/sqlclient/internal/executor"
)

// teardown captures exactly the pair needed to close a session on
// abrupt termination.
type teardown struct {
	handle string
	exec   executor.Executor
}

var (
	shutdownMu       sync.Mutex
	shutdownSessions = map[string]teardown{}
	shutdownWatch    sync.Once

	// exit is swapped in tests.
	exit = os.Exit
)

// registerShutdown adds a (handle, executor) pair to the process-wide
// termination registry and returns its deregistration func. The first
// registration starts the signal watcher.
func registerShutdown(handle string, exec executor.Executor) func() {
	shutdownWatch.Do(watchSignals)

	shutdownMu.Lock()
	shutdownSessions[handle] = teardown{handle: handle, exec: exec}
	shutdownMu.Unlock()

	return func() {
		shutdownMu.Lock()
		delete(shutdownSessions, handle)
		shutdownMu.Unlock()
	}
}

// watchSignals closes every registered session when the process is
// terminated. This may race with the normal teardown path; the
// executor's CloseSession is idempotent, so both may run.
func watchSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ch
		closeRegisteredSessions()
		exit(1)
	}()
}

func closeRegisteredSessions() {
	shutdownMu.Lock()
	pending := make([]teardown, 0, len(shutdownSessions))
	for _, t := range shutdownSessions {
		pending = append(pending, t)
	}
	shutdownMu.Unlock()

	_, _ = fmt.Fprintln(stdout, "\nShutting down the session...")
	for _, t := range pending {
		_ = t.exec.CloseSession(t.handle)
	}
	_, _ = fmt.Fprintln(stdout, "done.")
}
