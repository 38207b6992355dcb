// Package repl provides the CLI client bound to one backend session:
// the interactive read-evaluate loop, script execution, and single
// statement submission.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/leapstack-labs/sqlclient/internal/executor"
)

const (
	prompt             = "sql> "
	continuationPrompt = "  -> "
)

// Client bundles interactive and batch execution capability for one
// session. It is acquired once per invocation and must be closed on
// every exit path; Close is idempotent.
type Client struct {
	handle      string
	exec        executor.Executor
	historyPath string
	out         io.Writer
	errOut      io.Writer

	closeOnce sync.Once
	rl        *readline.Instance
}

// NewClient creates a client for the given session handle. Output
// writers may be nil, in which case stdout/stderr are used.
func NewClient(handle string, exec executor.Executor, historyPath string, out, errOut io.Writer) *Client {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Client{
		handle:      handle,
		exec:        exec,
		historyPath: historyPath,
		out:         out,
		errOut:      errOut,
	}
}

// Open starts the interactive loop. Statements end with a semicolon
// and may span lines; "quit;" or "exit;" (or EOF) ends the loop.
// Statement errors are printed and the loop continues.
func (c *Client) Open() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     c.historyPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit;",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	c.rl = rl

	_, _ = fmt.Fprintf(c.out, "Session %q is ready.\n", c.handle)
	_, _ = fmt.Fprintln(c.out, "Statements end with a semicolon; type quit; to leave.")
	_, _ = fmt.Fprintln(c.out)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt(continuationPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		stmt := strings.TrimSpace(strings.TrimSuffix(buf.String(), ";"))
		buf.Reset()

		switch strings.ToLower(stmt) {
		case "quit", "exit":
			return nil
		}

		if err := c.execute(stmt); err != nil {
			_, _ = fmt.Fprintf(c.errOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(c.out)
	}
}

// ExecuteFile runs the statements of a script, in order. The first
// execution failure stops the run and propagates unmodified.
func (c *Client) ExecuteFile(content string) error {
	for _, stmt := range splitStatements(content) {
		if err := c.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SubmitUpdate submits a single update statement and reports whether
// the backend accepted it. Failures are printed, not returned; the
// caller acts on the flag alone.
func (c *Client) SubmitUpdate(stmt string) bool {
	stmt = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
	if err := c.exec.ExecuteUpdate(context.Background(), c.handle, stmt); err != nil {
		_, _ = fmt.Fprintf(c.errOut, "Error: %v\n", err)
		return false
	}
	return true
}

// Close releases terminal resources. The session itself is owned and
// closed by the caller.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.rl != nil {
			_ = c.rl.Close()
		}
	})
	return nil
}

// execute routes a statement to the query or update path and renders
// query results.
func (c *Client) execute(stmt string) error {
	ctx := context.Background()
	if isQuery(stmt) {
		result, err := c.exec.ExecuteQuery(ctx, c.handle, stmt)
		if err != nil {
			return err
		}
		return renderResult(c.out, result)
	}
	return c.exec.ExecuteUpdate(ctx, c.handle, stmt)
}

// isQuery reports whether a statement produces rows.
func isQuery(stmt string) bool {
	fields := strings.Fields(strings.ToUpper(stmt))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "SHOW", "DESCRIBE", "EXPLAIN", "FROM", "VALUES", "PRAGMA":
		return true
	}
	return false
}
