package repl

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlclient/internal/environment"
	"github.com/leapstack-labs/sqlclient/internal/executor"
)

// fakeExecutor records statements and fails on demand.
type fakeExecutor struct {
	updates   []string
	queries   []string
	updateErr error
	queryErr  error
}

func (f *fakeExecutor) Start() error { return nil }

func (f *fakeExecutor) OpenSession(id string, _ *environment.Config) (string, error) {
	return id + "-test", nil
}

func (f *fakeExecutor) CloseSession(string) error { return nil }

func (f *fakeExecutor) ExecuteQuery(_ context.Context, _, stmt string) (*executor.Result, error) {
	f.queries = append(f.queries, stmt)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &executor.Result{Columns: []string{"v"}, Rows: [][]string{{"1"}}}, nil
}

func (f *fakeExecutor) ExecuteUpdate(_ context.Context, _, stmt string) error {
	f.updates = append(f.updates, stmt)
	return f.updateErr
}

func newTestClient(exec executor.Executor) (*Client, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewClient("default-test", exec, "", out, errOut), out, errOut
}

func TestSubmitUpdate_Success(t *testing.T) {
	fake := &fakeExecutor{}
	client, _, errOut := newTestClient(fake)

	ok := client.SubmitUpdate("INSERT INTO t VALUES (1);")
	assert.True(t, ok)
	require.Len(t, fake.updates, 1)
	assert.Equal(t, "INSERT INTO t VALUES (1)", fake.updates[0], "trailing semicolon is stripped")
	assert.Empty(t, errOut.String())
}

func TestSubmitUpdate_FailureReturnsFalse(t *testing.T) {
	fake := &fakeExecutor{updateErr: errors.New("table does not exist")}
	client, _, errOut := newTestClient(fake)

	ok := client.SubmitUpdate("INSERT INTO missing VALUES (1)")
	assert.False(t, ok)
	assert.Contains(t, errOut.String(), "table does not exist")
}

func TestExecuteFile_RunsStatementsInOrder(t *testing.T) {
	fake := &fakeExecutor{}
	client, out, _ := newTestClient(fake)

	script := `
CREATE TABLE t (id INTEGER);
INSERT INTO t VALUES (1);
SELECT * FROM t;
`
	require.NoError(t, client.ExecuteFile(script))

	assert.Equal(t, []string{"CREATE TABLE t (id INTEGER)", "INSERT INTO t VALUES (1)"}, fake.updates)
	assert.Equal(t, []string{"SELECT * FROM t"}, fake.queries)
	assert.Contains(t, out.String(), "(1 rows)")
}

func TestExecuteFile_FailurePropagatesUnmodified(t *testing.T) {
	cause := errors.New("syntax error")
	fake := &fakeExecutor{updateErr: cause}
	client, _, _ := newTestClient(fake)

	err := client.ExecuteFile("CREATE TABLE a (x INTEGER); CREATE TABLE b (y INTEGER);")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, fake.updates, 1, "execution stops at the first failure")
}

func TestClose_Idempotent(t *testing.T) {
	client, _, _ := newTestClient(&fakeExecutor{})
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

func TestIsQuery(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"SELECT 1", true},
		{"select * from t", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"SHOW TABLES", true},
		{"DESCRIBE t", true},
		{"EXPLAIN SELECT 1", true},
		{"INSERT INTO t VALUES (1)", false},
		{"CREATE TABLE t (id INTEGER)", false},
		{"UPDATE t SET id = 2", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isQuery(tt.stmt), "stmt: %s", tt.stmt)
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "simple",
			content: "SELECT 1; SELECT 2;",
			want:    []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:    "no trailing semicolon",
			content: "SELECT 1",
			want:    []string{"SELECT 1"},
		},
		{
			name:    "semicolon inside single quotes",
			content: "INSERT INTO t VALUES ('a;b'); SELECT 1;",
			want:    []string{"INSERT INTO t VALUES ('a;b')", "SELECT 1"},
		},
		{
			name:    "semicolon inside double quotes",
			content: `SELECT ";" FROM t;`,
			want:    []string{`SELECT ";" FROM t`},
		},
		{
			name:    "line comment with semicolon",
			content: "SELECT 1 -- trailing; comment\n;",
			want:    []string{"SELECT 1"},
		},
		{
			name:    "blank statements dropped",
			content: ";;\n;SELECT 1;",
			want:    []string{"SELECT 1"},
		},
		{
			name:    "empty input",
			content: "  \n ",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitStatements(tt.content))
		})
	}
}
