package cli

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHistoryPath_ExplicitWins(t *testing.T) {
	got, err := resolveHistoryPath("/tmp/my-history")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/my-history", got)
}

func TestResolveHistoryPath_DefaultUnderHome(t *testing.T) {
	home := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	} else {
		t.Setenv("HOME", home)
	}

	got, err := resolveHistoryPath("")
	require.NoError(t, err)

	name := ".flink-sql-history"
	if runtime.GOOS == "windows" {
		name = "flink-sql-history"
	}
	assert.Equal(t, filepath.Join(home, name), got)
}
