package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelbot/hypercorn/internal/cache"
	"github.com/kernelbot/hypercorn/internal/summary"
)

func TestCacheClearCommand_RemovesEntries(t *testing.T) {
	dir := t.TempDir()

	c := cache.New(dir)
	require.NoError(t, c.Put("abc123", &summary.DatasetSummary{Path: "x.parquet", RowCount: 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var buf bytes.Buffer
	cmd := newCacheCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"clear", "--cache-dir", dir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "Cache cleared")
	assert.NoDirExists(t, dir)
}

func TestCacheClearCommand_MissingDirIsFine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")

	cmd := newCacheCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"clear", "--cache-dir", dir})
	assert.NoError(t, cmd.Execute())
}
