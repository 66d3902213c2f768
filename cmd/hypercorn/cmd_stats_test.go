package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelbot/hypercorn/internal/stats"
)

func runStatsCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newStatsCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestStatsCommand_TextOutput(t *testing.T) {
	path := writeDatasetFixture(t, 10)

	out, err := runStatsCmd(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Run scores: 10 scored of 10 rows")
	assert.Contains(t, out, "Pass rate:")
	assert.Contains(t, out, "mean")
	assert.Contains(t, out, "95% CI")
}

func TestStatsCommand_JSONOutput(t *testing.T) {
	path := writeDatasetFixture(t, 10)

	out, err := runStatsCmd(t, path, "--format", "json", "--seed", "7")
	require.NoError(t, err)

	var s stats.ScoreSummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 10, s.Rows)
	assert.Equal(t, 10, s.Scored)
	assert.Equal(t, 5, s.Passed)
	assert.Equal(t, 5, s.Failed)
	assert.InDelta(t, 0.55, s.Mean, 1e-9)
}

func TestStatsCommand_SeedReproducible(t *testing.T) {
	path := writeDatasetFixture(t, 10)

	out1, err := runStatsCmd(t, path, "--format", "json", "--seed", "42")
	require.NoError(t, err)
	out2, err := runStatsCmd(t, path, "--format", "json", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}

func TestStatsCommand_InvalidFormat(t *testing.T) {
	path := writeDatasetFixture(t, 2)

	_, err := runStatsCmd(t, path, "--format", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestStatsCommand_MissingDataset(t *testing.T) {
	_, err := runStatsCmd(t, filepath.Join(t.TempDir(), "nope.parquet"))
	require.Error(t, err)
}
