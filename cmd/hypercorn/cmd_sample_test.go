package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSampleCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newSampleCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSampleCommand_BatchSize(t *testing.T) {
	path := writeDatasetFixture(t, 10)

	out, err := runSampleCmd(t, path, "--count", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	for _, line := range lines {
		var row map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		assert.Contains(t, row, "submission_id")
	}
}

func TestSampleCommand_ClampsOversizedBatch(t *testing.T) {
	path := writeDatasetFixture(t, 3)

	out, err := runSampleCmd(t, path, "--count", "50")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
}

func TestSampleCommand_InvalidBatchSize(t *testing.T) {
	path := writeDatasetFixture(t, 3)

	_, err := runSampleCmd(t, path, "--count", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size")
}

func TestSampleCommand_ExplicitZeroCount(t *testing.T) {
	path := writeDatasetFixture(t, 3)

	// --count 0 must be rejected, not replaced by the configured default.
	_, err := runSampleCmd(t, path, "--count", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size")
}

func TestSampleCommand_SeedReproducible(t *testing.T) {
	path := writeDatasetFixture(t, 20)

	out1, err := runSampleCmd(t, path, "--count", "5", "--seed", "42")
	require.NoError(t, err)
	out2, err := runSampleCmd(t, path, "--count", "5", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}

func TestSampleCommand_OutputFile(t *testing.T) {
	path := writeDatasetFixture(t, 5)
	outPath := filepath.Join(t.TempDir(), "batch.csv")

	out, err := runSampleCmd(t, path, "--count", "3", "--output", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 rows")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4) // header + 3 rows
	assert.Contains(t, lines[0], "submission_id")
}

func TestSampleCommand_UnknownFormat(t *testing.T) {
	path := writeDatasetFixture(t, 3)

	_, err := runSampleCmd(t, path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestSampleCommand_MissingDataset(t *testing.T) {
	_, err := runSampleCmd(t, filepath.Join(t.TempDir(), "nope.parquet"))
	require.Error(t, err)
}
