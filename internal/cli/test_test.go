package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScenario copies a scenario file from testdata into dir.
func copyScenario(t *testing.T, src, dir string) string {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	dst := filepath.Join(dir, filepath.Base(src))
	require.NoError(t, os.WriteFile(dst, data, 0644))
	return dst
}

func TestTestCommandPasses(t *testing.T) {
	out, err := run(t, NewTestCommand(testOptions("text", "")), filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	assert.Equal(t, "✓ roundtrip\n\nTest Summary: 1 passed, 0 failed, 1 total\n✓ All scenarios passed\n", out)
}

func TestTestCommandFailingScenario(t *testing.T) {
	out, err := run(t, NewTestCommand(testOptions("text", "")), filepath.Join("testdata", "failing"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ mismatch\n  step 0: expected 1 rows, got 0\n")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandJSON(t *testing.T) {
	out, err := run(t, NewTestCommand(testOptions("json", "")), filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	var resp struct {
		Status  string     `json:"status"`
		Data    TestResult `json:"data"`
		TraceID string     `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-trace-default", resp.TraceID)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, []ScenarioResult{{Name: "roundtrip", Pass: true}}, resp.Data.Scenarios)
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	copyScenario(t, filepath.Join("testdata", "scenarios", "roundtrip.yaml"), dir)

	out, err := run(t, NewTestCommand(testOptions("text", "")), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ roundtrip (golden updated)")

	written, err := os.ReadFile(filepath.Join(dir, "golden", "roundtrip.golden"))
	require.NoError(t, err)
	expected, err := os.ReadFile(filepath.Join("testdata", "scenarios", "golden", "roundtrip.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(written))

	_, err = run(t, NewTestCommand(testOptions("text", "")), dir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	copyScenario(t, filepath.Join("testdata", "scenarios", "roundtrip.yaml"), dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "roundtrip.golden"), []byte(`{}`), 0644))

	out, err := run(t, NewTestCommand(testOptions("text", "")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandWithoutGolden(t *testing.T) {
	dir := t.TempDir()
	copyScenario(t, filepath.Join("testdata", "scenarios", "roundtrip.yaml"), dir)

	out, err := run(t, NewTestCommand(testOptions("text", "")), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ roundtrip\n")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := run(t, NewTestCommand(testOptions("text", "")), filepath.Join("testdata", "scenarios"), "--filter", "nothing-*")
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)

	out, err = run(t, NewTestCommand(testOptions("text", "")), filepath.Join("testdata", "scenarios"), "--filter", "round*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed")
}

func TestTestCommandErrors(t *testing.T) {
	_, err := run(t, NewTestCommand(testOptions("text", "")), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0644))
	out, err := run(t, NewTestCommand(testOptions("text", "")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml\n  failed to load scenario: invalid scenario: description is required")
}
