package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: passing
description: A trivially feasible order passes.
network:
  nodes:
    - id: p1
      type: process
      data:
        ct: 60
demand:
  node: p1
  quantity: 5
  due_in_days: 7
expect:
  success: true
  fulfilled: 5
`

const failingScenario = `
name: failing
description: The expect clause contradicts the engine on purpose.
network:
  nodes:
    - id: p1
      type: process
      data:
        ct: 60
demand:
  node: p1
  quantity: 5
  due_in_days: 7
expect:
  success: false
`

func writeScenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTest_AllPass(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passing.yaml": passingScenario})

	out, _, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  passing")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_FailuresExitNonZero(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"passing.yaml": passingScenario,
		"failing.yaml": failingScenario,
	})

	out, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "PASS  passing")
	assert.Contains(t, out, "FAIL  failing")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
	assert.Contains(t, out, "expected success=false")
}

func TestTest_Filter(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"passing.yaml": passingScenario,
		"failing.yaml": failingScenario,
	})

	out, _, err := executeCommand(t, "test", dir, "--filter", "passing*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_MalformedScenarioReported(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"broken.yaml": "name: broken\nbogus_field: true\n"})

	out, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL  broken")
}

func TestTest_JSON(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passing.yaml": passingScenario})

	out, _, err := executeCommand(t, "test", dir, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, data["passed"])
	assert.EqualValues(t, 1, data["total"])
}

func TestTest_MissingDirectory(t *testing.T) {
	_, _, err := executeCommand(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_EmptyDirectory(t *testing.T) {
	out, _, err := executeCommand(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}
