package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/natexcvi/prompt-lab/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capitalsFile = `system_prompt: Answer with only the capital city.
test_cases:
  - input: France
    expected_output: Paris
  - input: Japan
    expected_output: Tokyo
`

func newCapitalsServer(t *testing.T, replies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		reply, ok := replies[req.Messages[1].Content]
		if !ok {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func executeRun(t *testing.T, endpoint string, extraArgs ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "capitals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(capitalsFile), 0o600))
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_ENDPOINT", endpoint)

	keepGoing = false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	args := append([]string{"run", path, "--env-file", filepath.Join(dir, "missing.env"), "--format", "json", "--timeout", (5 * time.Second).String()}, extraArgs...)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	srv := newCapitalsServer(t, map[string]string{"France": "paris", "Japan": "Osaka"})

	out, err := executeRun(t, srv.URL)
	require.NoError(t, err)

	var report evaluation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Answer with only the capital city.", report.SystemPrompt)
	assert.Equal(t, []evaluation.ReportedResult{
		{Index: 0, ExperimentResult: evaluation.ExperimentResult{Input: "France", ExpectedOutput: "Paris", ActualOutput: "paris", Score: 1}},
		{Index: 1, ExperimentResult: evaluation.ExperimentResult{Input: "Japan", ExpectedOutput: "Tokyo", ActualOutput: "Osaka", Score: 0}},
	}, report.Results)
	require.NotNil(t, report.AverageScore)
	assert.Equal(t, 0.5, *report.AverageScore)
}

func TestRunCommandFailsWithoutPartialResults(t *testing.T) {
	srv := newCapitalsServer(t, map[string]string{"France": "Paris"})

	out, err := executeRun(t, srv.URL)
	require.Error(t, err)
	assert.EqualError(t, err, "experiment failed: model call failed")
	assert.Empty(t, out)
}

func TestRunCommandKeepGoing(t *testing.T) {
	srv := newCapitalsServer(t, map[string]string{"France": "Paris"})

	out, err := executeRun(t, srv.URL, "--keep-going")
	require.NoError(t, err)

	var report evaluation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 0, report.Results[0].Index)
	assert.Equal(t, []evaluation.CaseFailure{{Index: 1, Input: "Japan", Error: "model call failed"}}, report.Failures)
}

func TestRunCommandRequiresAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capitals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(capitalsFile), 0o600))
	t.Setenv("OPENAI_API_KEY", "")

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", path, "--env-file", filepath.Join(dir, "missing.env"), "--format", "text"})
	err := rootCmd.Execute()
	assert.EqualError(t, err, "OPENAI_API_KEY environment variable not set")
}

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"schema", "--env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.Contains(out.String(), "test_cases"))
}
