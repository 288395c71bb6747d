package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachcheck/report"
)

const afterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

// execute runs the CLI with args and stdin, resetting flag state first.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	validateFEN, validateFormat, validateResponseFile = "", "refs_coaching", ""
	validateStrict, validateJSON, validateLogLevel = true, false, "error"
	benchConfigFile, benchPositions, benchOutput, benchRuns = "", "", "", 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "", "formats")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "fenced_json"))

	out, err = execute(t, "", "formats", "pipe_delimited")
	require.NoError(t, err)
	assert.Contains(t, out, "bishop e5|pawn d4|")

	_, err = execute(t, "", "formats", "nope")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "REFS: knight e4, g9\nCOACHING: Strong knight.", "validate", "--fen", afterE4)
	require.NoError(t, err)
	assert.Contains(t, out, "severity:   1 (wrong_piece)")
	assert.Contains(t, out, "mislabeled")
	assert.Contains(t, out, "cleaned:    knight e4 (rejected 1)")
}

func TestValidateCommandJSONAutoDetect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resp.txt")
	require.NoError(t, os.WriteFile(path, []byte("```json\n{\"coaching\": \"x\", \"refs\": [\"e4\"]}\n```"), 0o644))

	out, err := execute(t, "", "validate", "--fen", afterE4, "--format", "auto", "--response", path, "--json")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "fenced_json", got["format"])
	assert.Equal(t, true, got["compliant"])
	assert.Equal(t, "e4", got["cleaned_refs"])
	assert.Equal(t, true, got["verifiable"])
}

func TestValidateCommandErrors(t *testing.T) {
	_, err := execute(t, "x", "validate")
	assert.Error(t, err)

	_, err = execute(t, "x", "validate", "--fen", afterE4, "--format", "toml")
	assert.Error(t, err)

	_, err = execute(t, "", "validate", "--fen", afterE4, "--format", "auto")
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "c", "object": "chat.completion",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "<think>hm</think>REFS: e4\nCOACHING: Hold the center."}}],
			"usage": {"prompt_tokens": 50, "completion_tokens": 9}}`)
	}))
	defer srv.Close()
	for _, k := range []string{"COACHCHECK_ENDPOINT", "COACHCHECK_MODEL", "COACHCHECK_API_KEY"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	positions := filepath.Join(dir, "positions.json")
	require.NoError(t, os.WriteFile(positions, []byte(`[{"position_id": "p1", "fen": "`+afterE4+`"}]`), 0o644))
	conf := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(conf, []byte(`
name: smoke
endpoint: `+srv.URL+`/v1
model: tiny
formats: [refs_coaching, coaching_only]
thinking: [true]
runs: 2
log:
  level: error
`), 0o644))
	output := filepath.Join(dir, "out", "trials.csv")

	out, err := execute(t, "", "bench", "--config", conf, "--positions", positions, "--output", output)
	require.NoError(t, err)
	assert.EqualValues(t, 4, calls.Load())
	assert.Contains(t, out, "refs_coaching")
	assert.Contains(t, out, "coaching_only")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(report.Columns, ",")))
}
