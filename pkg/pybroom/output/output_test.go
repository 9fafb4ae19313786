package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

func sampleResult() *Result {
	return &Result{
		Roots: []string{"/home/user"},
		Candidates: []types.Candidate{
			{Path: "/home/user/proj/__pycache__", Kind: types.KindPycache, Size: 2048, IsDir: true, Preselected: true},
			{Path: "/home/user/proj/module.pyc", Kind: types.KindPyc, Size: 512, Preselected: true},
			{Path: "/home/user/old/.venv", Kind: types.KindVenv, Size: 1 << 20, IsDir: true},
		},
		Scan: types.ScanSummary{
			Success:        true,
			Count:          3,
			TotalSize:      2048 + 512 + 1<<20,
			EntriesVisited: 42,
		},
		Elapsed: 150 * time.Millisecond,
	}
}

func TestDefaultRegistryFormatters(t *testing.T) {
	names := Available()
	for _, want := range []string{"json", "jsonl", "plain", "pretty", "yaml"} {
		assert.Contains(t, names, want)
	}
}

func TestGetUnknownFormatter(t *testing.T) {
	_, err := Get("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formatter")
}

func TestRegistryIsolated(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.Available())

	reg.Register("plain", func() Formatter { return &PlainFormatter{} })
	f, err := reg.Get("plain")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)
}

func TestPlainFormat(t *testing.T) {
	f, err := Get("plain")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "pycache")
	assert.Contains(t, out, "/home/user/proj/module.pyc")
	assert.Contains(t, out, "total: 3 items")
	assert.NotContains(t, out, "cleaned:", "no clean summary without a clean batch")
}

func TestPlainFormatWithClean(t *testing.T) {
	r := sampleResult()
	r.Clean = &types.CleanSummary{
		Success:      true,
		ItemsRemoved: 2,
		BytesFreed:   2560,
		Failures:     []types.CleanFailure{{Path: "/home/user/old/.venv", Error: "permission denied"}},
	}

	f, err := Get("plain")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	assert.Contains(t, buf.String(), "cleaned: 2 items")
	assert.Contains(t, buf.String(), "1 failed")
}

func TestJSONFormat(t *testing.T) {
	f, err := Get("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, []any{"/home/user"}, decoded["roots"])

	candidates, ok := decoded["candidates"].([]any)
	require.True(t, ok)
	require.Len(t, candidates, 3)

	first, ok := candidates[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pycache", first["kind"])
	assert.Equal(t, "2.0 KiB", first["size_human"])
	assert.Equal(t, true, first["preselected"])

	scan, ok := decoded["scan"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), scan["count"])
	assert.Equal(t, false, scan["interrupted"])

	_, hasClean := decoded["clean"]
	assert.False(t, hasClean, "clean key omitted without a clean batch")
}

func TestJSONLFormat(t *testing.T) {
	f, err := Get("jsonl")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		var c map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &c), "each line must be a standalone object")
		assert.NotEmpty(t, c["path"])
	}

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, "venv", last["kind"])
	assert.Equal(t, false, last["preselected"])
}

func TestYAMLFormat(t *testing.T) {
	f, err := Get("yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	var decoded Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Scan.Count)
	require.Len(t, decoded.Candidates, 3)
	assert.Equal(t, types.KindVenv, decoded.Candidates[2].Kind)
}

func TestPrettyFormat(t *testing.T) {
	f, err := Get("pretty")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Roots:")
	assert.Contains(t, out, "42 entries")
	assert.Contains(t, out, "reclaimable")
}

func TestPrettyFormatEmpty(t *testing.T) {
	r := &Result{
		Roots: []string{"/home/user"},
		Scan:  types.ScanSummary{Success: true},
	}

	f, err := Get("pretty")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	assert.Contains(t, buf.String(), "No Python residue found")
}

func TestPrettyFormatWarnings(t *testing.T) {
	r := sampleResult()
	r.Scan.Warnings = []string{"skipping invalid path: /nope"}

	f, err := Get("pretty")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	assert.Contains(t, buf.String(), "skipping invalid path: /nope")
}

func TestCountByKind(t *testing.T) {
	r := sampleResult()
	counts := r.CountByKind()
	assert.Equal(t, 1, counts[types.KindPycache])
	assert.Equal(t, 1, counts[types.KindPyc])
	assert.Equal(t, 1, counts[types.KindVenv])
	assert.Equal(t, 0, counts[types.KindBuild])
}
