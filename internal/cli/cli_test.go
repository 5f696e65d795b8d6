package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/probtex/internal/config"
)

const weatherJSON = `{
  "definitions": {
    "E": {"rhs": {"type": "event_set", "events": ["raining", "sunny"]}},
    "x": {},
    "G": {"rhs": {"type": "sum", "var": "x", "set": {"type": "ref", "name": "E"},
      "summand": {"type": "binary", "op": "+",
        "left": {"type": "probability", "event": {"type": "ref", "name": "x"}},
        "right": {"type": "probability", "event": {"type": "ref", "name": "x"}}}}}
  },
  "root": {"type": "ref", "name": "G"}
}`

const (
	weatherSum      = `\sum_{x \in E} \Pr(\,x\,) + \Pr(\,x\,)`
	weatherExpanded = `(\Pr(\,\text{raining}\,) + \Pr(\,\text{raining}\,)) + (\Pr(\,\text{sunny}\,) + \Pr(\,\text{sunny}\,))`
)

func run(t *testing.T, cfg config.CLI, input string) (string, error) {
	t.Helper()
	if cfg.Input == "" {
		cfg.Input = "-"
	}
	var out bytes.Buffer
	err := Run(cfg, strings.NewReader(input), &out, hclog.NewNullLogger())
	return out.String(), err
}

func TestRunModes(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.CLI
		want string
	}{
		{"inline", config.CLI{Mode: config.ModeInline}, "G = " + weatherSum + "\n"},
		{"display", config.CLI{Mode: config.ModeDisplay}, `\[G = ` + weatherSum + `\]` + "\n"},
		{"expand", config.CLI{Mode: config.ModeInline, Expand: true}, weatherExpanded + "\n"},
		{"substitute", config.CLI{Mode: config.ModeInline, Substitute: true},
			`G = \sum_{x \in \{\text{raining},\;\text{sunny}\}} \Pr(\,x\,) + \Pr(\,x\,)` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.cfg, weatherJSON)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunEvaluation(t *testing.T) {
	got, err := run(t, config.CLI{Mode: config.ModeEvaluation, Expand: true, Label: "weather"}, weatherJSON)
	require.NoError(t, err)
	assert.Contains(t, got, `\label{weather}`)
	assert.Contains(t, got, `G & = `+weatherSum+`\\ & = `+weatherExpanded)
}

func TestRunMIME(t *testing.T) {
	got, err := run(t, config.CLI{Mode: config.ModeMIME}, weatherJSON)
	require.NoError(t, err)
	var bundle map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &bundle))
	assert.Equal(t, "G = "+weatherSum, bundle["text/plain"])
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(weatherJSON), 0o600))
	got, err := run(t, config.CLI{Mode: config.ModeInline, Input: path}, "")
	require.NoError(t, err)
	assert.Equal(t, "G = "+weatherSum+"\n", got)
}

func TestRunErrors(t *testing.T) {
	_, err := run(t, config.CLI{Mode: config.ModeInline}, "{")
	assert.ErrorContains(t, err, "decode document")

	_, err = run(t, config.CLI{Mode: config.ModeInline, Input: filepath.Join(t.TempDir(), "missing.json")}, "")
	assert.ErrorContains(t, err, "read input")

	_, err = run(t, config.CLI{Mode: config.ModeEvaluation}, `{"root": 1}`)
	assert.ErrorContains(t, err, "needs a definition at the root")
}
