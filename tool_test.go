package probtex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/probtex"
)

// ============================================================
// Tool-call interface
// ============================================================

func call(tool string, params map[string]interface{}) probtex.ToolResponse {
	return probtex.HandleToolCall(probtex.ToolRequest{Tool: tool, Params: params})
}

func TestTool_Render(t *testing.T) {
	_, _, G := weather()
	resp := call("render", map[string]interface{}{"document": generic(t, G)})
	require.Empty(t, resp.Error)
	assert.Equal(t, `G = `+weatherSum, resp.LaTeX)
	assert.Equal(t, `\[G = `+weatherSum+`\]`, resp.String)
}

func TestTool_RenderSubstitute(t *testing.T) {
	_, _, G := weather()
	resp := call("render", map[string]interface{}{"document": generic(t, G), "substitute": true})
	require.Empty(t, resp.Error)
	assert.Equal(t, `G = `+weatherInlined, resp.LaTeX)

	resp = call("render", map[string]interface{}{"document": generic(t, G), "substitute": "yes"})
	assert.Contains(t, resp.Error, "substitute must be a boolean")
}

func TestTool_RenderEvaluation(t *testing.T) {
	_, _, G := weather()
	resp := call("render_evaluation", map[string]interface{}{
		"document": generic(t, G),
		"steps":    []interface{}{"expand_outer_sum"},
		"label":    "weather",
	})
	require.Empty(t, resp.Error)
	assert.Contains(t, resp.LaTeX, `\label{weather}`)
	assert.Contains(t, resp.LaTeX, `G & = `+weatherSum+`\\ & = `+weatherExpanded)
}

func TestTool_RenderEvaluationErrors(t *testing.T) {
	_, _, G := weather()
	resp := call("render_evaluation", map[string]interface{}{
		"document": generic(t, G),
		"steps":    []interface{}{"simplify"},
	})
	assert.Contains(t, resp.Error, "unknown intermediate step")

	resp = call("render_evaluation", map[string]interface{}{"document": generic(t, probtex.Pr("a"))})
	assert.Contains(t, resp.Error, "needs a definition at the root")
}

func TestTool_ExpandSum(t *testing.T) {
	_, _, G := weather()
	resp := call("expand_sum", map[string]interface{}{"document": generic(t, G)})
	require.Empty(t, resp.Error)
	assert.Equal(t, weatherExpanded, resp.LaTeX)

	encoded, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, weatherExpanded, probtex.Render(mustDecode(t, encoded).Root))

	resp = call("expand_sum", map[string]interface{}{"document": generic(t, probtex.Pr("a"))})
	assert.Contains(t, resp.Error, "not a sum")
}

func mustDecode(t *testing.T, m map[string]interface{}) *probtex.Document {
	t.Helper()
	doc, err := probtex.DecodeDocument(m)
	require.NoError(t, err)
	return doc
}

func TestTool_Validate(t *testing.T) {
	_, _, G := weather()
	resp := call("validate", map[string]interface{}{"document": generic(t, G)})
	require.Empty(t, resp.Error)
	assert.Equal(t, map[string]interface{}{"valid": true, "problems": []string{}}, resp.Result)

	bad := probtex.Sum(probtex.Pr("a"), probtex.Declare("S"), "x")
	resp = call("validate", map[string]interface{}{"document": generic(t, bad)})
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, false, result["valid"])
	assert.Len(t, result["problems"], 1)
}

func TestTool_FreeSymbols(t *testing.T) {
	q := probtex.Def("q", probtex.Minus(1, probtex.Declare("p")))
	resp := call("free_symbols", map[string]interface{}{"document": generic(t, q)})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"p"}, resp.Result)
}

func TestTool_Spec(t *testing.T) {
	resp := call("tool_spec", nil)
	require.Empty(t, resp.Error)
	tools := resp.Result.([]probtex.Tool)
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	assert.ElementsMatch(t, []string{"render", "render_evaluation", "expand_sum", "validate", "free_symbols", "tool_spec"}, names)
}

func TestTool_Errors(t *testing.T) {
	assert.Equal(t, "unknown tool: integrate", call("integrate", nil).Error)
	assert.Equal(t, "missing param: document", call("render", map[string]interface{}{}).Error)
	assert.Equal(t, "param document must be an object", call("render", map[string]interface{}{"document": "G"}).Error)
}
