package mcptools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/probtex"
)

func connect(t *testing.T, opts Options) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := NewServer(opts).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func decodeStructuredContent[T any](t *testing.T, content any) T {
	t.Helper()
	data, err := json.Marshal(content)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func weatherDocument(t *testing.T) map[string]any {
	t.Helper()
	E := probtex.Def("E", probtex.NewEventSet("raining", "sunny"))
	x := probtex.Declare("x")
	G := probtex.Def("G", probtex.Sum(probtex.Plus(probtex.Pr(x), probtex.Pr(x)), E, "x"))
	data, err := probtex.MarshalDocument(G)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

const expanded = `(\Pr(\,\text{raining}\,) + \Pr(\,\text{raining}\,)) + (\Pr(\,\text{sunny}\,) + \Pr(\,\text{sunny}\,))`

func TestRenderTool(t *testing.T) {
	session := connect(t, Options{})
	result := callTool(t, session, "render", map[string]any{"document": weatherDocument(t)})
	require.False(t, result.IsError, "%+v", result.Content)

	out := decodeStructuredContent[RenderResult](t, result.StructuredContent)
	assert.Equal(t, `G = \sum_{x \in E} \Pr(\,x\,) + \Pr(\,x\,)`, out.LaTeX)
	assert.Equal(t, `\[`+out.LaTeX+`\]`, out.Display)
}

func TestEvaluationTool(t *testing.T) {
	session := connect(t, Options{Label: "server-default"})

	result := callTool(t, session, "render_evaluation", map[string]any{
		"document": weatherDocument(t),
		"steps":    []string{"expand_outer_sum"},
	})
	require.False(t, result.IsError, "%+v", result.Content)
	out := decodeStructuredContent[EvaluationResult](t, result.StructuredContent)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, expanded, out.Lines[1])
	assert.Contains(t, out.LaTeX, `\label{server-default}`)

	result = callTool(t, session, "render_evaluation", map[string]any{
		"document": weatherDocument(t),
		"label":    "mine",
	})
	out = decodeStructuredContent[EvaluationResult](t, result.StructuredContent)
	assert.Contains(t, out.LaTeX, `\label{mine}`)
}

func TestEvaluationToolUnknownStep(t *testing.T) {
	session := connect(t, Options{})
	result := callTool(t, session, "render_evaluation", map[string]any{
		"document": weatherDocument(t),
		"steps":    []string{"integrate"},
	})
	assert.True(t, result.IsError)
}

func TestExpandTool(t *testing.T) {
	session := connect(t, Options{})
	result := callTool(t, session, "expand_sum", map[string]any{"document": weatherDocument(t)})
	require.False(t, result.IsError, "%+v", result.Content)

	out := decodeStructuredContent[ExpandResult](t, result.StructuredContent)
	assert.Equal(t, expanded, out.LaTeX)

	doc, err := probtex.DecodeDocument(out.Document)
	require.NoError(t, err)
	assert.Equal(t, expanded, probtex.Render(doc.Root))
}

func TestValidateTool(t *testing.T) {
	session := connect(t, Options{})
	result := callTool(t, session, "validate", map[string]any{"document": weatherDocument(t)})
	require.False(t, result.IsError, "%+v", result.Content)
	out := decodeStructuredContent[ValidateResult](t, result.StructuredContent)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Problems)
}

func TestFreeSymbolsTool(t *testing.T) {
	session := connect(t, Options{})
	doc := map[string]any{
		"definitions": map[string]any{"p": map[string]any{}},
		"root":        map[string]any{"type": "probability", "event": map[string]any{"type": "ref", "name": "p"}},
	}
	result := callTool(t, session, "free_symbols", map[string]any{"document": doc})
	require.False(t, result.IsError, "%+v", result.Content)
	out := decodeStructuredContent[FreeSymbolsResult](t, result.StructuredContent)
	assert.Equal(t, []string{"p"}, out.Symbols)
}

func TestToolRejectsBadDocument(t *testing.T) {
	session := connect(t, Options{})
	result := callTool(t, session, "render", map[string]any{
		"document": map[string]any{"root": map[string]any{"type": "integral"}},
	})
	assert.True(t, result.IsError)
}

func TestToolsResource(t *testing.T) {
	session := connect(t, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: ToolsURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var tools []probtex.Tool
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &tools))
	assert.Len(t, tools, len(probtex.Tools()))
}
