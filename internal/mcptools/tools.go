// Package mcptools exposes the renderer as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/njchilds90/probtex"
)

const (
	serverName    = "probtex"
	serverVersion = "0.1.0"

	// ToolsURI is the resource holding the tool catalogue.
	ToolsURI = "probtex://tools"
)

// Options configures NewServer.
type Options struct {
	// Label is the equation label used when a render_evaluation call
	// gives none.
	Label  string
	Logger hclog.Logger
}

// NewServer returns an MCP server with every probtex tool registered.
func NewServer(opts Options) *mcp.Server {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, RenderTool(), RenderHandler(opts.Logger))
	mcp.AddTool(server, EvaluationTool(), EvaluationHandler(opts.Logger, opts.Label))
	mcp.AddTool(server, ExpandTool(), ExpandHandler(opts.Logger))
	mcp.AddTool(server, ValidateTool(), ValidateHandler(opts.Logger))
	mcp.AddTool(server, FreeSymbolsTool(), FreeSymbolsHandler(opts.Logger))
	server.AddResource(ToolsResource(), ToolsResourceHandler())
	return server
}

// ============================================================
// Inputs and results
// ============================================================

// RenderInput represents the MCP tool input for rendering.
type RenderInput struct {
	Document   map[string]any `json:"document" jsonschema:"encoded expression document with root and definitions"`
	Substitute bool           `json:"substitute,omitempty" jsonschema:"inline every definition before rendering"`
}

// RenderResult represents the MCP tool output for rendering.
type RenderResult struct {
	LaTeX   string `json:"latex" jsonschema:"inline LaTeX"`
	Display string `json:"display" jsonschema:"LaTeX wrapped in display-math delimiters"`
}

// EvaluationInput represents the MCP tool input for multi-line evaluations.
type EvaluationInput struct {
	Document map[string]any `json:"document" jsonschema:"encoded document whose root is a definition"`
	Steps    []string       `json:"steps,omitempty" jsonschema:"intermediate steps: expand_outer_sum, substitute_all"`
	Label    string         `json:"label,omitempty" jsonschema:"equation label"`
}

// EvaluationResult represents the MCP tool output for evaluations.
type EvaluationResult struct {
	LaTeX string   `json:"latex" jsonschema:"equation environment"`
	Lines []string `json:"lines" jsonschema:"right-hand side of each line"`
}

// DocumentInput represents MCP tool input that is only a document.
type DocumentInput struct {
	Document map[string]any `json:"document" jsonschema:"encoded expression document"`
}

// ExpandResult represents the MCP tool output for sum expansion.
type ExpandResult struct {
	LaTeX    string         `json:"latex" jsonschema:"expanded expression as LaTeX"`
	Document map[string]any `json:"document" jsonschema:"expanded expression as a document"`
}

// ValidateResult represents the MCP tool output for validation.
type ValidateResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}

// FreeSymbolsResult represents the MCP tool output for free symbols.
type FreeSymbolsResult struct {
	Symbols []string `json:"symbols"`
}

// ============================================================
// Tools
// ============================================================

func RenderTool() *mcp.Tool {
	return &mcp.Tool{Name: "render", Description: "Renders a probability expression document as LaTeX"}
}

func EvaluationTool() *mcp.Tool {
	return &mcp.Tool{Name: "render_evaluation", Description: "Renders a definition as an aligned multi-line evaluation"}
}

func ExpandTool() *mcp.Tool {
	return &mcp.Tool{Name: "expand_sum", Description: "Expands a sum over a finite event set into an explicit addition"}
}

func ValidateTool() *mcp.Tool {
	return &mcp.Tool{Name: "validate", Description: "Reports structural problems in a document"}
}

func FreeSymbolsTool() *mcp.Tool {
	return &mcp.Tool{Name: "free_symbols", Description: "Lists symbols that are declared but never given a value"}
}

// ToolsResource defines the MCP resource listing the tool catalogue.
func ToolsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "tools",
		Title:       "Tool catalogue",
		Description: "Tools understood by the JSON tool-call endpoint",
		MIMEType:    "application/json",
		URI:         ToolsURI,
	}
}

// ============================================================
// Handlers
// ============================================================

func decode(raw map[string]any) (*probtex.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("document is required")
	}
	doc, err := probtex.DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// RenderHandler renders the document root.
func RenderHandler(logger hclog.Logger) mcp.ToolHandlerFor[RenderInput, RenderResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, RenderResult, error) {
		doc, err := decode(input.Document)
		if err != nil {
			return nil, RenderResult{}, err
		}
		latex := probtex.RenderDocument(doc, input.Substitute)
		logger.Debug("render", "substitute", input.Substitute, "bytes", len(latex))
		return nil, RenderResult{LaTeX: latex, Display: probtex.DisplayMath(latex)}, nil
	}
}

// EvaluationHandler renders the evaluation of the root definition. label is
// used when the call gives none.
func EvaluationHandler(logger hclog.Logger, label string) mcp.ToolHandlerFor[EvaluationInput, EvaluationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EvaluationInput) (*mcp.CallToolResult, EvaluationResult, error) {
		doc, err := decode(input.Document)
		if err != nil {
			return nil, EvaluationResult{}, err
		}
		def, ok := doc.RootDefinition()
		if !ok {
			return nil, EvaluationResult{}, fmt.Errorf("evaluation needs a definition at the root")
		}
		steps := make([]probtex.Intermediate, 0, len(input.Steps))
		for _, s := range input.Steps {
			step, err := probtex.ParseIntermediate(s)
			if err != nil {
				return nil, EvaluationResult{}, err
			}
			steps = append(steps, step)
		}
		ev := probtex.Evaluation{Lookup: doc.Lookup, Steps: steps, Label: input.Label}
		if ev.Label == "" {
			ev.Label = label
		}
		lines, err := def.EvaluationSteps(ev)
		if err != nil {
			return nil, EvaluationResult{}, err
		}
		latex, err := def.EvaluationLaTeX(ev)
		if err != nil {
			return nil, EvaluationResult{}, err
		}
		logger.Debug("render_evaluation", "definition", def.Name(), "steps", input.Steps, "lines", len(lines))
		return nil, EvaluationResult{LaTeX: latex, Lines: lines}, nil
	}
}

// ExpandHandler expands the sum at the document root.
func ExpandHandler(logger hclog.Logger) mcp.ToolHandlerFor[DocumentInput, ExpandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DocumentInput) (*mcp.CallToolResult, ExpandResult, error) {
		doc, err := decode(input.Document)
		if err != nil {
			return nil, ExpandResult{}, err
		}
		expanded, err := probtex.ExpandDocument(doc)
		if err != nil {
			return nil, ExpandResult{}, err
		}
		data, err := probtex.MarshalDocument(expanded)
		if err != nil {
			return nil, ExpandResult{}, err
		}
		var encoded map[string]any
		if err := json.Unmarshal(data, &encoded); err != nil {
			return nil, ExpandResult{}, fmt.Errorf("re-decode expansion: %w", err)
		}
		logger.Debug("expand_sum", "bytes", len(data))
		return nil, ExpandResult{LaTeX: probtex.Render(expanded), Document: encoded}, nil
	}
}

// ValidateHandler reports problems in the document root.
func ValidateHandler(logger hclog.Logger) mcp.ToolHandlerFor[DocumentInput, ValidateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DocumentInput) (*mcp.CallToolResult, ValidateResult, error) {
		doc, err := decode(input.Document)
		if err != nil {
			return nil, ValidateResult{}, err
		}
		problems := probtex.Problems(doc.Root)
		logger.Debug("validate", "problems", len(problems))
		return nil, ValidateResult{Valid: len(problems) == 0, Problems: problems}, nil
	}
}

// FreeSymbolsHandler lists unbound declarations in the document root.
func FreeSymbolsHandler(logger hclog.Logger) mcp.ToolHandlerFor[DocumentInput, FreeSymbolsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DocumentInput) (*mcp.CallToolResult, FreeSymbolsResult, error) {
		doc, err := decode(input.Document)
		if err != nil {
			return nil, FreeSymbolsResult{}, err
		}
		symbols := probtex.FreeSymbols(doc.Root)
		logger.Debug("free_symbols", "count", len(symbols))
		return nil, FreeSymbolsResult{Symbols: symbols}, nil
	}
}

// ToolsResourceHandler returns the tool catalogue as JSON.
func ToolsResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(probtex.Tools(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal tool catalogue: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      ToolsURI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
