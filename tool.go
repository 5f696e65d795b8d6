package probtex

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// Tool-call interface
// ============================================================

// ToolRequest is a JSON tool invocation. Every tool takes a "document"
// param holding an encoded Document.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Tool describes one entry of the tool catalogue.
type Tool struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
}

// Tools lists the tools HandleToolCall understands.
func Tools() []Tool {
	return []Tool{
		{"render", "Render a document as LaTeX. Optional: substitute (bool) inlines every definition.", []string{"document"}},
		{"render_evaluation", "Render a definition as a multi-line evaluation. Optional: steps (expand_outer_sum, substitute_all), label.", []string{"document"}},
		{"expand_sum", "Expand a sum over a finite set into an explicit addition.", []string{"document"}},
		{"validate", "Report structural problems in a document.", []string{"document"}},
		{"free_symbols", "List declared symbols without a right-hand side.", []string{"document"}},
		{"tool_spec", "Return this tool catalogue.", nil},
	}
}

// HandleToolCall dispatches req with default settings.
func HandleToolCall(req ToolRequest) ToolResponse { return ToolHandler{}.Handle(req) }

// ToolHandler dispatches tool calls.
type ToolHandler struct {
	// Label is the equation label render_evaluation uses when the call
	// gives none. Empty means DefaultLabel.
	Label string
}

// Handle dispatches req and reports failures in the response's Error field.
func (h ToolHandler) Handle(req ToolRequest) ToolResponse {
	getDocument := func() (*Document, error) {
		v, ok := req.Params["document"]
		if !ok {
			return nil, fmt.Errorf("missing param: document")
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param document must be an object")
		}
		return DecodeDocument(m)
	}
	getBool := func(key string) (bool, error) {
		v, ok := req.Params[key]
		if !ok || v == nil {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("param %s must be a boolean", key)
		}
		return b, nil
	}
	getOptString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok || v == nil {
			return "", nil
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getSteps := func() ([]Intermediate, error) {
		v, ok := req.Params["steps"]
		if !ok || v == nil {
			return nil, nil
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param steps must be array")
		}
		steps := make([]Intermediate, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("param steps[%d] must be string", i)
			}
			step, err := ParseIntermediate(s)
			if err != nil {
				return nil, err
			}
			steps[i] = step
		}
		return steps, nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "render":
		doc, err := getDocument()
		if err != nil {
			return fail(err)
		}
		substitute, err := getBool("substitute")
		if err != nil {
			return fail(err)
		}
		latex := RenderDocument(doc, substitute)
		return ToolResponse{LaTeX: latex, String: DisplayMath(latex)}

	case "render_evaluation":
		doc, err := getDocument()
		if err != nil {
			return fail(err)
		}
		steps, err := getSteps()
		if err != nil {
			return fail(err)
		}
		label, err := getOptString("label")
		if err != nil {
			return fail(err)
		}
		if label == "" {
			label = h.Label
		}
		latex, err := EvaluateDocument(doc, Evaluation{Steps: steps, Label: label})
		if err != nil {
			return fail(err)
		}
		return ToolResponse{LaTeX: latex}

	case "expand_sum":
		doc, err := getDocument()
		if err != nil {
			return fail(err)
		}
		expanded, err := ExpandDocument(doc)
		if err != nil {
			return fail(err)
		}
		encoded, err := EncodeDocument(expanded)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: encoded, LaTeX: Render(expanded)}

	case "validate":
		doc, err := getDocument()
		if err != nil {
			return fail(err)
		}
		problems := Problems(doc.Root)
		return ToolResponse{Result: map[string]interface{}{"valid": len(problems) == 0, "problems": problems}}

	case "free_symbols":
		doc, err := getDocument()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: FreeSymbols(doc.Root)}

	case "tool_spec":
		return ToolResponse{Result: Tools()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// RenderDocument renders the document root, inlining every definition when
// substitute is set. A root definition keeps its left-hand side.
func RenderDocument(doc *Document, substitute bool) string {
	if !substitute {
		return Render(doc.Root)
	}
	if def, ok := doc.RootDefinition(); ok && def.rhs != nil {
		in := inliner{lookup: doc.Lookup}.withDef(def)
		return Render(&Definition{lhs: def.lhs, rhs: in.inline(def.rhs), comment: def.comment})
	}
	return Render(Inline(doc.Root, doc.Lookup))
}

// EvaluateDocument renders the evaluation of the document's root
// definition. The document's own definitions serve as the lookup unless
// ev carries one.
func EvaluateDocument(doc *Document, ev Evaluation) (string, error) {
	def, ok := doc.RootDefinition()
	if !ok {
		return "", fmt.Errorf("evaluation needs a definition at the root, got %s", describe(doc.Root))
	}
	if ev.Lookup == nil {
		ev.Lookup = doc.Lookup
	}
	return def.EvaluationLaTeX(ev)
}

// ExpandDocument expands the sum at the document root, or the sum on the
// right-hand side of a root definition.
func ExpandDocument(doc *Document) (any, error) {
	root := doc.Root
	if def, ok := doc.RootDefinition(); ok {
		root = def.rhs
	}
	sum, ok := root.(*SumOverFiniteSet)
	if !ok || sum == nil {
		return nil, fmt.Errorf("expand: %w: root is %s, not a sum", ErrNotFiniteSet, describe(root))
	}
	return sum.Expand()
}

// Problems flattens Validate's result into messages.
func Problems(v any) []string {
	err := Validate(v)
	if err == nil {
		return []string{}
	}
	var out []string
	for _, e := range unwrapAll(err) {
		out = append(out, e.Error())
	}
	return out
}

func unwrapAll(err error) []error {
	var multi *multierror.Error
	if errors.As(err, &multi) {
		return multi.Errors
	}
	return []error{err}
}

// FreeSymbols returns the sorted names of declarations and symbolic
// symbols in v that are not bound by an enclosing sum.
func FreeSymbols(v any) []string {
	set := map[string]struct{}{}
	collectFree(v, map[string]bool{}, map[*Definition]bool{}, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectFree(v any, bound map[string]bool, seen map[*Definition]bool, out map[string]struct{}) {
	switch x := v.(type) {
	case *Definition:
		if x == nil || seen[x] {
			return
		}
		if x.rhs == nil {
			if name := x.Name(); name != "" && !bound[name] {
				out[name] = struct{}{}
			}
			return
		}
		seen[x] = true
		collectFree(x.rhs, bound, seen, out)
		delete(seen, x)
	case *SumOverFiniteSet:
		if x == nil {
			return
		}
		collectFree(x.set, bound, seen, out)
		inner := make(map[string]bool, len(bound)+1)
		for k := range bound {
			inner[k] = true
		}
		inner[x.variable.Name()] = true
		collectFree(x.summand, inner, seen, out)
	case Displayable:
		if isNilNode(x) {
			return
		}
		for _, c := range x.Children() {
			collectFree(c, bound, seen, out)
		}
	case symbolic.Expr:
		if symbolic.IsNil(x) {
			return
		}
		for name := range symbolic.FreeSymbols(x) {
			if !bound[name] {
				out[name] = struct{}{}
			}
		}
	}
}
