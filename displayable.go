// Package probtex renders small symbolic-probability expressions as LaTeX.
//
// Expressions are trees built from a fixed vocabulary of nodes: events,
// event sets, probabilities, sums over finite sets, definitions, binary
// operators, powers and piecewise braces. Any other value placed in a tree
// (numbers, strings, symbolic expressions) is a leaf rendered by the
// symbolic package.
//
//	E := probtex.Def("E", probtex.NewEventSet("raining", "sunny"))
//	x := probtex.Declare("x")
//	G := probtex.Def("G", probtex.Sum(probtex.Plus(probtex.Pr(x), probtex.Pr(x)), E, "x"))
//	probtex.Render(G) // G = \sum_{x \in E} \Pr(\,x\,) + \Pr(\,x\,)
//
// Nodes are immutable once built; helpers such as Raise and Substitute
// return new trees.
package probtex

import (
	"github.com/njchilds90/probtex/symbolic"
)

// missing is rendered in place of nil nodes.
const missing = `\square`

// maxResolveDepth bounds definition chains followed while rendering.
const maxResolveDepth = 64

// ============================================================
// Core Interface
// ============================================================

// Displayable is implemented by every tree node.
type Displayable interface {
	// LaTeX renders the node under mode m.
	LaTeX(m Mode) string
	// Children returns the node's direct sub-expressions.
	Children() []any

	mapChildren(fn func(any) any) Displayable
	nodeType() string
	toJSON(enc *encoder) (map[string]interface{}, error)
}

// Mode controls how nested definitions are rendered.
type Mode struct {
	// Symbolify renders a nested definition by its bound symbol. When
	// false, nested definitions are replaced by their right-hand sides.
	Symbolify bool

	active map[*Definition]bool
}

// SymbolMode is the default rendering mode.
func SymbolMode() Mode { return Mode{Symbolify: true} }

// SubstituteMode renders every nested definition by its right-hand side.
func SubstituteMode() Mode { return Mode{} }

// enter marks d as being expanded. It reports false if d is already being
// expanded further up the tree.
func (m Mode) enter(d *Definition) (Mode, bool) {
	if m.active[d] {
		return m, false
	}
	next := make(map[*Definition]bool, len(m.active)+1)
	for k := range m.active {
		next[k] = true
	}
	next[d] = true
	m.active = next
	return m, true
}

// resolve returns what v will render as under m, following definitions
// in substitute mode.
func (m Mode) resolve(v any) any {
	if m.Symbolify {
		return v
	}
	for i := 0; i < maxResolveDepth; i++ {
		d, ok := v.(*Definition)
		if !ok || d == nil || d.rhs == nil || m.active[d] {
			return v
		}
		v = d.rhs
	}
	return v
}

// ============================================================
// Rendering entry points
// ============================================================

// Render renders v in SymbolMode. A definition at the top renders in full
// (lhs = rhs); definitions nested below it render as their symbol.
func Render(v any) string { return RenderMode(v, SymbolMode()) }

// RenderMode renders v under m.
func RenderMode(v any, m Mode) string {
	if d, ok := v.(Displayable); ok {
		if isNilNode(d) {
			return missing
		}
		return d.LaTeX(m)
	}
	return symbolic.Latex(v)
}

// toLaTeX renders a sub-expression.
func toLaTeX(v any, m Mode) string {
	switch x := v.(type) {
	case *Definition:
		if x == nil {
			return missing
		}
		if m.Symbolify || x.rhs == nil {
			return symbolic.Latex(x.lhs)
		}
		inner, ok := m.enter(x)
		if !ok {
			return symbolic.Latex(x.lhs)
		}
		return toLaTeX(x.rhs, inner)
	case Displayable:
		if isNilNode(x) {
			return missing
		}
		return x.LaTeX(m)
	}
	return symbolic.Latex(v)
}

func isNilNode(d Displayable) bool {
	switch x := d.(type) {
	case *Event:
		return x == nil
	case *EventSet:
		return x == nil
	case *Binary:
		return x == nil
	case *Power:
		return x == nil
	case *Definition:
		return x == nil
	case *Probability:
		return x == nil
	case *SumOverFiniteSet:
		return x == nil
	case *TallBrace:
		return x == nil
	case *Case:
		return x == nil
	}
	return d == nil
}

// ============================================================
// Composition
// ============================================================

// Plus returns the node a + b.
func Plus(a, b any) *Binary { return &Binary{l: a, r: b, op: OpAdd} }

// Minus returns the node a - b.
func Minus(a, b any) *Binary { return &Binary{l: a, r: b, op: OpSub} }

// Times returns the node a × b.
func Times(a, b any) *Binary { return &Binary{l: a, r: b, op: OpMul} }

// Raise returns v raised to exp. v is not modified.
func Raise(v any, exp any) *Power { return &Power{base: v, exp: exp} }
