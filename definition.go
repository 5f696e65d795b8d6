package probtex

import (
	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// Definition — symbol bound to an expression
// ============================================================

// Definition binds a left-hand symbol to a right-hand expression. Rendered
// at the top of a tree it shows "lhs = rhs"; nested anywhere else it shows
// only its symbol. A definition without a right-hand side is a declared
// free symbol.
type Definition struct {
	lhs     any
	rhs     any
	comment string
}

// DefOption configures a Definition.
type DefOption func(*Definition)

// WithComment attaches an explanatory comment, rendered after the
// definition.
func WithComment(c string) DefOption {
	return func(d *Definition) { d.comment = c }
}

// Def binds lhs to rhs. A string lhs becomes a symbol.
func Def(lhs any, rhs any, opts ...DefOption) *Definition {
	if s, ok := lhs.(string); ok {
		lhs = symbolic.S(s)
	}
	d := &Definition{lhs: lhs, rhs: rhs}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Declare introduces a symbol with no right-hand side, typically the bound
// variable of a sum.
func Declare(name string, opts ...DefOption) *Definition { return Def(name, nil, opts...) }

// Symbol returns the bound left-hand side.
func (d *Definition) Symbol() any { return d.lhs }

// RHS returns the right-hand side, or nil for a declaration.
func (d *Definition) RHS() any { return d.rhs }

// Comment returns the attached comment.
func (d *Definition) Comment() string { return d.comment }

// Name returns the symbol's name, or "" when the left-hand side is not a
// symbol.
func (d *Definition) Name() string {
	if s, ok := d.lhs.(*symbolic.Sym); ok && s != nil {
		return s.Name()
	}
	return ""
}

func (d *Definition) LaTeX(m Mode) string {
	lhs := symbolic.Latex(d.lhs)
	if d.rhs == nil {
		return lhs
	}
	inner, _ := m.enter(d)
	out := lhs + " = " + toLaTeX(d.rhs, inner)
	if d.comment != "" {
		out += `\quad \text{` + symbolic.EscapeText(d.comment) + `}`
	}
	return out
}

func (d *Definition) Children() []any {
	if d.rhs == nil {
		return []any{d.lhs}
	}
	return []any{d.lhs, d.rhs}
}

// mapChildren rewrites the right-hand side only; the bound symbol is fixed.
func (d *Definition) mapChildren(fn func(any) any) Displayable {
	out := &Definition{lhs: d.lhs, rhs: d.rhs, comment: d.comment}
	if d.rhs != nil {
		out.rhs = fn(d.rhs)
	}
	return out
}

func (d *Definition) nodeType() string { return "definition" }

func (d *Definition) toJSON(enc *encoder) (map[string]interface{}, error) {
	name, err := enc.define(d)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"type": "ref", "name": name}, nil
}
