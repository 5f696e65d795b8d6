package probtex

import (
	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// Binary — two-operand composite
// ============================================================

// Op is a binary operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
)

// Valid reports whether op is one of the supported operators.
func (op Op) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul:
		return true
	}
	return false
}

// LaTeX returns the operator symbol.
func (op Op) LaTeX() string {
	if op == OpMul {
		return `\times`
	}
	return string(op)
}

// Binary combines two operands with an operator. Operands that are
// themselves binary nodes are parenthesized.
type Binary struct {
	l, r any
	op   Op
}

// NewBinary returns the node l op r.
func NewBinary(l any, op Op, r any) *Binary { return &Binary{l: l, r: r, op: op} }

func (b *Binary) Left() any  { return b.l }
func (b *Binary) Right() any { return b.r }
func (b *Binary) Op() Op     { return b.op }

func (b *Binary) LaTeX(m Mode) string {
	return b.operand(b.l, m) + " " + b.op.LaTeX() + " " + b.operand(b.r, m)
}

func (b *Binary) operand(v any, m Mode) string {
	s := toLaTeX(v, m)
	if _, nested := m.resolve(v).(*Binary); nested {
		return "(" + s + ")"
	}
	return s
}

func (b *Binary) Children() []any { return []any{b.l, b.r} }

func (b *Binary) mapChildren(fn func(any) any) Displayable {
	return &Binary{l: fn(b.l), r: fn(b.r), op: b.op}
}

func (b *Binary) nodeType() string { return "binary" }

func (b *Binary) toJSON(enc *encoder) (map[string]interface{}, error) {
	l, err := enc.value(b.l)
	if err != nil {
		return nil, err
	}
	r, err := enc.value(b.r)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"type": "binary", "op": string(b.op), "left": l, "right": r}, nil
}

// ============================================================
// Power — exponentiation wrapper
// ============================================================

// Power raises any node or value to an exponent. An exponent of 1 renders
// as the bare base; a binary base is parenthesized.
type Power struct{ base, exp any }

func (p *Power) Base() any     { return p.base }
func (p *Power) Exponent() any { return p.exp }

func (p *Power) LaTeX(m Mode) string {
	base := toLaTeX(p.base, m)
	if _, nested := m.resolve(p.base).(*Binary); nested {
		base = "(" + base + ")"
	}
	if isUnit(p.exp) {
		return base
	}
	return "{" + base + "}^{" + toLaTeX(p.exp, m) + "}"
}

func isUnit(v any) bool {
	e, ok := symbolic.ToExpr(v)
	if !ok {
		return false
	}
	n, ok := e.(*symbolic.Num)
	return ok && n.IsOne()
}

func (p *Power) Children() []any { return []any{p.base, p.exp} }

func (p *Power) mapChildren(fn func(any) any) Displayable {
	return &Power{base: fn(p.base), exp: fn(p.exp)}
}

func (p *Power) nodeType() string { return "power" }

func (p *Power) toJSON(enc *encoder) (map[string]interface{}, error) {
	base, err := enc.value(p.base)
	if err != nil {
		return nil, err
	}
	exp, err := enc.value(p.exp)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"type": "power", "base": base, "exp": exp}, nil
}
