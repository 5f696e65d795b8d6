package probtex

import (
	"strings"

	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// TallBrace — piecewise / case bracket
// ============================================================

// TallBrace renders its rows stacked inside a single tall left brace.
type TallBrace struct{ rows []any }

// Cases returns a brace over rows. Rows may be any node or value; use Case
// and Otherwise for "value if condition" rows.
func Cases(rows ...any) *TallBrace {
	out := make([]any, len(rows))
	copy(out, rows)
	return &TallBrace{rows: out}
}

func (t *TallBrace) Rows() []any {
	out := make([]any, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *TallBrace) LaTeX(m Mode) string {
	parts := make([]string, len(t.rows))
	for i, r := range t.rows {
		parts[i] = toLaTeX(r, m)
	}
	return `\left\{ \begin{array}{ll} ` + strings.Join(parts, ` \\ `) + ` \end{array} \right.`
}

func (t *TallBrace) Children() []any { return t.Rows() }

func (t *TallBrace) mapChildren(fn func(any) any) Displayable {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = fn(r)
	}
	return &TallBrace{rows: out}
}

func (t *TallBrace) nodeType() string { return "tall_brace" }

func (t *TallBrace) toJSON(enc *encoder) (map[string]interface{}, error) {
	rows := make([]interface{}, len(t.rows))
	for i, r := range t.rows {
		v, err := enc.value(r)
		if err != nil {
			return nil, err
		}
		rows[i] = v
	}
	return map[string]interface{}{"type": "tall_brace", "rows": rows}, nil
}

// ============================================================
// Case — one row of a piecewise definition
// ============================================================

// Case is a "value if condition" row. A nil condition means "otherwise".
type Case struct{ value, condition any }

// NewCase returns the row "value if condition". A string condition is
// rendered as text.
func NewCase(value, condition any) *Case { return &Case{value: value, condition: condition} }

// Otherwise returns the fallback row of a piecewise definition.
func Otherwise(value any) *Case { return &Case{value: value} }

func (c *Case) Value() any     { return c.value }
func (c *Case) Condition() any { return c.condition }

func (c *Case) LaTeX(m Mode) string {
	value := toLaTeX(c.value, m)
	switch cond := c.condition.(type) {
	case nil:
		return value + ` & \text{otherwise}`
	case string:
		return value + ` & \text{if ` + symbolic.EscapeText(cond) + `}`
	default:
		return value + ` & \text{if } ` + toLaTeX(cond, m)
	}
}

func (c *Case) Children() []any {
	if c.condition == nil {
		return []any{c.value}
	}
	return []any{c.value, c.condition}
}

func (c *Case) mapChildren(fn func(any) any) Displayable {
	out := &Case{value: fn(c.value)}
	if c.condition != nil {
		out.condition = fn(c.condition)
	}
	return out
}

func (c *Case) nodeType() string { return "case" }

func (c *Case) toJSON(enc *encoder) (map[string]interface{}, error) {
	value, err := enc.value(c.value)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{"type": "case", "value": value}
	if c.condition != nil {
		cond, err := enc.value(c.condition)
		if err != nil {
			return nil, err
		}
		out["condition"] = cond
	}
	return out, nil
}
