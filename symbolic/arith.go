package symbolic

import (
	"sort"
	"strings"
)

// split separates e into its numeric coefficient and the rest. A bare
// number has a nil rest.
func split(e Expr) (*Num, Expr) {
	switch v := e.(type) {
	case *Num:
		return v, nil
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			if len(v.factors) == 2 {
				return c, v.factors[1]
			}
			return c, &Mul{factors: v.factors[1:]}
		}
	}
	return N(1), e
}

// scale is the inverse of split.
func scale(c *Num, rest Expr) Expr {
	switch {
	case rest == nil:
		return c
	case c.IsZero():
		return N(0)
	case c.IsOne():
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{c}, m.factors...)}
	}
	return &Mul{factors: []Expr{c, rest}}
}

// join writes terms separated by " + ", or " - " before a term with a
// negative coefficient.
func join(terms []Expr, render func(Expr) string) string {
	var b strings.Builder
	for i, t := range terms {
		c, rest := split(t)
		switch {
		case i == 0:
			b.WriteString(render(t))
			continue
		case c.Sign() < 0:
			b.WriteString(" - ")
			t = scale(c.neg(), rest)
		default:
			b.WriteString(" + ")
		}
		b.WriteString(render(t))
	}
	return b.String()
}

// ============================================================
// Add — sum of terms
// ============================================================

// Add is a sum. Its terms are ordered by string form with the constant
// last.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	constant := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	var keys []string

	var collect func(Expr)
	collect = func(e Expr) {
		e = e.Simplify()
		if inner, ok := e.(*Add); ok {
			for _, t := range inner.terms {
				collect(t)
			}
			return
		}
		c, rest := split(e)
		if rest == nil {
			constant = constant.add(c)
			return
		}
		k := rest.String()
		if _, seen := coeffs[k]; !seen {
			keys = append(keys, k)
			coeffs[k] = N(0)
			rests[k] = rest
		}
		coeffs[k] = coeffs[k].add(c)
	}
	for _, t := range a.terms {
		collect(t)
	}

	sort.Strings(keys)
	terms := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		if !coeffs[k].IsZero() {
			terms = append(terms, scale(coeffs[k], rests[k]))
		}
	}
	if !constant.IsZero() || len(terms) == 0 {
		terms = append(terms, constant)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Add{terms: terms}
}

func (a *Add) String() string { return join(a.terms, Expr.String) }
func (a *Add) LaTeX() string  { return join(a.terms, Expr.LaTeX) }

func (a *Add) Sub(varName string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(varName, value)
	}
	return AddOf(out...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": encodeAll(a.terms)}
}

func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul — product of factors
// ============================================================

// Mul is a product. A numeric coefficient, if any, comes first; the other
// factors have distinct bases ordered by string form.
type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	var keys []string

	var collect func(Expr)
	collect = func(e Expr) {
		e = e.Simplify()
		switch v := e.(type) {
		case *Num:
			coeff = coeff.mul(v)
			return
		case *Mul:
			for _, f := range v.factors {
				collect(f)
			}
			return
		}
		base, exp := e, Expr(N(1))
		if p, ok := e.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		k := base.String()
		if _, seen := bases[k]; !seen {
			keys = append(keys, k)
			bases[k] = base
		}
		exps[k] = append(exps[k], exp)
	}
	for _, f := range m.factors {
		collect(f)
	}
	if coeff.IsZero() {
		return N(0)
	}

	sort.Strings(keys)
	factors := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		f := PowOf(bases[k], AddOf(exps[k]...))
		if n, ok := f.(*Num); ok {
			coeff = coeff.mul(n)
			continue
		}
		factors = append(factors, f)
	}
	switch {
	case len(factors) == 0 || coeff.IsZero():
		return coeff
	case coeff.IsOne() && len(factors) == 1:
		return factors[0]
	case coeff.IsOne():
		return &Mul{factors: factors}
	}
	return &Mul{factors: append([]Expr{coeff}, factors...)}
}

func (m *Mul) String() string {
	parts := make([]string, 0, len(m.factors))
	prefix := ""
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 && n.neg().IsOne() {
			prefix = "-"
			continue
		}
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "("+f.String()+")")
		} else {
			parts = append(parts, f.String())
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, 0, len(m.factors))
	prefix := ""
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 && n.neg().IsOne() {
			prefix = "-"
			continue
		}
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, `\left(`+f.LaTeX()+`\right)`)
		} else {
			parts = append(parts, f.LaTeX())
		}
	}
	return prefix + strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Sub(varName, value)
	}
	return MulOf(out...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": encodeAll(m.factors)}
}

func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow — base^exponent
// ============================================================

// Pow is base raised to exp. Numeric powers with small integer exponents
// are evaluated exactly.
type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base, exp := p.base.Simplify(), p.exp.Simplify()
	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
		if bn, ok := base.(*Num); ok {
			if r, ok := bn.pow(en); ok {
				return r
			}
		}
	}
	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	s := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		s = "(" + s + ")"
	}
	return s + "^" + p.exp.String()
}

func (p *Pow) LaTeX() string {
	s := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		s = `\left(` + s + `\right)`
	}
	return s + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func encodeAll(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = e.toJSON()
	}
	return out
}
