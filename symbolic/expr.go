// Package symbolic holds the leaf values of probability expressions: exact
// rational numbers, named symbols and the arithmetic built from them. Every
// value renders itself as LaTeX, and Latex renders raw Go values the same
// way.
//
// Constructors return canonical forms. Like terms are collected, equal
// bases are merged into powers and operands are ordered by their string
// form, so equal inputs always print the same:
//
//	AddOf(S("p"), S("p"), N(1))   // 2*p + 1
//	MulOf(S("q"), N(3), S("q"))   // 3*q^2
package symbolic

import "math/big"

// Expr is a symbolic expression.
type Expr interface {
	// Simplify returns the canonical form of the expression.
	Simplify() Expr
	String() string
	LaTeX() string
	// Sub replaces the symbol varName by value.
	Sub(varName string, value Expr) Expr
	Equal(other Expr) bool
	toJSON() map[string]interface{}
}

// IsNil reports whether v is nil or a nil pointer to one of the package's
// value types.
func IsNil(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *Num:
		return x == nil || x.val == nil
	case *Sym:
		return x == nil
	case *Add:
		return x == nil
	case *Mul:
		return x == nil
	case *Pow:
		return x == nil
	case *Func:
		return x == nil
	case *big.Rat:
		return x == nil
	case *big.Int:
		return x == nil
	}
	return false
}

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }

// Sub replaces varName by value in expr and simplifies the result.
func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// operands returns the direct sub-expressions of e.
func operands(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		return v.factors
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return []Expr{v.arg}
	}
	return nil
}

// FreeSymbols returns the names of all symbols in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(Expr)
	walk = func(e Expr) {
		if s, ok := e.(*Sym); ok {
			out[s.name] = struct{}{}
			return
		}
		for _, o := range operands(e) {
			walk(o)
		}
	}
	walk(e)
	return out
}
