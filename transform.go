package probtex

import (
	"slices"

	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// Substitute — replace a bound variable
// ============================================================

// Substitute returns a copy of v with the symbol name replaced by value.
// Declarations and definitions bound to name are replaced as a whole, as
// are bare symbolic.Sym leaves. A definition whose right-hand side depends
// on name is replaced by that right-hand side with the substitution applied,
// since its symbol no longer stands for the same value. A nested sum that
// binds name itself shadows it inside its summand.
func Substitute(v any, name string, value any) any {
	return substituter{name: name, value: value}.apply(v)
}

type substituter struct {
	name  string
	value any
	defs  map[*Definition]bool
}

func (s substituter) withDef(d *Definition) substituter {
	next := make(map[*Definition]bool, len(s.defs)+1)
	for k := range s.defs {
		next[k] = true
	}
	next[d] = true
	s.defs = next
	return s
}

func (s substituter) apply(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *Definition:
		if x == nil {
			return v
		}
		if x.Name() == s.name {
			return s.value
		}
		if x.rhs == nil || s.defs[x] || !slices.Contains(FreeSymbols(x), s.name) {
			return v
		}
		return s.withDef(x).apply(x.rhs)
	case *SumOverFiniteSet:
		if x == nil {
			return v
		}
		if x.variable.Name() == s.name {
			return &SumOverFiniteSet{summand: x.summand, set: s.apply(x.set), variable: x.variable}
		}
		return x.mapChildren(s.apply)
	case Displayable:
		if isNilNode(x) {
			return v
		}
		return x.mapChildren(s.apply)
	case symbolic.Expr:
		if symbolic.IsNil(x) {
			return v
		}
		return substituteExpr(x, s.name, s.value)
	}
	return v
}

func substituteExpr(e symbolic.Expr, name string, value any) any {
	if _, free := symbolic.FreeSymbols(e)[name]; !free {
		return e
	}
	if s, ok := e.(*symbolic.Sym); ok && s.Name() == name {
		return value
	}
	if ve, ok := symbolic.ToExpr(value); ok {
		return symbolic.Sub(e, name, ve)
	}
	switch x := value.(type) {
	case *Event:
		return symbolic.Sub(e, name, symbolic.S(x.desc))
	case *Definition:
		if s, ok := x.lhs.(*symbolic.Sym); ok {
			return symbolic.Sub(e, name, s)
		}
	}
	return e
}

// ============================================================
// Inline — replace definitions by their right-hand sides
// ============================================================

// Inline returns a copy of v with every nested definition replaced by its
// right-hand side, recursively. Declarations and bare symbols are resolved
// through lookup when it knows their name. Probability operands keep their
// symbols, and a sum's bound variable is never looked up inside its
// summand. Cyclic definitions are left in place at the point they recur.
func Inline(v any, lookup Lookup) any {
	in := inliner{lookup: lookup}
	return in.inline(v)
}

type inliner struct {
	lookup Lookup
	defs   map[*Definition]bool
	names  map[string]bool
}

func (in inliner) withDef(d *Definition) inliner {
	next := make(map[*Definition]bool, len(in.defs)+1)
	for k := range in.defs {
		next[k] = true
	}
	next[d] = true
	in.defs = next
	return in
}

func (in inliner) withName(name string) inliner {
	next := make(map[string]bool, len(in.names)+1)
	for k := range in.names {
		next[k] = true
	}
	next[name] = true
	in.names = next
	return in
}

func (in inliner) resolveName(name string) (any, inliner, bool) {
	if in.lookup == nil || name == "" || in.names[name] {
		return nil, in, false
	}
	r, ok := in.lookup(name)
	if !ok || r == nil {
		return nil, in, false
	}
	return r, in.withName(name), true
}

func (in inliner) inline(v any) any {
	switch x := v.(type) {
	case *Definition:
		if x == nil || in.defs[x] {
			return v
		}
		if x.rhs == nil {
			if r, next, ok := in.resolveName(x.Name()); ok {
				return next.withDef(x).inline(r)
			}
			return v
		}
		return in.withDef(x).inline(x.rhs)
	case *Probability:
		return v
	case *SumOverFiniteSet:
		if x == nil {
			return v
		}
		return &SumOverFiniteSet{
			summand:  in.withName(x.variable.Name()).inline(x.summand),
			set:      in.inline(x.set),
			variable: x.variable,
		}
	case Displayable:
		if isNilNode(x) {
			return v
		}
		return x.mapChildren(in.inline)
	case *symbolic.Sym:
		if x == nil {
			return v
		}
		if r, next, ok := in.resolveName(x.Name()); ok {
			return next.inline(r)
		}
	}
	return v
}

// ============================================================
// Walk — pre-order traversal
// ============================================================

// Walk calls fn for v and, while fn returns true, for every sub-expression
// below it in pre-order. Each definition is visited once even when it is
// shared or cyclic.
func Walk(v any, fn func(any) bool) {
	seen := map[*Definition]bool{}
	var walk func(any)
	walk = func(v any) {
		if d, ok := v.(*Definition); ok && d != nil {
			if seen[d] {
				return
			}
			seen[d] = true
		}
		if !fn(v) {
			return
		}
		if d, ok := v.(Displayable); ok && !isNilNode(d) {
			for _, c := range d.Children() {
				walk(c)
			}
		}
	}
	walk(v)
}
