package probtex

import (
	"errors"
	"fmt"

	"github.com/njchilds90/probtex/symbolic"
)

// ErrNotFiniteSet is returned when a sum ranges over something that does
// not resolve to an EventSet.
var ErrNotFiniteSet = errors.New("sum does not range over a finite event set")

// ============================================================
// SumOverFiniteSet — Σ_{x∈S} f(x)
// ============================================================

// SumOverFiniteSet sums a summand over every event of a finite set, binding
// each event to a named variable in turn.
type SumOverFiniteSet struct {
	summand  any
	set      any
	variable *symbolic.Sym
}

// Sum returns Σ_{variable ∈ set} summand. set is an *EventSet or a
// Definition whose right-hand side is one.
func Sum(summand, set any, variable string) *SumOverFiniteSet {
	return &SumOverFiniteSet{summand: summand, set: set, variable: symbolic.S(variable)}
}

func (s *SumOverFiniteSet) Summand() any     { return s.summand }
func (s *SumOverFiniteSet) Set() any         { return s.set }
func (s *SumOverFiniteSet) Variable() string { return s.variable.Name() }

func (s *SumOverFiniteSet) LaTeX(m Mode) string {
	return `\sum_{` + s.variable.LaTeX() + ` \in ` + toLaTeX(s.set, SymbolMode()) + `} ` + toLaTeX(s.summand, m)
}

// EventSet follows definitions from the sum's set to the underlying
// EventSet.
func (s *SumOverFiniteSet) EventSet() (*EventSet, error) {
	v := s.set
	for i := 0; i < maxResolveDepth; i++ {
		switch x := v.(type) {
		case *EventSet:
			if x != nil {
				return x, nil
			}
		case *Definition:
			if x != nil && x.rhs != nil {
				v = x.rhs
				continue
			}
		}
		return nil, fmt.Errorf("%w: got %s", ErrNotFiniteSet, describe(v))
	}
	return nil, fmt.Errorf("%w: definition chain too deep", ErrNotFiniteSet)
}

// Expand rewrites the sum as an explicit addition of the summand evaluated
// at each event, in set order:
//
//	Σ_{x∈{a,b,c}} f(x)  ->  (f(a) + f(b)) + f(c)
//
// A one-element set yields the single term and an empty set yields 0. A
// definition in the summand whose right-hand side uses the bound variable is
// replaced by that right-hand side, evaluated at each event.
func (s *SumOverFiniteSet) Expand() (any, error) {
	set, err := s.EventSet()
	if err != nil {
		return nil, err
	}
	name := s.variable.Name()
	var acc any
	for i, e := range set.events {
		term := Substitute(s.summand, name, e)
		if i == 0 {
			acc = term
			continue
		}
		acc = Plus(acc, term)
	}
	if acc == nil {
		return symbolic.N(0), nil
	}
	return acc, nil
}

func (s *SumOverFiniteSet) Children() []any { return []any{s.summand, s.set} }

func (s *SumOverFiniteSet) mapChildren(fn func(any) any) Displayable {
	return &SumOverFiniteSet{summand: fn(s.summand), set: fn(s.set), variable: s.variable}
}

func (s *SumOverFiniteSet) nodeType() string { return "sum" }

func (s *SumOverFiniteSet) toJSON(enc *encoder) (map[string]interface{}, error) {
	summand, err := enc.value(s.summand)
	if err != nil {
		return nil, err
	}
	set, err := enc.value(s.set)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"type": "sum", "summand": summand, "set": set, "var": s.variable.Name()}, nil
}

// describe names the kind of v for error messages.
func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case *Definition:
		if x == nil {
			return "nil definition"
		}
		if x.rhs == nil {
			return "declaration " + x.Name()
		}
		return "definition " + x.Name()
	case Displayable:
		return x.nodeType()
	}
	return fmt.Sprintf("%T", v)
}
