package probtex

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/njchilds90/probtex/symbolic"
)

var (
	// ErrMissingOperand marks a node with a nil operand.
	ErrMissingOperand = errors.New("missing operand")
	// ErrUnknownOp marks a binary node with an unsupported operator.
	ErrUnknownOp = errors.New("unknown operator")
	// ErrDefinitionCycle marks a definition whose right-hand side refers
	// back to itself.
	ErrDefinitionCycle = errors.New("definition refers to itself")
)

// Validate reports every structural problem in the tree rooted at v as one
// aggregated error, or nil when the tree is well formed. Rendering never
// fails; Validate is how callers find out that a rendered tree contains
// placeholders.
func Validate(v any) error {
	var result *multierror.Error
	Walk(v, func(n any) bool {
		d, ok := n.(Displayable)
		if !ok {
			if n != nil && symbolic.IsNil(n) {
				result = multierror.Append(result, fmt.Errorf("%T leaf: %w", n, ErrMissingOperand))
			}
			return false
		}
		if isNilNode(d) {
			result = multierror.Append(result, fmt.Errorf("%s: %w", d.nodeType(), ErrMissingOperand))
			return false
		}
		for _, err := range checkNode(d) {
			result = multierror.Append(result, err)
		}
		return true
	})
	return result.ErrorOrNil()
}

func checkNode(n Displayable) []error {
	var errs []error
	missing := func(what string, v any) {
		if v == nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", n.nodeType(), what, ErrMissingOperand))
		}
	}
	switch x := n.(type) {
	case *Binary:
		missing("left", x.l)
		missing("right", x.r)
		if !x.op.Valid() {
			errs = append(errs, fmt.Errorf("binary: %w %q", ErrUnknownOp, string(x.op)))
		}
	case *Power:
		missing("base", x.base)
		missing("exponent", x.exp)
	case *Probability:
		missing("event", x.event)
	case *SumOverFiniteSet:
		missing("summand", x.summand)
		name := ""
		if x.variable != nil {
			name = x.variable.Name()
		}
		if name == "" {
			errs = append(errs, fmt.Errorf("sum: bound variable: %w", ErrMissingOperand))
		}
		if _, err := x.EventSet(); err != nil {
			errs = append(errs, fmt.Errorf("sum over %s: %w", name, err))
		}
	case *Definition:
		missing("symbol", x.lhs)
		if refersTo(x.rhs, x) {
			errs = append(errs, fmt.Errorf("definition %s: %w", x.Name(), ErrDefinitionCycle))
		}
	case *Case:
		missing("value", x.value)
	case *Event:
		if x.desc == "" {
			errs = append(errs, fmt.Errorf("event: empty description"))
		}
	}
	return errs
}

// refersTo reports whether d is reachable from v.
func refersTo(v any, d *Definition) bool {
	found := false
	Walk(v, func(n any) bool {
		if n == any(d) {
			found = true
		}
		return !found
	})
	return found
}
