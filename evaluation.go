package probtex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/njchilds90/probtex/symbolic"
)

var (
	// ErrDeclaration is returned when evaluating a definition that has no
	// right-hand side.
	ErrDeclaration = errors.New("definition has no right-hand side")
	// ErrUnknownIntermediate is returned for an unrecognised rewrite step.
	ErrUnknownIntermediate = errors.New("unknown intermediate step")
)

// Intermediate is a rewrite step shown as an extra line of an evaluation.
type Intermediate int

const (
	// ExpandOuterSum replaces a right-hand side that is a sum over a finite
	// set by its term-by-term expansion. It is skipped for any other
	// right-hand side.
	ExpandOuterSum Intermediate = iota + 1
	// SubstituteAll replaces every nested definition by its right-hand
	// side, and every free symbol the lookup knows by its value.
	SubstituteAll
)

var intermediateNames = map[Intermediate]string{
	ExpandOuterSum: "expand_outer_sum",
	SubstituteAll:  "substitute_all",
}

func (i Intermediate) String() string {
	if s, ok := intermediateNames[i]; ok {
		return s
	}
	return fmt.Sprintf("intermediate(%d)", int(i))
}

// ParseIntermediate maps a step name ("expand_outer_sum",
// "substitute_all") to its Intermediate.
func ParseIntermediate(s string) (Intermediate, error) {
	for i, name := range intermediateNames {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIntermediate, s)
}

// Lookup resolves a free symbol name to a value. It reports false for
// names it does not know.
type Lookup func(name string) (any, bool)

// DefaultLabel is the equation label used when Evaluation.Label is empty.
const DefaultLabel = "eq1"

// Evaluation configures the multi-line rendering of a definition.
type Evaluation struct {
	Lookup Lookup
	Steps  []Intermediate
	Label  string
}

// EvaluationSteps returns the right-hand side of every line of the
// evaluation: the definition's own right-hand side followed by one entry
// per step that changed it.
func (d *Definition) EvaluationSteps(ev Evaluation) ([]string, error) {
	if d.rhs == nil {
		return nil, fmt.Errorf("evaluate %s: %w", symbolic.Latex(d.lhs), ErrDeclaration)
	}
	m, _ := SymbolMode().enter(d)
	current := d.rhs
	lines := []string{toLaTeX(current, m)}

	for _, step := range ev.Steps {
		switch step {
		case ExpandOuterSum:
			sum, ok := current.(*SumOverFiniteSet)
			if !ok {
				continue
			}
			expanded, err := sum.Expand()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", step, err)
			}
			current = expanded
		case SubstituteAll:
			current = Inline(current, ev.Lookup)
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownIntermediate, int(step))
		}
		line := toLaTeX(current, m)
		if line != lines[len(lines)-1] {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// EvaluationLaTeX renders the definition as an aligned multi-line
// equation:
//
//	\begin{equation} \label{eq1}
//	\begin{split}
//	G & = rhs\\ & = step1\\ & = step2
//	\end{split}
//	\end{equation}
func (d *Definition) EvaluationLaTeX(ev Evaluation) (string, error) {
	lines, err := d.EvaluationSteps(ev)
	if err != nil {
		return "", err
	}
	label := ev.Label
	if label == "" {
		label = DefaultLabel
	}
	var b strings.Builder
	b.WriteString(`\begin{equation} \label{` + label + "}\n")
	b.WriteString(`\begin{split}` + "\n")
	b.WriteString(symbolic.Latex(d.lhs) + " & = ")
	b.WriteString(strings.Join(lines, `\\ & = `))
	b.WriteString("\n" + `\end{split}` + "\n" + `\end{equation}`)
	return b.String(), nil
}
