package probtex

import (
	"encoding/json"
	"fmt"
	"io"
)

// MIME is a rich-display bundle keyed by MIME type, as sent in the "data"
// field of a Jupyter display_data message.
type MIME map[string]string

// Displayer receives rich output, typically a notebook kernel's display
// hook.
type Displayer interface {
	Display(bundle MIME) error
}

// DisplayMath wraps LaTeX in display-math delimiters.
func DisplayMath(latex string) string { return `\[` + latex + `\]` }

// MIMEBundle returns the text/latex and text/plain representations of v.
func MIMEBundle(v any) MIME {
	latex := Render(v)
	return MIME{
		"text/latex": DisplayMath(latex),
		"text/plain": latex,
	}
}

// Show sends the bundle for v to d.
func Show(d Displayer, v any) error { return d.Display(MIMEBundle(v)) }

// ShowEvaluation sends the evaluation of def to d.
func ShowEvaluation(d Displayer, def *Definition, ev Evaluation) error {
	latex, err := def.EvaluationLaTeX(ev)
	if err != nil {
		return err
	}
	return d.Display(MIME{"text/latex": latex, "text/plain": latex})
}

// Display writes v as display math to w.
func Display(w io.Writer, v any) error {
	_, err := fmt.Fprintln(w, DisplayMath(Render(v)))
	return err
}

// DisplayEvaluation writes the multi-line evaluation of def to w, applying
// the given intermediate steps.
func DisplayEvaluation(w io.Writer, def *Definition, lookup Lookup, steps ...Intermediate) error {
	latex, err := def.EvaluationLaTeX(Evaluation{Lookup: lookup, Steps: steps})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, latex)
	return err
}

// WriterDisplayer writes the text/latex entry of each bundle to W.
type WriterDisplayer struct{ W io.Writer }

func (d WriterDisplayer) Display(bundle MIME) error {
	_, err := fmt.Fprintln(d.W, bundle["text/latex"])
	return err
}

// JSONDisplayer writes each bundle to W as one JSON object per line.
type JSONDisplayer struct{ W io.Writer }

func (d JSONDisplayer) Display(bundle MIME) error {
	return json.NewEncoder(d.W).Encode(bundle)
}
