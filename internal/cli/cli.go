// Package cli implements the probtex command: it reads an encoded document
// and writes its LaTeX.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/njchilds90/probtex"
	"github.com/njchilds90/probtex/internal/config"
)

// Run reads the document named by cfg.Input (stdin for "-") and writes it
// to stdout in the configured mode.
func Run(cfg config.CLI, stdin io.Reader, stdout io.Writer, logger hclog.Logger) error {
	data, err := readInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	doc, err := probtex.UnmarshalDocument(data)
	if err != nil {
		return err
	}
	for _, p := range probtex.Problems(doc.Root) {
		logger.Warn("document problem", "problem", p)
	}
	logger.Debug("decoded document", "definitions", len(doc.Definitions), "mode", cfg.Mode)

	if cfg.Mode == config.ModeEvaluation {
		var steps []probtex.Intermediate
		if cfg.Expand {
			steps = append(steps, probtex.ExpandOuterSum)
		}
		if cfg.Substitute {
			steps = append(steps, probtex.SubstituteAll)
		}
		latex, err := probtex.EvaluateDocument(doc, probtex.Evaluation{Steps: steps, Label: cfg.Label})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, latex)
		return err
	}

	latex, err := render(doc, cfg)
	if err != nil {
		return err
	}
	switch cfg.Mode {
	case config.ModeDisplay:
		_, err = fmt.Fprintln(stdout, probtex.DisplayMath(latex))
	case config.ModeMIME:
		err = probtex.JSONDisplayer{W: stdout}.Display(probtex.MIME{
			"text/latex": probtex.DisplayMath(latex),
			"text/plain": latex,
		})
	default:
		_, err = fmt.Fprintln(stdout, latex)
	}
	return err
}

func render(doc *probtex.Document, cfg config.CLI) (string, error) {
	if !cfg.Expand {
		return probtex.RenderDocument(doc, cfg.Substitute), nil
	}
	v, err := probtex.ExpandDocument(doc)
	if err != nil {
		return "", err
	}
	if cfg.Substitute {
		v = probtex.Inline(v, doc.Lookup)
	}
	return probtex.Render(v), nil
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
