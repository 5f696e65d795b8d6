// cmd/probtex/main.go — render an encoded probability expression as LaTeX
//
// Usage:
//
//	probtex [-mode inline|display|evaluation|mime] [-expand] [-substitute] [file]
//
// The document is read from file, or from stdin when file is "-" or absent.
package main

import (
	"flag"
	"os"

	"github.com/njchilds90/probtex/internal/cli"
	"github.com/njchilds90/probtex/internal/config"
	"github.com/njchilds90/probtex/internal/logging"
)

func main() {
	cfg, err := config.ParseCLI(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	logger, err := logging.New("probtex", cfg.Log, os.Stderr)
	if err != nil {
		config.Exitf("logger: %v", err)
	}
	if err := cli.Run(cfg, os.Stdin, os.Stdout, logger); err != nil {
		config.Exitf("probtex: %v", err)
	}
}
