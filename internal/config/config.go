// Package config loads command configuration from the environment and
// command-line flags. Flags override environment values.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Transports accepted by the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Log configures the command logger.
type Log struct {
	Level string `env:"PROBTEX_LOG_LEVEL" envDefault:"info"`
	JSON  bool   `env:"PROBTEX_LOG_JSON"  envDefault:"false"`
}

func (l *Log) flags(fs *flag.FlagSet) {
	fs.StringVar(&l.Level, "log-level", l.Level, "log level: trace, debug, info, warn or error")
	fs.BoolVar(&l.JSON, "log-json", l.JSON, "write logs as JSON")
}

// Server holds MCP server configuration.
type Server struct {
	Log
	Transport string `env:"PROBTEX_MCP_TRANSPORT"  envDefault:"stdio"`
	HTTPAddr  string `env:"PROBTEX_MCP_HTTP_ADDR"  envDefault:"localhost:8081"`
	Label     string `env:"PROBTEX_EQUATION_LABEL" envDefault:"eq1"`
}

// ParseServer parses environment and flags into a Server config.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}

	cfg.Log.flags(fs)
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Label, "label", cfg.Label, "default equation label for evaluations")
	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}

	switch cfg.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return Server{}, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	return cfg, nil
}

// Output modes of the probtex command.
const (
	ModeInline     = "inline"
	ModeDisplay    = "display"
	ModeEvaluation = "evaluation"
	ModeMIME       = "mime"
)

// CLI holds configuration of the probtex command.
type CLI struct {
	Log
	Label      string `env:"PROBTEX_EQUATION_LABEL" envDefault:"eq1"`
	Mode       string
	Expand     bool
	Substitute bool
	Input      string
}

// ParseCLI parses environment and flags into a CLI config. The optional
// positional argument names the input file; "-" or none reads stdin.
func ParseCLI(fs *flag.FlagSet, args []string) (CLI, error) {
	var cfg CLI
	if err := ParseEnv(&cfg); err != nil {
		return CLI{}, err
	}

	cfg.Log.flags(fs)
	fs.StringVar(&cfg.Label, "label", cfg.Label, "equation label for evaluation mode")
	fs.StringVar(&cfg.Mode, "mode", ModeInline, "output mode: inline, display, evaluation or mime")
	fs.BoolVar(&cfg.Expand, "expand", false, "expand the outer sum (evaluation mode adds it as a step)")
	fs.BoolVar(&cfg.Substitute, "substitute", false, "inline every definition (evaluation mode adds it as a step)")
	if err := fs.Parse(args); err != nil {
		return CLI{}, err
	}

	switch cfg.Mode {
	case ModeInline, ModeDisplay, ModeEvaluation, ModeMIME:
	default:
		return CLI{}, fmt.Errorf("mode %q is not supported", cfg.Mode)
	}
	switch fs.NArg() {
	case 0:
		cfg.Input = "-"
	case 1:
		cfg.Input = fs.Arg(0)
	default:
		return CLI{}, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	return cfg, nil
}
