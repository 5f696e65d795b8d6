// Package logging builds the hclog loggers used by the commands.
package logging

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/njchilds90/probtex/internal/config"
)

// New returns a named logger writing to w at the configured level.
func New(name string, cfg config.Log, w io.Writer) (hclog.Logger, error) {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     w,
		JSONFormat: cfg.JSON,
	}), nil
}
