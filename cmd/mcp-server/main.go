// cmd/mcp-server/main.go — MCP server for probtex
//
// Exposes the renderer as MCP tools over stdio, or over HTTP together with
// the JSON tool-call endpoints.
//
// Usage:
//
//	go run ./cmd/mcp-server -transport stdio
//	go run ./cmd/mcp-server -transport http -http-addr localhost:8081
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/njchilds90/probtex/internal/config"
	"github.com/njchilds90/probtex/internal/httpapi"
	"github.com/njchilds90/probtex/internal/logging"
	"github.com/njchilds90/probtex/internal/mcptools"
)

func main() {
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	// stdout carries the protocol on stdio, so logs always go to stderr.
	logger, err := logging.New("probtex-mcp", cfg.Log, os.Stderr)
	if err != nil {
		config.Exitf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcptools.NewServer(mcptools.Options{Label: cfg.Label, Logger: logger.Named("tools")})

	switch cfg.Transport {
	case config.TransportHTTP:
		err = httpapi.Serve(ctx, cfg.HTTPAddr, httpapi.NewHandler(httpapi.Options{MCP: server, Label: cfg.Label, Logger: logger.Named("http")}), logger)
	default:
		logger.Info("serving on stdio")
		err = server.Run(ctx, &mcp.StdioTransport{})
	}
	if err != nil && ctx.Err() == nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
