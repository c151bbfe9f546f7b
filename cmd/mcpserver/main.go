// Command mcpserver exposes the package registry over the Model Context
// Protocol on stdio, so AI assistants can search stored climate packages,
// read their quality reports, and compare revisions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/registry"
	"github.com/couchcryptid/climate-quality-monitor/internal/query"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	path := os.Getenv("REGISTRY_PATH")
	if path == "" {
		path = "data/registry.db"
	}

	store, err := registry.Open(path)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer store.Close()

	s := server.NewMCPServer(
		"climate-quality-monitor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, tool := range query.Tools(query.NewService(store)) {
		s.AddTool(tool.Definition(), tool.Handle)
	}

	return server.ServeStdio(s)
}
