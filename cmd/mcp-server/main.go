package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/onco-treatment-selector/internal/config"
	"github.com/onco-treatment-selector/internal/mcp"
)

func main() {
	cfg := config.LoadLiteConfig()

	mcpServer, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}
	defer mcpServer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := mcpServer.Run(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
