// Command agent serves the job tool set over MCP stdio so AI agents
// can query the render farm through the same service layer as the
// HTTP API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/studiopipe/gateway/internal/agent"
	"github.com/studiopipe/gateway/internal/config"
	"github.com/studiopipe/gateway/internal/farm"
	"github.com/studiopipe/gateway/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobService := service.NewJobService(farm.NewClient(&cfg.Farm))

	if err := agent.New(jobService).Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
