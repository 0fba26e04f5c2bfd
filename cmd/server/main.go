package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/studiopipe/gateway/internal/app"
	"github.com/studiopipe/gateway/internal/config"
	"github.com/studiopipe/gateway/internal/service"
	ws "github.com/studiopipe/gateway/internal/websocket"
	"github.com/studiopipe/gateway/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection; the gateway stays up without it but loses
	// rate limiting and background transfer processing.
	ctx := context.Background()
	redisAvailable := true
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
		redisAvailable = false
	}

	var asynqClient *asynq.Client
	if redisAvailable {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer asynqClient.Close()
	}

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Assemble the API surface
	opts := app.Options{
		Config: cfg,
		Asynq:  asynqClient,
		Hub:    hub,
	}
	if redisAvailable {
		opts.Redis = redisClient
	}

	gateway, err := app.New(opts)
	if err != nil {
		log.Fatalf("Failed to assemble API: %v", err)
	}
	log.Printf("Mounted modules: %v", gateway.Mounted)

	// Start Asynq worker server
	if redisAvailable {
		go startWorkerServer(cfg, gateway, hub)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := gateway.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := gateway.Fiber.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, gateway *app.App, hub *ws.Hub) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
		},
	)

	transferWorker := worker.NewTransferWorker(gateway.Transfers, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeTransfer, transferWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}
