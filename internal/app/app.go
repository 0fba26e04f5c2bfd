// Package app assembles the API surface: it builds the module
// registry from configuration and mounts it, versioned, onto a fiber
// app. Modules never know about the version prefix.
package app

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	contribws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/studiopipe/gateway/internal/config"
	"github.com/studiopipe/gateway/internal/farm"
	"github.com/studiopipe/gateway/internal/handler"
	"github.com/studiopipe/gateway/internal/middleware"
	"github.com/studiopipe/gateway/internal/module"
	"github.com/studiopipe/gateway/internal/service"
	ws "github.com/studiopipe/gateway/internal/websocket"
	"github.com/studiopipe/gateway/pkg/response"
)

// Options carries the externally constructed collaborators. Redis,
// Asynq and Hub are optional; nil disables rate limiting, background
// transfer processing and the websocket stream respectively.
type Options struct {
	Config *config.Config
	Farm   farm.Client
	Redis  *redis.Client
	Asynq  *asynq.Client
	Hub    *ws.Hub
}

// App is the assembled gateway with its services exposed for the
// worker and the agent entry points.
type App struct {
	Fiber     *fiber.App
	Jobs      *service.JobService
	Transfers *service.TransferService
	Users     *service.UserService
	Mounted   []string
}

// New builds the full API surface. Stores are created fresh per call
// so tests get isolated state.
func New(opts Options) (*App, error) {
	cfg := opts.Config

	validate := validator.New()

	farmClient := opts.Farm
	if farmClient == nil {
		farmClient = farm.NewClient(&cfg.Farm)
	}

	jobService := service.NewJobService(farmClient)
	transferService := service.NewTransferService(opts.Asynq)
	transferService.Seed()
	userService := service.NewUserService()
	userService.Seed()

	jobHandler := handler.NewJobHandler(jobService, validate)
	toolsHandler := handler.NewToolsHandler(jobService)
	transferHandler := handler.NewTransferHandler(transferService, validate)
	userHandler := handler.NewUserHandler(userService, validate)

	registry := module.NewRegistry(
		module.Descriptor{
			Name:    "deadline",
			Enabled: cfg.Modules.Deadline.Enabled,
			Build: func() (module.Mountable, error) {
				return module.Func{
					PathPrefix: "/deadline",
					Routes: func(r fiber.Router) {
						r.Get("/jobs", jobHandler.List)
						r.Post("/jobs", jobHandler.Submit)
						r.Get("/jobs/:id", jobHandler.Get)
						r.Delete("/jobs/:id", jobHandler.Cancel)
						r.Get("/status", jobHandler.Status)
						r.Get("/pools", jobHandler.Pools)
						r.Get("/groups", jobHandler.Groups)

						tools := r.Group("/tools")
						tools.Get("/get_all_jobs", toolsHandler.GetAllJobs)
						tools.Get("/get_jobs_by_status/:status", toolsHandler.GetJobsByStatus)
						tools.Get("/get_jobs_by_user/:username", toolsHandler.GetJobsByUser)
						tools.Get("/check_job_status/:id", toolsHandler.CheckJobStatus)
						tools.Get("/get_workload_summary", toolsHandler.GetWorkloadSummary)
						tools.Get("/get_failed_jobs", toolsHandler.GetFailedJobs)
						tools.Get("/get_running_jobs", toolsHandler.GetRunningJobs)
						tools.Get("/count_jobs_by_status", toolsHandler.CountJobsByStatus)
						tools.Get("/list_active_users", toolsHandler.ListActiveUsers)
						tools.Get("/is_system_busy", toolsHandler.IsSystemBusy)
					},
				}, nil
			},
		},
		module.Descriptor{
			Name:    "transfers",
			Enabled: cfg.Modules.Transfers.Enabled,
			Build: func() (module.Mountable, error) {
				return module.Func{
					PathPrefix: "/transfers",
					Routes: func(r fiber.Router) {
						r.Post("/", transferHandler.Create)
						r.Get("/", transferHandler.List)
						r.Get("/:id", transferHandler.Get)
						r.Put("/:id", transferHandler.Update)
						r.Delete("/:id", transferHandler.Delete)
					},
				}, nil
			},
		},
		module.Descriptor{
			Name:    "users",
			Enabled: cfg.Modules.Users.Enabled,
			Build: func() (module.Mountable, error) {
				return module.Func{
					PathPrefix: "/users",
					Routes: func(r fiber.Router) {
						r.Post("/", userHandler.Create)
						r.Get("/", userHandler.List)
						// Fixed path before the dynamic segment.
						r.Get("/me", userHandler.Me)
						r.Get("/:id", userHandler.Get)
						r.Put("/:id", userHandler.Update)
						r.Delete("/:id", userHandler.Delete)
					},
				}, nil
			},
		},
	)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	v1 := fiberApp.Group("/v1")
	if cfg.Auth.Enabled {
		authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
		v1.Use(authMiddleware.Authenticate())
	}
	if opts.Redis != nil && cfg.RateLimit.RequestsPerMin > 0 {
		rateLimiter := middleware.NewRateLimiter(opts.Redis)
		v1.Use(rateLimiter.RequestLimit(cfg.RateLimit.RequestsPerMin))
	}

	mounted, err := registry.MountAll(v1)
	if err != nil {
		return nil, err
	}

	// Root endpoints stay independent of any module.
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "studiopipe-gateway",
			"message": "Pipeline gateway for render farm job queries",
			"modules": mounted,
		})
	})
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"farm":  cfg.Farm.WebserviceURL != "",
				"redis": opts.Redis != nil,
				"queue": opts.Asynq != nil,
			},
		})
	})

	if opts.Hub != nil {
		fiberApp.Use("/ws", func(c *fiber.Ctx) error {
			if contribws.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		hub := opts.Hub
		fiberApp.Get("/ws/transfers/:id", contribws.New(func(c *contribws.Conn) {
			id, err := strconv.Atoi(c.Params("id"))
			if err != nil {
				c.Close()
				return
			}
			hub.HandleConnection(c, id)
		}))
	}

	return &App{
		Fiber:     fiberApp,
		Jobs:      jobService,
		Transfers: transferService,
		Users:     userService,
		Mounted:   mounted,
	}, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, response.CodeServiceError, message, nil)
}
