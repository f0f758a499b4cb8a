package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/socialnet-api/configs"
	"github.com/maheshrc27/socialnet-api/internal/api/handlers"
	"github.com/maheshrc27/socialnet-api/internal/api/middleware"
	job "github.com/maheshrc27/socialnet-api/internal/jobs"
	"github.com/maheshrc27/socialnet-api/internal/migrations"
	"github.com/maheshrc27/socialnet-api/internal/queue"
	"github.com/maheshrc27/socialnet-api/internal/repository"
	"github.com/maheshrc27/socialnet-api/internal/service"
	applog "github.com/maheshrc27/socialnet-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	applog.Init(cfg.AppEnv, cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	if err := migrations.Up(context.Background(), db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	historyRepo := repository.NewPublishHistoryRepository(db)
	transactor := repository.NewTransactor(db)

	// The asynq wake-up path and idempotency keys both need redis; without
	// it the cron sweep alone publishes due posts.
	var (
		scheduler   service.PublishScheduler
		asynqClient *asynq.Client
		redisClient *redis.Client
	)
	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	if cfg.RedisURI != "" {
		asynqClient = asynq.NewClient(redisConn)
		defer asynqClient.Close()
		scheduler = queue.NewScheduler(asynqClient)

		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		defer redisClient.Close()
	}

	scheduledPostService := service.NewScheduledPostService(
		transactor, scheduledPostRepo, postRepo, userRepo, historyRepo, scheduler, cfg.SweepConcurrency)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", "path", c.Path(), "error", err)
				return c.Status(code).JSON(fiber.Map{"error": "internal server error", "code": "storage_failure"})
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderIdempotencyKey,
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// health and metrics are registered above so they bypass auth
	api := app.Group("")
	if cfg.SecretKey != "" {
		authMiddleware := middleware.NewAuthMiddleware(*cfg)
		api.Use(authMiddleware.AuthMiddleware())
	} else {
		slog.Warn("SECRET_KEY not set, api routes are unauthenticated")
	}
	if redisClient != nil {
		api.Use(middleware.Idempotency(middleware.NewRedisIdempotencyStore(redisClient), cfg.IdempotencyTTL))
	}

	handlers.NewScheduledPostHandler(scheduledPostService).Register(api)
	handlers.NewUserHandler(userService, postService).Register(api)

	if cfg.R2.Enabled() {
		r2Service, err := service.NewR2Service(context.Background(), cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure object storage: %v", err)
		}
		handlers.NewMediaHandler(service.NewMediaService(r2Service, cfg.R2.PublicURL)).Register(api)
	} else {
		slog.Info("R2 not configured, media uploads disabled")
	}

	// cron jobs
	sweepJob := job.NewSweepJob(scheduledPostService, cfg.SweepInterval)

	c := cron.New()
	if err := sweepJob.Schedule(c, cfg.SweepInterval); err != nil {
		log.Fatalf("Failed to schedule sweep job: %v", err)
	}
	c.Start()
	go sweepJob.Run()

	//queue
	var asynqServer *asynq.Server
	if asynqClient != nil {
		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.SweepConcurrency,
		})
		queueW := queue.NewQueue(scheduledPostService)

		go func() {
			slog.Info("Starting the Asynq server...")
			if err := asynqServer.Run(queueW.Mux()); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info(fmt.Sprintf("Server is running on http://localhost:%s", cfg.Port))

	gracefulShutdown(app, c, asynqServer)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, c *cron.Cron, asynqServer *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("Shutting down server...")

	c.Stop()
	if asynqServer != nil {
		asynqServer.Shutdown()
	}

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("Failed to shut down server", "error", err)
	}

	slog.Info("Server shutdown complete.")
}
