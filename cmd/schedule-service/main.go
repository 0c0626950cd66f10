package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/consumers"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/events"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/handler"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/lock"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/repository"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/service"
	"github.com/shiftboard/shiftboard-backend/pkg/config"
	"github.com/shiftboard/shiftboard-backend/pkg/database"
	"github.com/shiftboard/shiftboard-backend/pkg/httputil"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
	"github.com/shiftboard/shiftboard-backend/pkg/messaging"
)

const serviceName = "schedule-service"

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment).SetLevel(cfg.Server.LogLevel)
	log.Info().Msg("starting Schedule Service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		log.Info().Msg("schema applied")
	}

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	if err := rmq.DeclareDeadLetterQueue(serviceName); err != nil {
		log.Fatal().Err(err).Msg("failed to declare dead letter queue")
	}
	go rmq.Watch(ctx)

	// Initialize event publisher
	publisher, err := events.NewScheduleEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Write locks: Redis when configured so several replicas serialize
	// together, otherwise in-process.
	var locker lock.Locker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to Redis")
		}
		locker = lock.NewRedisLocker(rdb, lock.RedisOptions{
			TTL:   cfg.Schedule.LockTTL,
			Wait:  cfg.Schedule.LockWait,
			Retry: cfg.Schedule.LockRetry,
		}, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using Redis write locks")
	} else {
		locker = lock.NewLocalLocker(cfg.Schedule.LockWait)
		log.Info().Msg("using in-process write locks")
	}

	// Initialize repositories
	shiftRepo := repository.NewShiftRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	corporationRepo := repository.NewCorporationRepository(db)

	// Initialize services
	windows := service.NewWindowResolver(employeeRepo, corporationRepo, log)
	shiftService := service.NewShiftService(shiftRepo, windows, locker, publisher, log)
	weekly := service.NewWeeklyAggregator(shiftRepo, employeeRepo, corporationRepo, log)
	staffing := service.NewStaffingAggregator(shiftRepo, employeeRepo, log)

	// Initialize handlers
	scheduleHandler := handler.NewScheduleHandler(shiftService, weekly, staffing, log)

	// Start approval event consumer
	approvalConsumer, err := consumers.NewApprovalEventConsumer(rmq, shiftService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create approval event consumer")
	}
	if err := approvalConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start approval event consumer")
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(correlationID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", httputil.HeaderUserID, httputil.HeaderUserRole},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Group(func(r chi.Router) {
		if cfg.Server.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.Server.RateLimit, time.Minute))
		}
		r.Use(httputil.ActorMiddleware)
		r.Route("/api/v1/schedule", scheduleHandler.RegisterRoutes)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// correlationID carries the request id into published events
func correlationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := messaging.WithCorrelationID(r.Context(), httputil.GetRequestID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
