package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markod/fitlink/internal/catalog"
	"github.com/markod/fitlink/internal/config"
	"github.com/markod/fitlink/internal/database"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/observ"
	postgresrepo "github.com/markod/fitlink/internal/repository/postgres"
	"github.com/markod/fitlink/internal/service"
	"github.com/markod/fitlink/internal/transport/http/handlers"
	"github.com/markod/fitlink/internal/transport/http/middleware"
	"github.com/markod/fitlink/internal/transport/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	partnerRepo := postgresrepo.NewPartnerRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	workoutRepo := postgresrepo.NewWorkoutRepo(pool)
	templateRepo := postgresrepo.NewTemplateRepo(pool)

	// Invalidation bus. With REDIS_URL set, invalidations fan out across
	// instances; without it everything stays in process.
	bus := live.NewBus(logger)
	var (
		pub    live.Publisher = bus
		bridge *live.RedisBridge
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		bridge = live.NewRedisBridge(rdb, bus, logger)
		pub = bridge
		logger.Info("redis bridge enabled")
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	partnerService := service.NewPartnerService(partnerRepo, userRepo, pub, logger)
	messageService := service.NewMessageService(messageRepo, partnerRepo, userRepo, pub, logger)
	workoutService := service.NewWorkoutService(workoutRepo)
	templateService := service.NewTemplateService(templateRepo)
	catalogClient := catalog.NewClient(cfg.CatalogURL, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	partnerHandler := handlers.NewPartnerHandler(partnerService, logger)
	messageHandler := handlers.NewMessageHandler(messageService, logger)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, logger)
	templateHandler := handlers.NewTemplateHandler(templateService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogClient, logger)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Protected - Partners
	mux.Handle("GET /api/v1/partners", auth(http.HandlerFunc(partnerHandler.ListPartners)))
	mux.Handle("DELETE /api/v1/partners/{id}", auth(http.HandlerFunc(partnerHandler.DeletePartnership)))
	mux.Handle("GET /api/v1/partners/requests", auth(http.HandlerFunc(partnerHandler.ListIncomingRequests)))
	mux.Handle("POST /api/v1/partners/requests", auth(http.HandlerFunc(partnerHandler.SendRequest)))
	mux.Handle("POST /api/v1/partners/requests/{id}/accept", auth(http.HandlerFunc(partnerHandler.AcceptRequest)))
	mux.Handle("POST /api/v1/partners/requests/{id}/reject", auth(http.HandlerFunc(partnerHandler.RejectRequest)))

	// Protected - Messages
	mux.Handle("GET /api/v1/partnerships/{id}/messages", auth(http.HandlerFunc(messageHandler.Window)))
	mux.Handle("POST /api/v1/partnerships/{id}/messages", auth(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("GET /api/v1/partnerships/{id}/messages/unread-count", auth(http.HandlerFunc(messageHandler.UnreadCount)))

	// Protected - Workouts
	mux.Handle("GET /api/v1/workouts", auth(http.HandlerFunc(workoutHandler.List)))
	mux.Handle("POST /api/v1/workouts", auth(http.HandlerFunc(workoutHandler.Create)))
	mux.Handle("POST /api/v1/workouts/{id}/complete", auth(http.HandlerFunc(workoutHandler.Complete)))
	mux.Handle("DELETE /api/v1/workouts/{id}", auth(http.HandlerFunc(workoutHandler.Delete)))

	// Protected - Workout templates
	mux.Handle("GET /api/v1/workout-templates", auth(http.HandlerFunc(templateHandler.List)))
	mux.Handle("POST /api/v1/workout-templates", auth(http.HandlerFunc(templateHandler.Create)))
	mux.Handle("PUT /api/v1/workout-templates/{id}", auth(http.HandlerFunc(templateHandler.Update)))
	mux.Handle("DELETE /api/v1/workout-templates/{id}", auth(http.HandlerFunc(templateHandler.Delete)))

	// Protected - Exercise catalog
	mux.Handle("GET /api/v1/catalog/exercises", auth(http.HandlerFunc(catalogHandler.ListExercises)))
	mux.Handle("GET /api/v1/catalog/exercises/{id}", auth(http.HandlerFunc(catalogHandler.GetExercise)))
	mux.Handle("GET /api/v1/catalog/categories", auth(http.HandlerFunc(catalogHandler.Categories)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(bus, pub, userRepo, partnerRepo, messageRepo, cfg.JWTSecret, logger))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(middleware.Logging(logger)(mux)),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bus.Run(ctx)
		return nil
	})
	if bridge != nil {
		g.Go(func() error {
			return bridge.Run(ctx)
		})
	}
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
