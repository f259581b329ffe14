package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/handlers"
	"github.com/yukikurage/task-manager/internal/metrics"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger := zapLogger.Sugar()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warnw("failed to close database", "error", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(context.Background(), db, cfg.DBDriver, logger); err != nil {
		logger.Fatalw("failed to run migrations", "error", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatalw("failed to create session store", "store", cfg.SessionStore, "error", err)
	}

	r := gin.New()
	r.Use(metrics.GinMiddleware)
	r.Use(ginzap.GinzapWithConfig(zapLogger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Skipper: func(c *gin.Context) bool {
			path := c.Request.URL.Path
			return c.Request.Method == http.MethodGet && (path == "/metrics" || path == "/health")
		},
	}))
	r.Use(ginzap.RecoveryWithZap(zapLogger, true))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, newServices(cfg, db, logger), handlers.RouterConfig{
		LoginURL: cfg.LoginURL,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		ServeMetrics: cfg.MetricsPort == "",
	}, logger)

	servers := []*http.Server{{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.MetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler())
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.MetricsPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Infow("server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalw("listen failed", "addr", srv.Addr, "error", err)
			}
		}(srv)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down the server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorw("server was forced to shutdown", "addr", srv.Addr, "error", err)
		}
	}

	logger.Info("server exited")
}

func newLogger(levelStr string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionStore {
	case config.SessionStoreCookie:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,                        // Redis pool size
			"tcp",                     // network type
			redisAddr,                 // Redis address from config
			"",                        // username (empty for default user)
			"",                        // password (empty = no password)
			[]byte(cfg.SessionSecret), // authentication key
		)
		if err != nil {
			return nil, err
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(), // HTTPS only in release mode
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func newServices(cfg *config.Config, db *gorm.DB, logger *zap.SugaredLogger) handlers.Services {
	positionRepo := repository.NewPositionRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Task drafting stays disabled without an API key
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewOpenAIDrafter(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
	}

	return handlers.Services{
		Auth:      services.NewAuthService(employeeRepo),
		Position:  services.NewPositionService(positionRepo, logger),
		TaskType:  services.NewTaskTypeService(taskTypeRepo, logger),
		Employee:  services.NewEmployeeService(employeeRepo, positionRepo, services.NewDefaultPasswordPolicy(), logger),
		Task:      services.NewTaskService(taskRepo, taskTypeRepo, employeeRepo, drafter, logger),
		Dashboard: services.NewDashboardService(employeeRepo, taskRepo),
	}
}
