package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expensetracker/internal"
	"expensetracker/internal/analytics"
	"expensetracker/internal/auth"
	"expensetracker/internal/events"
	"expensetracker/internal/expense"
	expensePostgres "expensetracker/internal/expense/postgres"
	"expensetracker/internal/transport/rest"
	"expensetracker/internal/transport/swagger"
	userPostgres "expensetracker/internal/user/postgres"
	"expensetracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const openapiSpecPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *dependencies) {
	lg := deps.Logger

	bus := events.NewBus(lg)
	registerAuditSubscribers(bus, lg)

	userRepo := userPostgres.NewUserRepository(deps.Gorm)
	expenseRepo := expensePostgres.NewExpenseRepository(deps.Gorm)

	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
		deps.Config.Security.AccessTokenTTL,
		deps.Config.Security.RefreshTokenTTL,
	)

	authService := auth.NewService(userRepo, tokenGen, deps.Config.Security.BCryptCost, lg)
	expenseService := expense.NewService(expenseRepo, bus, deps.Config.Expense.StrictTransitions, lg)
	analyticsService := analytics.NewService(expenseRepo, lg)

	authHandler := auth.NewHandler(authService)
	expenseHandler := expense.NewHandler(expenseService)
	analyticsHandler := analytics.NewHandler(analyticsService)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, authHandler, expenseHandler, analyticsHandler, lg)
}

// registerAuditSubscribers writes lifecycle events to the structured log so
// there is a durable audit trail of who submitted and who decided what.
func registerAuditSubscribers(bus *events.Bus, lg *slog.Logger) {
	audit := lg.With("channel", "audit")

	bus.Subscribe(events.ExpenseSubmitted, func(ctx context.Context, e events.Event) error {
		audit.Info("expense submitted", "event_id", e.EventID(), "data", e.Payload())
		return nil
	})
	bus.Subscribe(events.ExpenseDecided, func(ctx context.Context, e events.Event) error {
		audit.Info("expense decided", "event_id", e.EventID(), "data", e.Payload())
		return nil
	})
}

func initializeDependencies() (*dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	if err := swagger.ValidateSpec(context.Background(), openapiSpecPath); err != nil {
		lg.Warn("openapi spec validation failed, swagger UI may be broken", "error", err)
	}

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
		Logger: lg,
	}, nil
}

// initDB opens one pgx-backed connection pool and hands the same pool to
// GORM, so repositories and the health check share a single resource.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return db, gormDB, nil
}
