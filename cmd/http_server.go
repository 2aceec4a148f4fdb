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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/auth"
	"github.com/statusdesk/statusdesk/internal/configuration"
	configpg "github.com/statusdesk/statusdesk/internal/configuration/postgres"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/eligibility"
	"github.com/statusdesk/statusdesk/internal/realtime"
	"github.com/statusdesk/statusdesk/internal/shift"
	shiftpg "github.com/statusdesk/statusdesk/internal/shift/postgres"
	"github.com/statusdesk/statusdesk/internal/status"
	statuspg "github.com/statusdesk/statusdesk/internal/status/postgres"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
	requestpg "github.com/statusdesk/statusdesk/internal/statusrequest/postgres"
	"github.com/statusdesk/statusdesk/internal/transport/rest"
	"github.com/statusdesk/statusdesk/internal/user"
	userpg "github.com/statusdesk/statusdesk/internal/user/postgres"
	"github.com/statusdesk/statusdesk/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Bridge *realtime.Bridge
	Runner *eligibility.Runner
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go func() {
		if err := deps.Runner.Run(sweepCtx); err != nil && err != context.Canceled {
			deps.Logger.Error("eligibility sweep stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		cancelSweep()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if deps.Bridge != nil {
			if err := deps.Bridge.Close(); err != nil {
				slog.Error("Realtime bridge close error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx connection: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	userRepo := userpg.NewUserRepository(gormDB)
	statusRepo := statuspg.NewStatusRepository(gormDB)
	shiftRepo := shiftpg.NewShiftRepository(gormDB)
	configRepo := configpg.NewConfigurationRepository(gormDB)
	requestRepo := requestpg.NewStatusRequestRepository(gormDB)

	userService := user.NewService(userRepo, eventBus, lg, config.Security.BCryptCost)
	statusService := status.NewService(statusRepo, lg)
	shiftService := shift.NewService(shiftRepo, lg)
	configService := configuration.NewService(configRepo, eventBus, lg)
	requestService := statusrequest.NewService(requestRepo, userRepo, statusService, configService, eventBus, lg)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(userRepo, requestRepo, shiftRepo, tokens, eventBus, lg, config.Security.BCryptCost).
		WithLockoutPolicy(config.Security.MaxFailedAttempts, config.Security.AutoUnlockDuration)

	eligibilityService := eligibility.NewService(userRepo, configService, requestService, eventBus, lg)
	runner := eligibility.NewRunner(eligibilityService, config.Sweep.Interval, lg)
	runner.BindEvents(eventBus)

	var bridge *realtime.Bridge
	var broker rest.Pinger
	if config.Realtime.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Realtime.Addr,
			Password: config.Realtime.Password,
			DB:       config.Realtime.DB,
		})
		bridge = realtime.NewBridge(client, config.Realtime.Channel, lg)
		bridge.BindEvents(eventBus)
		broker = bridge
	}

	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	statusHandler := status.NewHandler(statusService)
	shiftHandler := shift.NewHandler(shiftService)
	configHandler := configuration.NewHandler(configService)
	requestHandler := statusrequest.NewHandler(requestService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, broker, authHandler, authService, userHandler, statusHandler, shiftHandler, configHandler, requestHandler, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Bridge: bridge,
		Runner: runner,
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
