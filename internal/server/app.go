// Package server initializes and runs the backend application: it opens
// the database, applies migrations, wires services and HTTP routes, and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/logging"
	"github.com/academy-challenge/backend/internal/server/config"
	"github.com/academy-challenge/backend/internal/server/httpapi"
	"github.com/academy-challenge/backend/internal/server/repositories/repomanager"
	"github.com/academy-challenge/backend/internal/server/services"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	fiberApp *fiber.App
}

func NewApp(cfg *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userService := services.NewUserService(db, rm, cfg)
	commentService := services.NewCommentService(db, rm)

	fiberApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	requireAuth := httpapi.RequireAuth([]byte(cfg.SecretKey), logger)
	requireAdmin := httpapi.RequireAdmin(userService, logger)

	httpapi.RegisterRoutes(fiberApp,
		httpapi.NewAuthHandler(userService, logger),
		httpapi.NewUsersHandler(userService, logger),
		httpapi.NewCommentsHandler(commentService, logger),
		httpapi.NewHealthHandler(db, logger),
		requireAuth,
		requireAdmin,
	)

	return &App{config: cfg, logger: logger, db: db, fiberApp: fiberApp}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the HTTP server and blocks until the context is canceled or
// the listener fails. On cancellation in-flight requests are drained
// before the database handle is closed.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	go func() {
		<-ctx.Done()
		app.logger.Info(context.Background(), "shutting down")
		if err := app.fiberApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
			app.logger.Error(context.Background(), "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "starting HTTP server", "addr", app.config.HTTPAddr)

	err := app.fiberApp.Listen(app.config.HTTPAddr)

	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Error(context.Background(), "db close error", "error", closeErr)
	}

	return err
}
