package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rowanvale/ticketd/internal/api"
	"github.com/rowanvale/ticketd/internal/config"
	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/rowanvale/ticketd/internal/sqlite"
	"github.com/rowanvale/ticketd/internal/visibility"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(logger)

	projectRepo := sqlite.NewProjectRepository(db, hub)
	ticketRepo := sqlite.NewTicketRepository(db, hub)
	activityRepo := sqlite.NewActivityRepository(db, hub)
	profileRepo := sqlite.NewProfileRepository(db)
	authRepo := sqlite.NewAuthRepository(db, hub)

	profileSvc := profile.NewResolver(profileRepo, logger)
	projectSvc := project.NewService(projectRepo, logger)
	ticketSvc := ticket.NewService(ticketRepo, logger)
	activitySvc := activity.NewService(activityRepo, ticketRepo, profileSvc, logger)
	sessionSvc := session.NewService(authRepo, session.LogSender{Logger: logger}, logger)

	gates := visibility.NewRegistry(cfg.Auth.SuperUserPassphrase)

	handler := api.NewHandler(sessionSvc, projectSvc, ticketSvc, activitySvc, profileSvc, gates)
	server := api.NewServer(handler, hub, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(sessionSvc),
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
