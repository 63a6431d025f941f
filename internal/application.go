package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gomokuhub/gomoku-backend/internal/config"
	"github.com/gomokuhub/gomoku-backend/internal/repository"
	"github.com/gomokuhub/gomoku-backend/internal/repository/storage"
	"github.com/gomokuhub/gomoku-backend/internal/service"
	"github.com/gomokuhub/gomoku-backend/internal/usecase"
	"github.com/gomokuhub/gomoku-backend/transport/rest"
	"github.com/gomokuhub/gomoku-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection, conf.Session.TTL)
	archiveRepo := repository.NewArchiveRepository(sqliteStorage.Connection)
	hints := service.NewHintService()
	sessionManager := usecase.NewSessionManager(logger, sessionRepo, archiveRepo, hints)

	go runSessionSweep(ctx, log, sessionManager, conf.Session.SweepInterval)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, sessionManager)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, sessionManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// runSessionSweep periodically reports how many sessions are in hot storage.
// Expired sessions are evicted by Redis TTL; the sweep keeps the number
// visible in the logs.
func runSessionSweep(ctx context.Context, logger *slog.Logger, sessionManager *usecase.SessionManager, interval time.Duration) {
	log := logger.With("component", "session-sweep")

	if interval <= 0 {
		log.Warn("session sweep disabled", "interval", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := sessionManager.CountActiveSessions(ctx)
			if err != nil {
				log.Error("failed to count active sessions", "error", err)
				continue
			}

			log.Info("active sessions", "count", count)
		}
	}
}
