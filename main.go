package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stashbox/backend/internal/client"
	"github.com/stashbox/backend/internal/config"
	"github.com/stashbox/backend/internal/db"
	"github.com/stashbox/backend/internal/db/memory"
	"github.com/stashbox/backend/internal/handler"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/service"
)

// @title stashbox API
// @version 1.0
// @description Private notes and bookmarks behind email/password authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

type store interface {
	service.UserStore
	service.NoteStore
	service.BookmarkStore
	handler.Pinger
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, os.Stdout)
	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.UsingDefaultSecret() {
		log.Warn(ctx, "JWT_SECRET is not set, using the built-in development secret")
	}

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	hasher, err := service.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return err
	}
	tokens, err := service.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var fetcher service.MetadataFetcher
	if cfg.Metadata.Enabled {
		fetcher = client.NewMetadataClient(cfg.Metadata)
	}

	gin.SetMode(cfg.Server.GinMode)
	router := handler.NewRouter(handler.RouterDeps{
		Auth:      service.NewAuthService(st, hasher, tokens, log),
		Notes:     service.NewNoteService(st, log),
		Bookmarks: service.NewBookmarkService(st, fetcher, log),
		Store:     st,
		CORS:      cfg.CORS,
		Log:       log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log logging.Logger) (store, func(), error) {
	if cfg.Storage.Backend == config.StorageBackendMemory {
		log.Warn(ctx, "using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	pg := db.NewPostgres(pool)

	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}
