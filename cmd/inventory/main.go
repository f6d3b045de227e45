package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	adapthttp "inventory/internal/adapter/http"
	"inventory/internal/adapter/memory"
	"inventory/internal/adapter/postgres"
	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/domain"
)

// store is the persistence surface the services need.
type store interface {
	domain.UserRepository
	domain.ResourceRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := newLogger(cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(format string) *slog.Logger {
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var db store
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on exit")
		db = memory.New()
	} else {
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = pg.Close() }()
		db = pg
	}

	hasher, err := app.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := app.NewTokenCodec([]byte(cfg.Auth.SessionKey))
	if err != nil {
		return err
	}
	authSvc, err := app.NewAuthService(db, hasher, tokens, cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}

	if cfg.Auth.OwnerUsername != "" {
		created, err := authSvc.EnsureOwner(ctx, cfg.Auth.OwnerUsername, cfg.Auth.OwnerPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("owner account created", "username", cfg.Auth.OwnerUsername)
		}
	}

	var resources []*app.ResourceService
	for _, k := range domain.Kinds() {
		resources = append(resources, app.NewResourceService(k, db))
	}

	srv := adapthttp.New(authSvc, app.NewUserService(db), resources, logger, cfg.PublicDir)
	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return fmt.Errorf("oidc provider: %w", err)
		}
		srv.WithSSO(adapthttp.OIDCConfig{
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email"},
			},
		})
		logger.Info("sso enabled", "issuer", cfg.OIDC.Issuer)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Handler(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTP.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}
