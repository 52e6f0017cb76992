// The storefront session agent: owns one credential and one session,
// exposes the session and submission core to UI views over a local
// HTTP API, and talks outward to the storefront backend and the email
// service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gcreations/storefront-agent/internal/api"
	"github.com/gcreations/storefront-agent/internal/api/metrics"
	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
	"github.com/gcreations/storefront-agent/internal/core/service"
	"github.com/gcreations/storefront-agent/internal/infrastructure/backend"
	"github.com/gcreations/storefront-agent/internal/infrastructure/notify"
	"github.com/gcreations/storefront-agent/internal/infrastructure/tokenstore"
	"github.com/gcreations/storefront-agent/internal/pkg/config"
	"github.com/gcreations/storefront-agent/pkg/logger"
)

const hydrateTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildTokenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("token store init failed")
	}

	client := backend.New(cfg.Backend.BaseURL, log)
	session := service.NewSessionService(ctx, store, client, client, log)
	client.OnUnauthorized(func() {
		metrics.SessionInvalidationsTotal.Inc()
		session.Invalidate("credential rejected by backend")
	})

	if session.Current().Status == domain.StatusHydrating {
		hctx, cancel := context.WithTimeout(ctx, hydrateTimeout)
		if err := session.Hydrate(hctx); err != nil {
			metrics.HydrationsTotal.WithLabelValues("failure").Inc()
			log.Warn().Err(err).Msg("startup hydration failed")
		} else {
			metrics.HydrationsTotal.WithLabelValues("success").Inc()
		}
		cancel()
	}

	notifier := notify.NewEmailer(notify.Config{
		Endpoint:   cfg.Email.Endpoint,
		ServiceID:  cfg.Email.ServiceID,
		TemplateID: cfg.Email.TemplateID,
		UserID:     cfg.Email.UserID,
	}, log)
	workflow := service.NewSubmissionService(session, client, notifier, notify.DesignParams(cfg.Email.ToName), log)

	e := api.NewRouter(session, workflow, log)

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend.BaseURL).Msg("agent listening")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("agent stopped")
}

func buildTokenStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, error) {
	switch cfg.TokenStore.Kind {
	case "redis":
		client, err := tokenstore.Connect(ctx, tokenstore.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return tokenstore.NewRedisStore(client, cfg.Redis.Key), nil
	case "file":
		return tokenstore.NewFileStore(cfg.TokenStore.Path), nil
	default:
		return nil, fmt.Errorf("unknown token store kind %q", cfg.TokenStore.Kind)
	}
}
