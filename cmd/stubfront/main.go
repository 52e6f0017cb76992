// A development stand-in for the remote storefront backend. It keeps
// users in memory and speaks the same wire contract the agent expects,
// so the full login and submission flow can be exercised locally.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gcreations/storefront-agent/internal/pkg/config"
	"github.com/gcreations/storefront-agent/internal/stubfront"
	"github.com/gcreations/storefront-agent/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := stubfront.New(stubfront.Config{
		JWTSecret:     cfg.Stub.JWTSecret,
		AdminUsername: cfg.Stub.AdminUsername,
		AdminPassword: cfg.Stub.AdminPassword,
	}, stubfront.NewUserStore(), log)
	e := srv.Router()

	go func() {
		log.Info().Str("addr", cfg.Stub.Addr).Msg("stubfront listening")
		if err := e.Start(cfg.Stub.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("stubfront stopped")
}
