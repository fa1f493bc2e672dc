package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/config"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/httpserver"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/metrics"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if cfg.InsecureSecret() {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, metrics.New(prometheus.NewRegistry()))
	go srv.Janitor(ctx, time.Minute)

	log.Info().Str("port", cfg.Port).
		Strs("difficulties", cfg.Difficulties.Keys()).
		Int("symbols", len(cfg.Game.Palette)).
		Msg("starting memoryrush server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
