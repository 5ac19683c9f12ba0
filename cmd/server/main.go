// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/flipout/server/internal/auth"
	"github.com/flipout/server/internal/cache"
	"github.com/flipout/server/internal/config"
	"github.com/flipout/server/internal/game"
	"github.com/flipout/server/internal/ws"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed loading configuration")
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithError(err).Warnf("invalid log level %q, using info", cfg.LogLevel)
	}

	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.InitRedis(ctx, cfg.RedisAddr); err != nil {
			log.WithError(err).Warn("redis unavailable, action history disabled")
		} else {
			log.Infof("publishing action history to redis at %s", cfg.RedisAddr)
		}
		cancel()
	}

	registry := game.NewRegistry(log)
	tokens := auth.NewTokenIssuer(cfg.ResumeSecret, 0)
	if tokens == nil {
		log.Warn("FLIPOUT_RESUME_SECRET not set, reconnects are trusted by player id alone")
	}
	socket := ws.NewServer(registry, tokens, log)

	mux := http.NewServeMux()
	mux.Handle("/ws", socket)
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Infof("flip out server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
