package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/damdinovarya/6nimmt/internal/cache"
	"github.com/damdinovarya/6nimmt/internal/config"
	"github.com/damdinovarya/6nimmt/internal/game"
	"github.com/damdinovarya/6nimmt/internal/ws"
)

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using process environment")
	}
	cfg := config.Load()

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.WithField("level", cfg.LogLevel).Warn("unknown log level, staying on info")
	}

	if cfg.RedisAddr != "" {
		if err := cache.InitRedis(cfg.RedisAddr); err != nil {
			logger.WithError(err).Warn("redis unavailable, room action history disabled")
		} else {
			logger.WithField("addr", cfg.RedisAddr).Info("room action history enabled")
		}
	}

	reg := game.NewRegistry(cfg.MaxPlayersPerRoom, cfg.RevealDelay)
	hub := ws.NewHub(reg, logger, cfg.OriginPatterns)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("6nimmt server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
