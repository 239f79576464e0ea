package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/agent"
	"github.com/updogjp/infinichess/internal/config"
	"github.com/updogjp/infinichess/internal/engine"
	"github.com/updogjp/infinichess/internal/infrastructure/storage"
	"github.com/updogjp/infinichess/internal/server"
	"github.com/updogjp/infinichess/internal/version"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Флаги и конфиг
	var flags config.Flags
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to a YAML/TOML/JSON config file")
	flag.Int64Var(&flags.Seed, "seed", 0, "World seed (0 keeps config or random)")
	flag.StringVar(&flags.Port, "port", "", "HTTP port (overrides config and env)")
	flag.Parse()

	logger.Log.Info("Starting Infinichess...")
	logger.Log.Info(version.String())

	cfg, err := config.Load(flags)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Log.WithFields(logrus.Fields{
		"seed":       cfg.Engine.Seed,
		"board_size": cfg.Engine.BoardSize,
		"data_dir":   cfg.DataDir,
		"verify":     cfg.Engine.RequireVerification,
	}).Info("🎲 Configuration loaded")

	// 2. Зависимости движка
	deps := engine.Deps{Filter: api.NewWordFilter(cfg.ChatBlocklist...)}
	if cfg.DataDir != "" {
		deps.Store = storage.NewStore(cfg.DataDir)
	}
	if cfg.Engine.RequireVerification {
		guard, err := server.NewReplayGuard(server.AllowAll{}, cfg.Server.ReplayWindow)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to create verifier")
		}
		defer guard.Close()
		deps.Verifier = guard
	}

	game := engine.NewService(cfg.Engine, deps)
	if err := game.Load(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to load world")
	}

	agents := agent.NewController(cfg.Agents, game)

	srv, err := server.New(cfg.Server, game, agents)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create server")
	}

	// 3. Фоновые циклы
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		game.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		agents.Run(ctx)
	}()

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Log.Info("Shutting down...")

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown failed")
	}

	cancel()
	wg.Wait()

	if err := game.Save(); err != nil {
		logger.Log.WithError(err).Error("Final save failed")
	}
	logger.Log.Info("Done.")
}
