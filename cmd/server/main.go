package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ascentcg/ascent-server-go/internal/config"
	"github.com/ascentcg/ascent-server-go/internal/game"
	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/repository"
	"github.com/ascentcg/ascent-server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Ascent server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	cat, err := catalog.LoadFile(cfg.Game.CardFile)
	if err != nil {
		logger.Fatal("failed to load card catalog",
			zap.String("path", cfg.Game.CardFile),
			zap.Error(err),
		)
	}
	logger.Info("card catalog loaded",
		zap.String("path", cfg.Game.CardFile),
		zap.Int("cards", cat.Size()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store server.ResultStore
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		matchStore, err := repository.NewMatchStore(ctx, db, logger)
		if err != nil {
			logger.Fatal("failed to initialize match store", zap.Error(err))
		}
		store = matchStore
	} else {
		logger.Info("no database configured; match results are not persisted")
	}

	engine := game.NewEngine(cat, cfg.Game.Rules(), logger)
	logger.Info("match engine initialized",
		zap.Int("levels", cfg.Game.Levels),
		zap.Int("base_radius", cfg.Game.BaseRadius),
		zap.Int("turn_limit", cfg.Game.TurnLimit),
	)

	gateway := server.NewGateway(cfg.Server, cfg.Replay, engine, store, logger)
	if err := gateway.Run(ctx); err != nil {
		logger.Fatal("gateway failed", zap.Error(err))
	}

	logger.Info("Ascent server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
