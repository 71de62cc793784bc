package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/favatis/favatis-backend/pkg/migrate"
)

var (
	cmd     = flag.String("cmd", "up", "migration command: up|down|status|version")
	dir     = flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	version = flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	bootLog := logger.New(logger.Options{ServiceName: "migrate"})
	cfg, err := config.Load()
	if err != nil {
		bootLog.Error(context.Background(), "loading config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "connecting to database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "unwrapping sql handle", err)
		os.Exit(1)
	}

	if err := run(ctx, sqlDB); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sqlDB *sql.DB) error {
	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			return fmt.Errorf("goose %s failed: %w", *cmd, err)
		}
	case "version":
		if *version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			return fmt.Errorf("goose version migrate failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown -cmd value: %s", *cmd)
	}
	return nil
}
