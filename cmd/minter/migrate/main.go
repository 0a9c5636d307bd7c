package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/migrations/mintdb"
	"github.com/chainsafe/nft-minter/pkg/pgutil"
	mghelper "github.com/chainsafe/nft-minter/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading configuration file: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled {
		fmt.Fprintf(os.Stderr, "database is disabled in %s, nothing to migrate\n", *cfgPath)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Running migrations for mint database", zap.String("database", cfg.Database.Database))

	migrator := migrate.NewMigrator(db, mintdb.Migrations)
	if err := mghelper.RunMigrations(context.Background(), migrator, logger, flag.Args()...); err != nil {
		mghelper.Exitf("%v", err)
	}
}
