package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stackz/backend/internal/config"
	"github.com/stackz/backend/internal/database"
	"github.com/stackz/backend/internal/database/repository"
	"github.com/stackz/backend/internal/dispatch"
	"github.com/stackz/backend/internal/service"
	"github.com/stackz/backend/internal/testdata"
)

func main() {
	seed := flag.Bool("seed", false, "insert sample data after migrating")
	flag.Parse()

	// stdout carries the NDJSON protocol, so logs go to stderr
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("mkdir db dir")
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	catRepo := repository.NewCategoryRepo(db)
	budgetRepo := repository.NewBudgetRepo(db)
	snapRepo := repository.NewSnapshotRepo(db)
	historyRepo := repository.NewBalanceHistoryRepo(db)
	prefRepo := repository.NewPreferenceRepo(db)
	suggestRepo := repository.NewSuggestionRepo(db)

	if *seed {
		if err := testdata.Seed(ctx, testdata.Repos{Accounts: acctRepo, Transactions: txRepo}); err != nil {
			log.Fatal().Err(err).Msg("seed sample data")
		}
		log.Info().Msg("sample data inserted")
	}

	registry := dispatch.NewRegistry(dispatch.Deps{
		Transactions: txRepo,
		Budgets:      budgetRepo,
		History:      historyRepo,
		Suggestions:  suggestRepo,
		Accounts:     &service.Accounts{Accounts: acctRepo, Transactions: txRepo, History: historyRepo},
		NetWorth:     &service.NetWorth{Accounts: acctRepo, Snapshots: snapRepo},
		Categories:   &service.Categories{Categories: catRepo},
		Reports:      &service.Reports{Transactions: txRepo},
		Dedupe:       &service.Dedupe{Transactions: txRepo},
		Preferences:  &service.Preferences{Prefs: prefRepo},
		Maintenance:  &service.Maintenance{DB: db},
	})

	log.Info().Str("db", cfg.Database.Path).Int("commands", len(registry.Commands())).Msg("ready")

	if err := dispatch.Serve(ctx, registry, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
