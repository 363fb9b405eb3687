package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heleneolivares/portfolio-evolution/internal/config"
	"github.com/heleneolivares/portfolio-evolution/internal/database"
	"github.com/heleneolivares/portfolio-evolution/internal/services"
	"github.com/heleneolivares/portfolio-evolution/internal/store"
)

// app is what the subcommands need from the backing database.
type app struct {
	cfg       *config.Config
	ingestion services.IngestionServicer
	evolution services.EvolutionServicer
	close     func() error
}

type appOpener func() (*app, error)

// openApp loads configuration, connects and migrates the database, and builds
// the services.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	st := store.New(dbManager.DB())
	audit := services.NewAuditService(dbManager.DB())
	return &app{
		cfg:       cfg,
		ingestion: services.NewIngestionService(st, audit, cfg.PortfolioNames, cfg.InitialValue),
		evolution: services.NewEvolutionService(st),
		close:     dbManager.Close,
	}, nil
}

func newRootCmd(open appOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Load portfolio workbooks and inspect portfolio evolution",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(loadCmd(open))
	root.AddCommand(evolutionCmd(open))
	return root
}

// withApp opens the app for the duration of fn.
func withApp(open appOpener, fn func(a *app) error) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if a.close != nil {
			a.close()
		}
	}()
	return fn(a)
}
