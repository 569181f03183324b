package cmd

import (
	"log"

	"antenna-scraper/core/config"
	"antenna-scraper/core/database"
	"antenna-scraper/core/logger"
	"antenna-scraper/core/txn"

	"antenna-scraper/feature/catalog"
	"antenna-scraper/feature/register"
	"antenna-scraper/feature/scheduler"
	"antenna-scraper/feature/station"
	"antenna-scraper/feature/synclog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one full sync cycle and exit",
	Long:  `Fetches the catalog and the register snapshot, reconciles the store and records the outcome.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		runner := txn.NewRunner(db, logg)

		cycle := scheduler.NewCycle(
			catalog.NewService(runner, catalog.NewProviderClient(cfg.Providers), logg),
			register.NewClient(cfg.Register, logg),
			station.NewService(runner, logg),
			synclog.NewService(runner, logg),
			logg,
		)
		return cycle.Run(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
