package cmd

import (
	"log"
	"os"

	"antenna-scraper/core/config"
	"antenna-scraper/core/database"
	"antenna-scraper/core/logger"
	"antenna-scraper/core/storage"
	"antenna-scraper/core/txn"

	"antenna-scraper/feature/dump"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dumpOutput string

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Export the store to a SQLite file",
	Long:  `Writes all entities to a standalone SQLite file, optionally publishing it to object storage.`,
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
		runner := txn.NewRunner(db, logg)

		var store storage.Client
		if cfg.Dump.Upload {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
		}
		svc := dump.NewService(runner, store, cfg.Storage.Bucket, cfg.Dump, logg)

		path, err := svc.CreateDump(cmd.Context())
		if err != nil {
			return err
		}

		if cfg.Dump.Upload {
			defer os.Remove(path)
			object, err := svc.Publish(cmd.Context(), path)
			if err != nil {
				return err
			}
			logg.Info("Dump published", zap.String("object", object))
			return nil
		}

		if dumpOutput != "" {
			if err := os.Rename(path, dumpOutput); err != nil {
				return err
			}
			path = dumpOutput
		}
		logg.Info("Dump written", zap.String("path", path))
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "path to write the dump file to")
	RootCmd.AddCommand(dumpCmd)
}
