package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"antenna-scraper/core/config"
	"antenna-scraper/core/database"
	"antenna-scraper/core/loader"
	"antenna-scraper/core/logger"
	"antenna-scraper/core/middleware/auth"
	"antenna-scraper/core/middleware/rayid"
	"antenna-scraper/core/storage"
	"antenna-scraper/core/txn"

	"antenna-scraper/feature/catalog"
	"antenna-scraper/feature/dump"
	"antenna-scraper/feature/register"
	"antenna-scraper/feature/scheduler"
	"antenna-scraper/feature/station"
	"antenna-scraper/feature/stats"
	"antenna-scraper/feature/synclog"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the antenna scraper server",
	Long:  `Starts the HTTP server, initializes all features and runs the background sync.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}
		runner := txn.NewRunner(db, logg)

		// 4. Initialize Storage (only needed for dump uploads)
		var store storage.Client
		if cfg.Dump.Upload {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
		}

		// 5. Build Services
		registerClient := register.NewClient(cfg.Register, logg)
		catalogSvc := catalog.NewService(runner, catalog.NewProviderClient(cfg.Providers), logg)
		stationSvc := station.NewService(runner, logg)
		synclogSvc := synclog.NewService(runner, logg)
		statsSvc := stats.NewService(runner, logg)
		dumpSvc := dump.NewService(runner, store, cfg.Storage.Bucket, cfg.Dump, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		mgr := loader.NewManager()
		mgr.Register(station.NewFeature(stationSvc, logg))
		mgr.Register(synclog.NewFeature(synclogSvc, logg))
		mgr.Register(stats.NewFeature(statsSvc, logg))
		mgr.Register(dump.NewFeature(dumpSvc, logg))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Background Sync
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if cfg.Scheduler.Enabled {
			cycle := scheduler.NewCycle(catalogSvc, registerClient, stationSvc, synclogSvc, logg)
			go scheduler.NewScheduler(cycle, cfg.Scheduler, logg).Run(ctx)
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
