package scheduler

import (
	"context"
	"time"

	"antenna-scraper/feature/catalog"
	"antenna-scraper/feature/register"
	"antenna-scraper/feature/station"
	"antenna-scraper/feature/synclog"

	"go.uber.org/zap"
)

// Cycle runs one full sync: catalog first, then the register snapshot, then
// the two-phase station reconciliation. Every cycle is recorded in the sync
// log, successful or not.
type Cycle struct {
	catalog  *catalog.Service
	register *register.Client
	stations *station.Service
	logs     *synclog.Service
	log      *zap.Logger
}

// NewCycle wires one sync cycle.
func NewCycle(
	catalogSvc *catalog.Service,
	registerClient *register.Client,
	stationSvc *station.Service,
	logSvc *synclog.Service,
	log *zap.Logger,
) *Cycle {
	return &Cycle{
		catalog:  catalogSvc,
		register: registerClient,
		stations: stationSvc,
		logs:     logSvc,
		log:      log,
	}
}

// Run executes one sync cycle and records its outcome.
func (c *Cycle) Run(ctx context.Context) error {
	started := time.Now().UTC()
	err := c.run(ctx)
	ended := time.Now().UTC()

	if recErr := c.logs.Record(ctx, started, ended, err == nil); recErr != nil {
		c.log.Error("Failed to record sync outcome", zap.Error(recErr))
	}
	return err
}

func (c *Cycle) run(ctx context.Context) error {
	catalogRes, err := c.catalog.SyncCatalog(ctx)
	if err != nil {
		return err
	}
	c.log.Info("Catalog synced",
		zap.Int64("carriers_added", catalogRes.Carriers.Added),
		zap.Int64("carriers_updated", catalogRes.Carriers.Updated),
		zap.Int64("carriers_deleted", catalogRes.Carriers.Deleted))

	baseStations, err := c.register.GetBaseStations(ctx)
	if err != nil {
		return err
	}
	c.log.Info("Base stations fetched", zap.Int("count", len(baseStations)))

	idsByStation := make(map[int64][]int64, len(baseStations))
	for _, bs := range baseStations {
		idsByStation[bs.ID] = bs.AntennaIDs
	}
	antennas, err := c.register.GetAntennasByBaseStation(ctx, idsByStation)
	if err != nil {
		return err
	}

	stationRes, err := c.stations.SyncBaseStations(ctx, baseStations, antennas)
	if err != nil {
		return err
	}
	c.log.Info("Base stations synced",
		zap.Int64("stations_added", stationRes.BaseStations.Added),
		zap.Int64("stations_updated", stationRes.BaseStations.Updated),
		zap.Int64("stations_deleted", stationRes.BaseStations.Deleted),
		zap.Int64("antennas_added", stationRes.Antennas.Added),
		zap.Int64("antennas_updated", stationRes.Antennas.Updated),
		zap.Int64("antennas_deleted", stationRes.Antennas.Deleted))
	return nil
}

// Scheduler repeats sync cycles at a fixed interval.
type Scheduler struct {
	cycle    *Cycle
	interval time.Duration
	log      *zap.Logger
}

// NewScheduler creates the background loop.
func NewScheduler(cycle *Cycle, cfg Config, log *zap.Logger) *Scheduler {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{cycle: cycle, interval: interval, log: log}
}

// Run executes a cycle immediately and then every interval until ctx ends.
// A failing cycle is logged and the loop keeps going.
func (s *Scheduler) Run(ctx context.Context) {
	if err := s.cycle.Run(ctx); err != nil {
		s.log.Error("Sync cycle failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Background sync stopped")
			return
		case <-ticker.C:
			if err := s.cycle.Run(ctx); err != nil {
				s.log.Error("Sync cycle failed", zap.Error(err))
			}
		}
	}
}
