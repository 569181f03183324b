package stats

import (
	"context"

	"antenna-scraper/core/model"
	"antenna-scraper/core/txn"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service counts what the store currently holds.
type Service struct {
	runner *txn.Runner
	log    *zap.Logger
}

// NewService creates the stats service.
func NewService(runner *txn.Runner, log *zap.Logger) *Service {
	return &Service{runner: runner, log: log}
}

// Stats holds per-entity row counts.
type Stats struct {
	Providers    int64 `json:"providers"`
	Bands        int64 `json:"bands"`
	Carriers     int64 `json:"carriers"`
	BaseStations int64 `json:"base_stations"`
	Antennas     int64 `json:"antennas"`
}

// Collect counts all entity kinds in one pass.
func (s *Service) Collect(ctx context.Context) (Stats, error) {
	var stats Stats

	err := s.runner.RunDirect(ctx, func(db *gorm.DB) error {
		counts := []struct {
			probe any
			dest  *int64
		}{
			{&model.Provider{}, &stats.Providers},
			{&model.Band{}, &stats.Bands},
			{&model.Carrier{}, &stats.Carriers},
			{&model.BaseStation{}, &stats.BaseStations},
			{&model.Antenna{}, &stats.Antennas},
		}
		for _, c := range counts {
			if err := db.Model(c.probe).Count(c.dest).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return stats, err
}
