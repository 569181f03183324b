package synclog

import (
	"context"
	"errors"
	"time"

	"antenna-scraper/core/model"
	"antenna-scraper/core/txn"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service records and reads sync cycle outcomes.
type Service struct {
	runner *txn.Runner
	log    *zap.Logger
}

// NewService creates the sync log service.
func NewService(runner *txn.Runner, log *zap.Logger) *Service {
	return &Service{runner: runner, log: log}
}

// Record persists the outcome of one sync cycle.
func (s *Service) Record(ctx context.Context, startedAt, endedAt time.Time, successful bool) error {
	entry := model.SyncLog{
		SyncStartedAt: startedAt,
		SyncEndedAt:   endedAt,
		IsSuccessful:  successful,
	}
	return s.runner.RunDirect(ctx, func(db *gorm.DB) error {
		return db.Create(&entry).Error
	})
}

// Latest returns the most recent sync log entry, or nil when no sync ever ran.
func (s *Service) Latest(ctx context.Context) (*model.SyncLog, error) {
	var entry model.SyncLog
	err := s.runner.RunDirect(ctx, func(db *gorm.DB) error {
		return db.Order("sync_started_at DESC").First(&entry).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.SyncLog, error) {
	var entries []model.SyncLog
	err := s.runner.RunDirect(ctx, func(db *gorm.DB) error {
		return db.Order("sync_started_at DESC").Limit(limit).Find(&entries).Error
	})
	return entries, err
}
