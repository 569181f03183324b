package dump

import (
	"context"
	"fmt"
	"os"
	"time"

	"antenna-scraper/core/database"
	"antenna-scraper/core/model"
	"antenna-scraper/core/storage"
	"antenna-scraper/core/txn"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Service exports the store to a standalone SQLite file.
type Service struct {
	runner *txn.Runner
	store  storage.Client
	bucket string
	cfg    Config
	log    *zap.Logger
}

// NewService creates the dump service. store may be nil when uploads are
// disabled.
func NewService(runner *txn.Runner, store storage.Client, bucket string, cfg Config, log *zap.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	return &Service{runner: runner, store: store, bucket: bucket, cfg: cfg, log: log}
}

// CreateDump writes all entities to a fresh SQLite file and returns its path.
// The caller owns the file and removes it when done.
func (s *Service) CreateDump(ctx context.Context) (string, error) {
	tmp, err := os.CreateTemp("", "antenna-dump-*.sqlite")
	if err != nil {
		return "", fmt.Errorf("failed to create dump file: %w", err)
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close dump file: %w", err)
	}

	if err := s.fill(ctx, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *Service) fill(ctx context.Context, path string) error {
	dst, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return fmt.Errorf("failed to open dump database: %w", err)
	}
	defer func() {
		if sqlDB, dbErr := dst.DB(); dbErr == nil {
			sqlDB.Close()
		}
	}()

	if err := database.Migrate(dst); err != nil {
		return fmt.Errorf("failed to prepare dump schema: %w", err)
	}

	return s.runner.RunDirect(ctx, func(db *gorm.DB) error {
		// Parents before children so foreign keys stay valid
		if err := copyTable[model.Provider](db, dst, s.cfg.BatchSize); err != nil {
			return err
		}
		if err := copyTable[model.Band](db, dst, s.cfg.BatchSize); err != nil {
			return err
		}
		if err := copyTable[model.Carrier](db, dst, s.cfg.BatchSize); err != nil {
			return err
		}
		if err := copyTable[model.BaseStation](db, dst, s.cfg.BatchSize); err != nil {
			return err
		}
		if err := copyTable[model.Antenna](db, dst, s.cfg.BatchSize); err != nil {
			return err
		}
		return copyTable[model.SyncLog](db, dst, s.cfg.BatchSize)
	})
}

// copyTable streams one entity kind from src into dst in batches.
func copyTable[T any](src, dst *gorm.DB, batchSize int) error {
	var rows []T
	result := src.FindInBatches(&rows, batchSize, func(_ *gorm.DB, _ int) error {
		return dst.Create(&rows).Error
	})
	if result.Error != nil {
		return fmt.Errorf("failed to copy %T rows: %w", rows, result.Error)
	}
	return nil
}

// Publish uploads a dump file to object storage and returns the object name.
func (s *Service) Publish(ctx context.Context, path string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check dump bucket: %w", err)
	}
	if !exists {
		if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create dump bucket: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open dump file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat dump file: %w", err)
	}

	objectName := fmt.Sprintf("antenna-dump-%s.sqlite", time.Now().UTC().Format("20060102-150405"))
	_, err = s.store.PutObject(ctx, s.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/vnd.sqlite3",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload dump: %w", err)
	}

	s.log.Info("Dump uploaded", zap.String("bucket", s.bucket), zap.String("object", objectName))
	return objectName, nil
}
