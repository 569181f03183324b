package synclog

import (
	"antenna-scraper/core/logger"
	"antenna-scraper/core/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Feature exposes the sync log API.
type Feature struct {
	svc *Service
	log *zap.Logger
}

// NewFeature creates the sync log feature.
func NewFeature(svc *Service, log *zap.Logger) *Feature {
	return &Feature{svc: svc, log: log}
}

// Name returns the unique feature name.
func (f *Feature) Name() string { return "synclog" }

// RegisterRoutes attaches the sync log routes.
func (f *Feature) RegisterRoutes(router fiber.Router) error {
	router.Get("/synclogs", f.handleList)
	router.Get("/synclogs/latest", f.handleLatest)
	return nil
}

type syncLogResponse struct {
	ID            int    `json:"id"`
	SyncStartedAt string `json:"sync_started_at"`
	SyncEndedAt   string `json:"sync_ended_at"`
	IsSuccessful  bool   `json:"is_successful"`
}

func toResponse(entry model.SyncLog) syncLogResponse {
	return syncLogResponse{
		ID:            entry.ID,
		SyncStartedAt: entry.SyncStartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		SyncEndedAt:   entry.SyncEndedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		IsSuccessful:  entry.IsSuccessful,
	}
}

func (f *Feature) handleList(c *fiber.Ctx) error {
	l := logger.WithRayID(f.log, c)

	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	entries, err := f.svc.Recent(c.UserContext(), limit)
	if err != nil {
		l.Error("Failed to list sync logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list sync logs"})
	}

	out := make([]syncLogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toResponse(entry))
	}
	return c.JSON(fiber.Map{"results": out})
}

func (f *Feature) handleLatest(c *fiber.Ctx) error {
	l := logger.WithRayID(f.log, c)

	entry, err := f.svc.Latest(c.UserContext())
	if err != nil {
		l.Error("Failed to fetch latest sync log", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch latest sync log"})
	}
	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no sync has run yet"})
	}
	return c.JSON(toResponse(*entry))
}
