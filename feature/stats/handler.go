package stats

import (
	"antenna-scraper/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes the stats API.
type Feature struct {
	svc *Service
	log *zap.Logger
}

// NewFeature creates the stats feature.
func NewFeature(svc *Service, log *zap.Logger) *Feature {
	return &Feature{svc: svc, log: log}
}

// Name returns the unique feature name.
func (f *Feature) Name() string { return "stats" }

// RegisterRoutes attaches the stats routes.
func (f *Feature) RegisterRoutes(router fiber.Router) error {
	router.Get("/stats", f.handleStats)
	return nil
}

func (f *Feature) handleStats(c *fiber.Ctx) error {
	l := logger.WithRayID(f.log, c)

	stats, err := f.svc.Collect(c.UserContext())
	if err != nil {
		l.Error("Failed to collect stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to collect stats"})
	}
	return c.JSON(stats)
}
