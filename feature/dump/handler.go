package dump

import (
	"os"

	"antenna-scraper/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes the dump API.
type Feature struct {
	svc *Service
	log *zap.Logger
}

// NewFeature creates the dump feature.
func NewFeature(svc *Service, log *zap.Logger) *Feature {
	return &Feature{svc: svc, log: log}
}

// Name returns the unique feature name.
func (f *Feature) Name() string { return "dump" }

// RegisterRoutes attaches the dump routes.
func (f *Feature) RegisterRoutes(router fiber.Router) error {
	router.Get("/dump", f.handleDownload)
	router.Post("/dump/publish", f.handlePublish)
	return nil
}

func (f *Feature) handleDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(f.log, c)

	path, err := f.svc.CreateDump(c.UserContext())
	if err != nil {
		l.Error("Failed to create dump", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create dump"})
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		l.Error("Failed to read dump", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read dump"})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.sqlite3")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="antennas.sqlite"`)
	return c.Send(data)
}

func (f *Feature) handlePublish(c *fiber.Ctx) error {
	l := logger.WithRayID(f.log, c)

	path, err := f.svc.CreateDump(c.UserContext())
	if err != nil {
		l.Error("Failed to create dump", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create dump"})
	}
	defer os.Remove(path)

	objectName, err := f.svc.Publish(c.UserContext(), path)
	if err != nil {
		l.Error("Failed to publish dump", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to publish dump"})
	}

	return c.JSON(fiber.Map{"object": objectName})
}
