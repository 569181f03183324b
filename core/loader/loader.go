package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Feature is a self-contained application feature that exposes HTTP routes.
type Feature interface {
	// Name returns the unique feature name.
	Name() string
	// RegisterRoutes attaches the feature's routes to the router.
	RegisterRoutes(router fiber.Router) error
}

// Manager collects features and loads them onto the app.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to be loaded.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll registers routes for every feature, stopping at the first failure.
func (m *Manager) LoadAll(app *fiber.App) error {
	for _, f := range m.features {
		if err := f.RegisterRoutes(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
	}
	return nil
}
