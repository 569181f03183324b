package auth

import "github.com/gofiber/fiber/v2"

// Config holds the API key requests must present.
type Config struct {
	ApiKey string
}

// New returns a middleware that rejects requests missing the configured API
// key. An empty key disables the check.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		key := c.Get("X-Api-Key")
		if key == "" {
			key = c.Query("api_key")
		}
		if key != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing api key",
			})
		}
		return c.Next()
	}
}
