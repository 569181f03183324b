package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray id to and from clients.
const Header = "X-Ray-Id"

// New returns a middleware that assigns every request a ray id, reusing one
// supplied by the caller when present.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
