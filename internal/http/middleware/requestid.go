package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader propagates request IDs across services.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey stores the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request carries an ID: the incoming X-Request-ID
// when present, a fresh UUID otherwise. The value lands in context locals
// for downstream handlers and is echoed on the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
