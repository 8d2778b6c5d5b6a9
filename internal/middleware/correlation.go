package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/noah-isme/asap-api/internal/observability"
)

// CorrelationHeader carries the request identifier in both directions.
const CorrelationHeader = "X-Correlation-ID"

const correlationLocal = "correlation_id"

// CorrelationID reuses an inbound X-Correlation-ID or X-Request-ID, minting a UUID
// otherwise, and binds it to the request's user context for services and events.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := firstHeader(c, CorrelationHeader, fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocal, id)
		c.Set(CorrelationHeader, id)
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), id))

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(correlationLocal).(string); ok {
		return id
	}
	return observability.CorrelationID(c.UserContext())
}

func firstHeader(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if value := strings.TrimSpace(c.Get(name)); value != "" {
			return value
		}
	}
	return ""
}
