package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/observability"
)

const apiPrefix = "/api/"

// Observability records request metrics and one structured log line per API call.
// Health probes are logged at debug so load balancers do not flood the log.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), apiPrefix) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := strconv.Itoa(status)

		observability.HTTPRequests().WithLabelValues(method, route, statusLabel).Inc()
		observability.HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.HTTPErrors().WithLabelValues(method, route, statusLabel).Inc()
		}

		event := observability.Logger(c.UserContext(), logger).WithLevel(requestLevel(route, status))
		if subject := SubjectFromContext(c); subject != "" {
			event = event.Str("subject", subject)
		}
		event.
			Str("method", method).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Int("response_bytes", len(c.Response().Body())).
			Msg("request completed")

		return err
	}
}

func requestLevel(route string, status int) zerolog.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= fiber.StatusBadRequest:
		return zerolog.WarnLevel
	case strings.HasSuffix(route, "/health"):
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return c.Path()
}
