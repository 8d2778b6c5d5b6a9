package observability

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

type correlationKey struct{}

// WithCorrelationID binds a request correlation identifier to ctx. Blank identifiers are ignored.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the identifier bound by WithCorrelationID.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Logger tags base with the correlation identifier carried by ctx, if any.
func Logger(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	logger := base
	if id := CorrelationID(ctx); id != "" {
		logger = base.With().Str("correlation_id", id).Logger()
	}
	return &logger
}
