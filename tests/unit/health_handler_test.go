package unit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/asap-api/internal/config"
	"github.com/noah-isme/asap-api/internal/handler"
)

type response struct {
	Success bool                   `json:"success"`
	Data    handler.HealthResponse `json:"data"`
}

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{
		AppName:       "ASAP AI API",
		AppEnv:        "test",
		AIProvider:    "gemini",
		StorageDriver: "sqlite",
	}

	app := fiber.New()
	app.Get("/api/v1/health", handler.HealthCheck(cfg, handler.HealthProbe{
		Name:  "storage",
		Check: func(context.Context) error { return nil },
	}))

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload response
	err = json.NewDecoder(resp.Body).Decode(&payload)
	assert.NoError(t, err)
	assert.True(t, payload.Success)
	assert.Equal(t, "ok", payload.Data.Status)
	assert.Equal(t, cfg.AppName, payload.Data.Service)
	assert.Equal(t, cfg.AppEnv, payload.Data.Environment)
	assert.Equal(t, "gemini", payload.Data.Provider)
	assert.Equal(t, "sqlite", payload.Data.Storage)
	assert.Equal(t, "ok", payload.Data.Checks["storage"])
	assert.WithinDuration(t, time.Now().UTC(), payload.Data.Timestamp, 2*time.Second)
}

func TestHealthCheckDegraded(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/health", handler.HealthCheck(config.Config{AppName: "ASAP AI API"}, handler.HealthProbe{
		Name:  "storage",
		Check: func(context.Context) error { return errors.New("connection refused") },
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health", nil), -1)
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var payload response
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "degraded", payload.Data.Status)
	assert.Equal(t, "connection refused", payload.Data.Checks["storage"])
}
