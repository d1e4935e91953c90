package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/photogallery-server/internal/testutil"
)

func TestHealth(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name       string
		deps       map[string]Pinger
		path       string
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "liveness ignores dependencies",
			deps:       map[string]Pinger{"database": PingFunc(func(context.Context) error { return down })},
			path:       "/livez",
			wantStatus: fiber.StatusOK,
			wantBody:   map[string]any{"status": "ok"},
		},
		{
			name:       "ready",
			deps:       map[string]Pinger{"database": PingFunc(func(context.Context) error { return nil })},
			path:       "/readyz",
			wantStatus: fiber.StatusOK,
			wantBody:   map[string]any{"status": "ready"},
		},
		{
			name: "dependency down",
			deps: map[string]Pinger{
				"database": PingFunc(func(context.Context) error { return nil }),
				"storage":  PingFunc(func(context.Context) error { return down }),
			},
			path:       "/readyz",
			wantStatus: fiber.StatusServiceUnavailable,
			wantBody:   map[string]any{"status": "unavailable", "unavailable": []any{"storage"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealth(tt.deps, testutil.MakeNoopLogger())
			app := fiber.New()
			app.Get("/livez", h.Liveness)
			app.Get("/readyz", h.Readiness)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
