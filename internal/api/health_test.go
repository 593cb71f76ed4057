package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestLiveness(t *testing.T) {
	h := NewRouter(RouterConfig{Service: &mockService{}, Health: NewHealthHandler(down, down, "test", "v1.2.3")})

	rec := doRequest(t, h, http.MethodGet, "/health/live", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		postgres Check
		redis    Check
		status   int
		overall  string
	}{
		{"all up", up, up, http.StatusOK, "ok"},
		{"redis down", up, down, http.StatusOK, "degraded"},
		{"postgres down", down, up, http.StatusServiceUnavailable, "error"},
		{"both down", down, down, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(RouterConfig{Service: &mockService{}, Health: NewHealthHandler(tt.postgres, tt.redis, "test", "")})

			rec := doRequest(t, h, http.MethodGet, "/health/ready", nil)

			assert.Equal(t, tt.status, rec.Code)
			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.overall, resp.Status)
			assert.Len(t, resp.Dependencies, 2)
		})
	}
}
