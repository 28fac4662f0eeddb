package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/clipfetch/pkg/dto"
)

func TestHealthOK(t *testing.T) {
	h := NewSystemHandler(
		&stubProber{version: "2024.08.06"},
		&stubProber{version: "ffmpeg version 6.1"},
		t.TempDir(),
	)

	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "2024.08.06", resp.Checks["yt-dlp"])
	assert.Equal(t, "ffmpeg version 6.1", resp.Checks["ffmpeg"])
}

func TestHealthDegraded(t *testing.T) {
	h := NewSystemHandler(
		&stubProber{version: "2024.08.06"},
		&stubProber{err: errors.New("ffmpeg not available: exec: not found")},
		t.TempDir(),
	)

	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Contains(t, resp.Checks["ffmpeg"], "not available")
}

func TestHealthBackendChecks(t *testing.T) {
	h := NewSystemHandler(&stubProber{version: "v"}, &stubProber{version: "v"}, t.TempDir()).
		WithNATSCheck(func() error { return nil }).
		WithMinIOCheck(func(context.Context) error { return errors.New("bucket gone") })

	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Checks["nats"])
	assert.Contains(t, resp.Checks["minio"], "bucket gone")
}

func TestAdsTxt(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "ads.txt"), []byte("placeholder\n"), 0o644))

	h := NewSystemHandler(&stubProber{version: "v"}, &stubProber{version: "v"}, staticDir)
	r := gin.New()
	r.GET("/ads.txt", h.AdsTxt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ads.txt", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "placeholder\n", w.Body.String())
}
