package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/clipfetch/pkg/dto"
)

// VersionProber reports an external tool's version. Satisfied by
// *fetch.Client and *fetch.Toolkit.
type VersionProber interface {
	Version(ctx context.Context) (string, error)
}

type SystemHandler struct {
	ytdlp     VersionProber
	ffmpeg    VersionProber
	staticDir string

	// Optional backend checks; nil when the backend isn't configured.
	natsPing  func() error
	minioPing func(ctx context.Context) error
}

func NewSystemHandler(ytdlp, ffmpeg VersionProber, staticDir string) *SystemHandler {
	return &SystemHandler{ytdlp: ytdlp, ffmpeg: ffmpeg, staticDir: staticDir}
}

func (h *SystemHandler) WithNATSCheck(ping func() error) *SystemHandler {
	h.natsPing = ping
	return h
}

func (h *SystemHandler) WithMinIOCheck(ping func(ctx context.Context) error) *SystemHandler {
	h.minioPing = ping
	return h
}

// Health handles GET /health: reports whether the external tools the
// service depends on are actually runnable.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	degraded := false

	if v, err := h.ytdlp.Version(ctx); err != nil {
		checks["yt-dlp"] = err.Error()
		degraded = true
	} else {
		checks["yt-dlp"] = v
	}

	if v, err := h.ffmpeg.Version(ctx); err != nil {
		checks["ffmpeg"] = err.Error()
		degraded = true
	} else {
		checks["ffmpeg"] = v
	}

	if h.natsPing != nil {
		if err := h.natsPing(); err != nil {
			checks["nats"] = err.Error()
			degraded = true
		} else {
			checks["nats"] = "ok"
		}
	}

	if h.minioPing != nil {
		if err := h.minioPing(ctx); err != nil {
			checks["minio"] = err.Error()
			degraded = true
		} else {
			checks["minio"] = "ok"
		}
	}

	status := "ok"
	if degraded {
		status = "degraded"
	}

	c.JSON(http.StatusOK, dto.HealthResponse{Status: status, Checks: checks})
}

// AdsTxt serves the advertising declaration file from the static dir.
func (h *SystemHandler) AdsTxt(c *gin.Context) {
	c.File(filepath.Join(h.staticDir, "ads.txt"))
}
