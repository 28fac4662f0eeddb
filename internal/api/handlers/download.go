package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/clipfetch/internal/fetch"
	"github.com/your-org/clipfetch/internal/observability"
)

// Fetcher runs the download workflow. Satisfied by *fetch.Manager.
type Fetcher interface {
	Fetch(ctx context.Context, url, requestID string) (*fetch.Result, error)
	ScheduleCleanup(dir string) *time.Timer
}

// ToolChecker verifies the external toolkit is usable. Satisfied by
// *fetch.Toolkit.
type ToolChecker interface {
	Available(ctx context.Context) error
}

type DownloadHandler struct {
	fetcher Fetcher
	toolkit ToolChecker
}

func NewDownloadHandler(fetcher Fetcher, toolkit ToolChecker) *DownloadHandler {
	return &DownloadHandler{fetcher: fetcher, toolkit: toolkit}
}

// Download handles POST /download: form field "url" in, video file out.
func (h *DownloadHandler) Download(c *gin.Context) {
	rawURL := strings.TrimSpace(c.PostForm("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a URL"})
		return
	}

	// An optional client-supplied id lets the page subscribe to its own
	// progress events on /ws before the file comes back.
	requestID := strings.TrimSpace(c.PostForm("request_id"))

	if err := h.toolkit.Available(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "ffmpeg is required but not installed",
		})
		return
	}

	res, err := h.fetcher.Fetch(c.Request.Context(), rawURL, requestID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": messageForError(err)})
		return
	}
	defer h.fetcher.ScheduleCleanup(res.TempDir)

	c.Header("X-Request-ID", res.RequestID)

	if fi, err := os.Stat(res.Path); err == nil {
		observability.DownloadBytes.Add(float64(fi.Size()))
	}

	filename := res.Filename + ".mp4"
	escaped := strings.ReplaceAll(filename, `"`, `\"`)
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, url.PathEscape(filename)))
	c.Header("Content-Type", "video/mp4")
	c.File(res.Path)
}

// statusForError maps classified extraction errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, fetch.ErrPrivateVideo),
		errors.Is(err, fetch.ErrUnavailable),
		errors.Is(err, fetch.ErrAPIAccess),
		errors.Is(err, fetch.ErrUnsupportedURL),
		errors.Is(err, fetch.ErrNoVideo):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, fetch.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// messageForError keeps the caller-facing text stable for known failures
// instead of leaking full yt-dlp stderr.
func messageForError(err error) string {
	switch {
	case errors.Is(err, fetch.ErrPrivateVideo):
		return "this video is private and cannot be downloaded"
	case errors.Is(err, fetch.ErrUnavailable):
		return "this video is unavailable or has been removed"
	case errors.Is(err, fetch.ErrAPIAccess):
		return "API access failed; the video might be region-blocked or private"
	case errors.Is(err, fetch.ErrUnsupportedURL):
		return "this URL is not supported"
	case errors.Is(err, fetch.ErrNoVideo):
		return "no downloadable video was found at this URL"
	case errors.Is(err, fetch.ErrTooManyRequests):
		return "the source site is rate limiting us; try again later"
	case errors.Is(err, fetch.ErrNetwork):
		return "network error while contacting the source site"
	case errors.Is(err, context.DeadlineExceeded):
		return "download timed out"
	default:
		return "download failed: " + err.Error()
	}
}
