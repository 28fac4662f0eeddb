package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/clipfetch/internal/config"
	"github.com/your-org/clipfetch/internal/observability"
	"github.com/your-org/clipfetch/pkg/dto"
)

// EventSink receives download lifecycle events. The WebSocket hub and the
// optional NATS producer both implement it.
type EventSink interface {
	PublishDownloadEvent(event *dto.DownloadEvent)
}

// Result is a finished download ready to be streamed to the caller.
type Result struct {
	RequestID string
	Path      string
	Filename  string // sanitized, without extension
	TempDir   string
	Info      *Info
	HasAudio  bool
}

// Manager runs the per-request download workflow: temp directory, metadata
// extraction, download, audio verification, and deferred cleanup.
type Manager struct {
	cfg    config.DownloadConfig
	ytdlp  *Client
	ffmpeg *Toolkit

	mu     sync.Mutex
	active map[string]string // request id -> url
	sinks  []EventSink
}

func NewManager(cfg config.DownloadConfig, ytdlp *Client, ffmpeg *Toolkit) *Manager {
	return &Manager{
		cfg:    cfg,
		ytdlp:  ytdlp,
		ffmpeg: ffmpeg,
		active: make(map[string]string),
	}
}

// AddSink registers an event sink. Not safe to call after requests start.
func (m *Manager) AddSink(s EventSink) {
	if s != nil {
		m.sinks = append(m.sinks, s)
	}
}

func (m *Manager) YTDLP() *Client   { return m.ytdlp }
func (m *Manager) FFmpeg() *Toolkit { return m.ffmpeg }

func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Fetch downloads the video behind url into a fresh temp directory and
// returns the downloaded file. requestID correlates the event feed with
// the caller's WebSocket subscription; when empty a fresh id is generated.
// On success the caller owns the temp dir and must arrange cleanup via
// ScheduleCleanup; on error the dir is already gone.
func (m *Manager) Fetch(ctx context.Context, url, requestID string) (*Result, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	platform := Detect(url)
	opts := OptionsFor(url, m.cfg.MaxHeight)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.cfg.Timeout))
	defer cancel()

	m.mu.Lock()
	m.active[requestID] = url
	m.mu.Unlock()
	observability.ActiveDownloads.Inc()

	defer func() {
		m.mu.Lock()
		delete(m.active, requestID)
		m.mu.Unlock()
		observability.ActiveDownloads.Dec()
	}()

	m.publish(&dto.DownloadEvent{
		Type:      dto.EventDownloadStarted,
		RequestID: requestID,
		URL:       url,
		Platform:  string(platform),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	start := time.Now()
	res, err := m.fetch(ctx, requestID, url, platform, opts)
	if err != nil {
		observability.DownloadsTotal.WithLabelValues(string(platform), "error").Inc()
		m.publish(&dto.DownloadEvent{
			Type:      dto.EventDownloadFailed,
			RequestID: requestID,
			URL:       url,
			Platform:  string(platform),
			Error:     err.Error(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return nil, err
	}

	observability.DownloadsTotal.WithLabelValues(string(platform), "ok").Inc()
	observability.DownloadDuration.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())
	m.publish(&dto.DownloadEvent{
		Type:      dto.EventDownloadCompleted,
		RequestID: requestID,
		URL:       url,
		Platform:  string(platform),
		Filename:  res.Filename + ".mp4",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return res, nil
}

func (m *Manager) fetch(ctx context.Context, requestID, url string, platform Platform, opts Options) (*Result, error) {
	tempDir, err := os.MkdirTemp(m.cfg.TempDir, "clipfetch-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }

	slog.Info("starting download", "request_id", requestID, "url", url, "platform", platform, "temp_dir", tempDir)

	info, err := m.ytdlp.ExtractInfo(ctx, url, opts)
	if err != nil {
		cleanup()
		return nil, err
	}

	videoID := info.ID
	if videoID == "" {
		videoID = uuid.NewString()[:8]
	}

	filename := Sanitize(info.DisplayName())
	if filename == defaultFilename {
		filename = "video_" + videoID
	}

	if len(info.Formats) > 0 {
		slog.Debug("formats available", "request_id", requestID, "count", len(info.Formats))
	}

	onProgress := func(p Progress) {
		m.publish(&dto.DownloadEvent{
			Type:      dto.EventDownloadProgress,
			RequestID: requestID,
			Platform:  string(platform),
			Percent:   p.Percent,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	if err := m.ytdlp.Download(ctx, url, tempDir, opts, onProgress); err != nil {
		cleanup()
		return nil, err
	}

	path, err := m.locateDownload(ctx, tempDir)
	if err != nil {
		cleanup()
		return nil, err
	}

	hasAudio, probeErr := m.ffmpeg.HasAudioStream(ctx, path)
	if probeErr != nil {
		slog.Warn("could not verify audio stream", "request_id", requestID, "error", probeErr)
	} else if !hasAudio {
		slog.Warn("no audio stream in downloaded file", "request_id", requestID, "path", path)
	}

	return &Result{
		RequestID: requestID,
		Path:      path,
		Filename:  filename,
		TempDir:   tempDir,
		Info:      info,
		HasAudio:  hasAudio,
	}, nil
}

// locateDownload finds the downloaded file in dir. mp4-family containers
// are preferred; otherwise the first regular file is remuxed into mp4.
// Some extractors (Instagram in particular) ignore the merge format and
// leave whatever container the CDN served.
func (m *Manager) locateDownload(ctx context.Context, dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read temp dir: %w", err)
	}

	var first string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mp4", ".m4v", ".mov":
			return path, nil
		}
		if first == "" {
			first = path
		}
	}

	if first == "" {
		return "", fmt.Errorf("%w: download produced no file", ErrNoVideo)
	}

	remuxed := strings.TrimSuffix(first, filepath.Ext(first)) + ".mp4"
	if err := m.ffmpeg.RemuxToMP4(ctx, first, remuxed); err != nil {
		slog.Warn("remux failed, serving original container", "path", first, "error", err)
		return first, nil
	}
	return remuxed, nil
}

// ScheduleCleanup removes the temp directory after the configured delay.
// The delay gives slow clients time to finish reading the response before
// the file underneath them disappears.
func (m *Manager) ScheduleCleanup(dir string) *time.Timer {
	return time.AfterFunc(time.Duration(m.cfg.CleanupDelay), func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("cleanup temp dir", "dir", dir, "error", err)
			return
		}
		slog.Debug("cleaned up temp dir", "dir", dir)
	})
}

func (m *Manager) publish(event *dto.DownloadEvent) {
	for _, s := range m.sinks {
		s.PublishDownloadEvent(event)
	}
}
