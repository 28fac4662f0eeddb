package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Toolkit wraps the external ffmpeg/ffprobe binaries used for post-download
// remuxing and stream inspection.
type Toolkit struct {
	FFmpegPath  string
	FFprobePath string
}

func NewToolkit(ffmpegPath, ffprobePath string) *Toolkit {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Toolkit{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// Available reports whether ffmpeg runs at all.
func (t *Toolkit) Available(ctx context.Context) error {
	if err := exec.CommandContext(ctx, t.FFmpegPath, "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}
	return nil
}

// Version returns the first line of `ffmpeg -version`.
func (t *Toolkit) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, t.FFmpegPath, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg version: %w", err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// HasAudioStream probes a file for at least one audio stream. Merged
// downloads occasionally come back video-only; callers log a warning when
// that happens rather than failing the request.
func (t *Toolkit) HasAudioStream(ctx context.Context, path string) (bool, error) {
	out, err := exec.CommandContext(ctx, t.FFprobePath,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return false, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// RemuxToMP4 rewraps a file into an mp4 container without re-encoding.
func (t *Toolkit) RemuxToMP4(ctx context.Context, src, dst string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.FFmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", src,
		"-c", "copy",
		"-movflags", "+faststart",
		dst,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("ffmpeg remux: %s", msg)
	}
	return nil
}
