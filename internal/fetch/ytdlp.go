package fetch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Client wraps the yt-dlp binary.
type Client struct {
	Path string
}

func NewClient(path string) *Client {
	if path == "" {
		path = "yt-dlp"
	}
	return &Client{Path: path}
}

// Available reports whether the binary can be found.
func (c *Client) Available() error {
	if _, err := exec.LookPath(c.Path); err != nil {
		return fmt.Errorf("yt-dlp not found in PATH: %w", err)
	}
	return nil
}

// Version returns the installed yt-dlp version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, c.Path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Update runs yt-dlp's self-updater. Site extractors rot quickly, so
// deployments can opt in to updating at boot.
func (c *Client) Update(ctx context.Context) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, "--update")
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("yt-dlp update: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ExtractInfo fetches metadata for a URL without downloading media.
func (c *Client) ExtractInfo(ctx context.Context, url string, opts Options) (*Info, error) {
	args := append(opts.args(), "--dump-single-json", "--no-warnings", url)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Classify(stderr.String())
	}

	info := &Info{}
	if err := json.Unmarshal(stdout.Bytes(), info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}
	if info.ID == "" && len(info.Formats) == 0 {
		return nil, fmt.Errorf("%w: empty metadata for %s", ErrNoVideo, url)
	}
	return info, nil
}

// Progress is one parsed line of yt-dlp download output.
type Progress struct {
	Percent float64
	Line    string
}

// ProgressFunc receives download progress. It must not block; the reader
// goroutine drops no lines.
type ProgressFunc func(Progress)

// Download fetches the media for a URL into destDir using the template
// "<id>.<ext>". Progress lines from stdout are parsed and forwarded when
// onProgress is non-nil.
func (c *Client) Download(ctx context.Context, url, destDir string, opts Options, onProgress ProgressFunc) error {
	tmpl := filepath.Join(destDir, "%(id)s.%(ext)s")
	args := append(opts.args(),
		"--output", tmpl,
		"--no-warnings",
		"--progress",
		"--newline",
		url,
	)

	cmd := exec.CommandContext(ctx, c.Path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("yt-dlp stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		slog.Debug("yt-dlp", "output", line)
		if onProgress == nil {
			continue
		}
		if p, ok := parseProgressLine(line); ok {
			onProgress(p)
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return Classify(stderr.String())
	}
	return nil
}

// parseProgressLine pulls the percentage out of lines like
// "[download]  42.5% of 10.00MiB at 1.20MiB/s ETA 00:05".
func parseProgressLine(line string) (Progress, bool) {
	if !strings.HasPrefix(line, "[download]") {
		return Progress{}, false
	}
	fields := strings.Fields(line)
	for _, f := range fields[1:] {
		if !strings.HasSuffix(f, "%") {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
		if err != nil {
			return Progress{}, false
		}
		return Progress{Percent: pct, Line: line}, true
	}
	return Progress{}, false
}
