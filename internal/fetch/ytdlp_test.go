package fetch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantPct float64
		wantOK  bool
	}{
		{"mid download", "[download]  42.5% of 10.00MiB at 1.20MiB/s ETA 00:05", 42.5, true},
		{"complete", "[download] 100% of 10.00MiB in 00:08", 100, true},
		{"start", "[download]   0.0% of ~5.00MiB at Unknown speed ETA Unknown", 0, true},
		{"destination line", "[download] Destination: /tmp/x/abc.mp4", 0, false},
		{"other component", "[Merger] Merging formats into \"abc.mp4\"", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := parseProgressLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantPct, p.Percent, 0.001)
				assert.Equal(t, tt.line, p.Line)
			}
		})
	}
}

func TestExtractInfoTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the binary")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "yt-dlp")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nsleep 5\n"), 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// A timed-out extraction must surface the context error, not a
	// classification of the killed process's empty stderr.
	_, err := NewClient(bin).ExtractInfo(ctx, "https://example.com/v", Options{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInfoDecoding(t *testing.T) {
	raw := `{
		"id": "dQw4w9WgXcQ",
		"title": "Some Video",
		"description": "A caption",
		"duration": 212.5,
		"formats": [
			{"format_id": "137", "ext": "mp4", "resolution": "1920x1080",
			 "height": 1080, "vcodec": "avc1.640028", "acodec": "none",
			 "filesize": 12345678, "tbr": 4400.1}
		]
	}`

	var info Info
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, 212.5, info.Duration)
	require.Len(t, info.Formats, 1)
	assert.Equal(t, "137", info.Formats[0].FormatID)
	assert.Equal(t, 1080, info.Formats[0].Height)
	assert.Equal(t, int64(12345678), info.Formats[0].Filesize)
}

func TestInfoDisplayName(t *testing.T) {
	assert.Equal(t, "caption", (&Info{ID: "x", Title: "title", Description: "caption"}).DisplayName())
	assert.Equal(t, "title", (&Info{ID: "x", Title: "title"}).DisplayName())
	assert.Equal(t, "video_x", (&Info{ID: "x"}).DisplayName())
}
