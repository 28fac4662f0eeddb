package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.youtube.com/watch?v=abc123", PlatformYouTube},
		{"https://youtu.be/abc123", PlatformYouTube},
		{"https://www.instagram.com/reel/xyz/", PlatformInstagram},
		{"https://twitter.com/user/status/1", PlatformTwitter},
		{"https://x.com/user/status/1", PlatformTwitter},
		{"https://www.tiktok.com/@user/video/1", PlatformTikTok},
		{"https://vimeo.com/12345", PlatformGeneric},
		{"https://example.com/video.mp4", PlatformGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.url))
		})
	}
}

func TestOptionsForYouTube(t *testing.T) {
	opts := OptionsFor("https://www.youtube.com/watch?v=abc", 2160)

	assert.Equal(t, PlatformYouTube, opts.Platform)
	assert.Equal(t, "https://www.youtube.com/", opts.Referer)
	// YouTube prefers mp4/m4a pairs to keep the merge a remux.
	assert.Contains(t, opts.Format, "[ext=mp4]")
	assert.Contains(t, opts.Format, "[height<=2160]")
}

func TestOptionsForInstagram(t *testing.T) {
	opts := OptionsFor("https://www.instagram.com/reel/xyz/", 0)

	assert.Equal(t, PlatformInstagram, opts.Platform)
	assert.Equal(t, "https://www.instagram.com/", opts.Referer)
	assert.NotEmpty(t, opts.ExtractorArgs)

	var names []string
	for _, h := range opts.Headers {
		names = append(names, h.Name)
	}
	assert.Contains(t, names, "X-IG-App-ID")
	assert.Contains(t, names, "X-Requested-With")
}

func TestOptionsForMaxHeightDefault(t *testing.T) {
	opts := OptionsFor("https://example.com/v", 0)
	assert.Contains(t, opts.Format, "height<=2160")

	opts = OptionsFor("https://example.com/v", 1080)
	assert.Contains(t, opts.Format, "height<=1080")
	assert.NotContains(t, opts.Format, "2160")
}

func TestOptionsRetryBudget(t *testing.T) {
	opts := OptionsFor("https://twitter.com/u/status/1", 2160)

	assert.Equal(t, 5, opts.Retries)
	assert.Equal(t, 5, opts.FragmentRetries)
	assert.Equal(t, 3, opts.ExtractorRetries)
	assert.Equal(t, 30, opts.SocketTimeout)
}

func TestOptionsArgs(t *testing.T) {
	opts := OptionsFor("https://www.youtube.com/watch?v=abc", 2160)
	args := opts.args()

	require.NotEmpty(t, args)
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "--merge-output-format")
	assert.Contains(t, args, "--referer")

	// every header surfaces as an --add-header pair
	var headerFlags int
	for _, a := range args {
		if a == "--add-header" {
			headerFlags++
		}
	}
	assert.Equal(t, len(opts.Headers), headerFlags)

	// flags precede values, so the slice length is even-ish sane; the
	// format selector must directly follow --format
	for i, a := range args {
		if a == "--format" {
			require.Less(t, i+1, len(args))
			assert.Equal(t, opts.Format, args[i+1])
		}
	}
}
