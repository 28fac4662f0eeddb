package fetch

import (
	"fmt"
	"strings"
)

// Platform identifies the source site of a media URL. Each platform gets
// its own format selector, referer, header set and retry budget, since the
// sites differ in what they will serve to an anonymous client.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformGeneric   Platform = "generic"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Detect classifies a URL by hostname substring. Unknown hosts fall back
// to the generic profile, which yt-dlp handles with its default extractor.
func Detect(url string) Platform {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(lower, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(lower, "twitter.com"), strings.Contains(lower, "x.com"):
		return PlatformTwitter
	case strings.Contains(lower, "tiktok.com"):
		return PlatformTikTok
	default:
		return PlatformGeneric
	}
}

// Header is an ordered HTTP header pair passed to yt-dlp via --add-header.
type Header struct {
	Name  string
	Value string
}

// Options shapes a single yt-dlp invocation.
type Options struct {
	Platform         Platform
	Format           string
	Referer          string
	Headers          []Header
	ExtractorArgs    string
	Retries          int
	FragmentRetries  int
	ExtractorRetries int
	SocketTimeout    int // seconds
}

// OptionsFor returns the request-shaping profile for a URL. maxHeight caps
// the selected video resolution; zero means 2160.
func OptionsFor(url string, maxHeight int) Options {
	if maxHeight <= 0 {
		maxHeight = 2160
	}

	opts := Options{
		Platform: Detect(url),
		Format:   fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", maxHeight, maxHeight),
		Referer:  "https://www.youtube.com/",
		Headers: []Header{
			{"User-Agent", chromeUA},
			{"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
			{"Accept-Language", "en-US,en;q=0.5"},
			{"Accept-Encoding", "gzip, deflate"},
		},
		Retries:          5,
		FragmentRetries:  5,
		ExtractorRetries: 3,
		SocketTimeout:    30,
	}

	switch opts.Platform {
	case PlatformYouTube:
		// Prefer mp4/m4a pairs so the merge step is a plain remux.
		opts.Format = fmt.Sprintf(
			"bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=%d]+bestaudio/best[height<=%d]/best",
			maxHeight, maxHeight, maxHeight)
		opts.Referer = "https://www.youtube.com/"

	case PlatformInstagram:
		opts.Referer = "https://www.instagram.com/"
		// Instagram serves nothing without the app id and AJAX headers.
		opts.Headers = append(opts.Headers,
			Header{"Referer", "https://www.instagram.com/"},
			Header{"X-IG-App-ID", "936619743392459"},
			Header{"X-Requested-With", "XMLHttpRequest"},
			Header{"X-ASBD-ID", "198387"},
		)
		opts.ExtractorArgs = "instagram:client_id=936619743392459"

	case PlatformTwitter:
		opts.Referer = "https://twitter.com/"
		opts.Headers = append(opts.Headers, Header{"Referer", "https://twitter.com/"})

	case PlatformTikTok:
		opts.Referer = "https://www.tiktok.com/"
		opts.Headers = append(opts.Headers, Header{"Referer", "https://www.tiktok.com/"})
	}

	return opts
}

// args renders the profile as yt-dlp CLI flags. The output template and
// URL are appended by the caller.
func (o Options) args() []string {
	args := []string{
		"--format", o.Format,
		"--no-playlist",
		"--no-colors",
		"--no-check-certificates",
		"--socket-timeout", fmt.Sprintf("%d", o.SocketTimeout),
		"--retries", fmt.Sprintf("%d", o.Retries),
		"--fragment-retries", fmt.Sprintf("%d", o.FragmentRetries),
		"--extractor-retries", fmt.Sprintf("%d", o.ExtractorRetries),
		"--skip-unavailable-fragments",
		"--merge-output-format", "mp4",
		"--remux-video", "mp4",
		"--embed-metadata",
	}
	if o.Referer != "" {
		args = append(args, "--referer", o.Referer)
	}
	for _, h := range o.Headers {
		args = append(args, "--add-header", h.Name+": "+h.Value)
	}
	if o.ExtractorArgs != "" {
		args = append(args, "--extractor-args", o.ExtractorArgs)
	}
	return args
}
