package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classified from yt-dlp's stderr. The binary reports
// failures as free text, so classification is substring matching over the
// message; handlers map these to HTTP statuses.
var (
	ErrPrivateVideo    = errors.New("video is private")
	ErrUnavailable     = errors.New("video unavailable")
	ErrAPIAccess       = errors.New("api access failed")
	ErrNetwork         = errors.New("network error")
	ErrTooManyRequests = errors.New("too many requests")
	ErrUnsupportedURL  = errors.New("unsupported url")
	ErrNoVideo         = errors.New("no video found")
)

// classifyRule maps a stderr fragment to a sentinel. Order matters: the
// first match wins, and more specific fragments come first.
var classifyRules = []struct {
	fragment string
	err      error
}{
	{"Private video", ErrPrivateVideo},
	{"This video is private", ErrPrivateVideo},
	{"Video unavailable", ErrUnavailable},
	{"has been removed", ErrUnavailable},
	{"Unable to download API page", ErrAPIAccess},
	{"HTTP Error 429", ErrTooManyRequests},
	{"Too Many Requests", ErrTooManyRequests},
	{"rate-limit reached", ErrTooManyRequests},
	{"Unsupported URL", ErrUnsupportedURL},
	{"is not a valid URL", ErrUnsupportedURL},
	{"getaddrinfo failed", ErrNetwork},
	{"Temporary failure in name resolution", ErrNetwork},
	{"Unable to download webpage", ErrNetwork},
	{"Connection refused", ErrNetwork},
	{"No video formats found", ErrNoVideo},
	{"There is no video in this", ErrNoVideo},
}

// Classify wraps the raw yt-dlp message with the matching sentinel so
// callers can errors.Is against it. Unrecognized messages come back as a
// plain error carrying the text.
func Classify(msg string) error {
	msg = strings.TrimSpace(msg)
	for _, rule := range classifyRules {
		if strings.Contains(msg, rule.fragment) {
			return fmt.Errorf("%w: %s", rule.err, msg)
		}
	}
	return fmt.Errorf("yt-dlp: %s", msg)
}
