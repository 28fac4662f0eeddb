package fetch

import (
	"regexp"
	"strings"
)

const (
	maxFilenameLen  = 100
	defaultFilename = "video"
)

var (
	trailingExtRe  = regexp.MustCompile(`\.[^.]+$`)
	invalidCharsRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	specialCharsRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// Sanitize turns an arbitrary video title or caption into a filename base
// that is safe for Content-Disposition and every common filesystem. The
// result is non-empty and at most 100 runes.
func Sanitize(name string) string {
	name = trailingExtRe.ReplaceAllString(name, "")
	name = invalidCharsRe.ReplaceAllString(name, "")
	name = specialCharsRe.ReplaceAllString(name, " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")
	name = strings.Trim(name, " _")

	if name == "" {
		return defaultFilename
	}

	if runes := []rune(name); len(runes) > maxFilenameLen {
		name = string(runes[:maxFilenameLen])
	}

	name = strings.TrimRight(name, " _")
	if name == "" {
		return defaultFilename
	}
	return name
}
