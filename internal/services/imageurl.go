package services

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern       = regexp.MustCompile(`(?i)(https?://[^\s"'();]+)`)
	quotedURLPattern = regexp.MustCompile(`(?i)"((?:https?://)[^"]+)"`)
	drivePathPattern = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)`)
	driveDPattern    = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)
	driveIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)
)

// ExtractImageURL pulls a usable image URL out of an answer cell. Cells
// written by the photo pipeline hold =IMAGE("https://...") formulas;
// older rows sometimes hold a bare link. Drive links are rewritten to
// the in-app photo proxy so the browser never needs drive access.
func ExtractImageURL(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if m := quotedURLPattern.FindStringSubmatch(trimmed); m != nil {
		return toDisplayURL(sanitizeURL(m[1]))
	}
	if m := urlPattern.FindStringSubmatch(trimmed); m != nil {
		return toDisplayURL(sanitizeURL(m[1]))
	}
	return ""
}

func sanitizeURL(raw string) string {
	return strings.TrimRight(raw, `)"';`)
}

func toDisplayURL(raw string) string {
	if id := extractDriveFileID(raw); id != "" {
		return "/api/photos/view/" + id
	}
	return raw
}

func extractDriveFileID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if id := parsed.Query().Get("id"); id != "" && driveIDPattern.MatchString(id) {
		return id
	}
	if m := drivePathPattern.FindStringSubmatch(parsed.Path); m != nil && driveIDPattern.MatchString(m[1]) {
		return m[1]
	}
	if m := driveDPattern.FindStringSubmatch(parsed.Path); m != nil && driveIDPattern.MatchString(m[1]) {
		return m[1]
	}
	return ""
}
