package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

func validVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ExtractVideoID extracts the 11-character video id from common YouTube URL
// shapes: watch?v=, youtu.be/, /shorts/, /embed/, or a bare id. It is a
// pure function and returns ErrInvalidInput for anything else.
func ExtractVideoID(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", goerr.Wrap(ErrInvalidInput, "YouTube URL is empty")
	}

	if validVideoID(value) {
		return value, nil
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidInput, "unparseable YouTube URL", goerr.V("url", raw))
	}

	host := strings.ToLower(parsed.Host)
	path := parsed.Path

	if strings.Contains(host, "youtu.be") {
		candidate := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
		if validVideoID(candidate) {
			return candidate, nil
		}
		return "", invalidURL(raw)
	}

	if strings.Contains(host, "youtube.com") {
		if path == "/watch" {
			if candidate := parsed.Query().Get("v"); validVideoID(candidate) {
				return candidate, nil
			}
			return "", invalidURL(raw)
		}
		for _, prefix := range []string{"/shorts/", "/embed/"} {
			if strings.HasPrefix(path, prefix) {
				candidate := strings.SplitN(strings.TrimPrefix(path, prefix), "/", 2)[0]
				if validVideoID(candidate) {
					return candidate, nil
				}
			}
		}
	}

	// Some share URLs put v= on unexpected paths.
	if candidate := parsed.Query().Get("v"); validVideoID(candidate) {
		return candidate, nil
	}

	return "", invalidURL(raw)
}

func invalidURL(raw string) error {
	return goerr.Wrap(ErrInvalidInput,
		"could not extract a video id; use a standard YouTube URL (watch?v=..., youtu.be/..., /shorts/..., /embed/...) or a bare 11-character id",
		goerr.V("url", raw))
}

// FormatTimestamp renders seconds as H:MM:SS when hours are present,
// MM:SS otherwise. Negative values clamp to zero.
func FormatTimestamp(totalSeconds int) string {
	s := totalSeconds
	if s < 0 {
		s = 0
	}
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
