package services

import (
	"net/url"
	"strings"
)

var allowedHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
}

// ExtractVideoID returns the video identifier of a youtube.com watch URL
// (the v query parameter) or a youtu.be short link (the first path segment).
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	if !allowedHosts[host] {
		return "", ErrInvalidURL
	}

	if host == "youtu.be" {
		videoID := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")[0]
		if videoID == "" {
			return "", ErrInvalidURL
		}
		return videoID, nil
	}

	if videoID := u.Query().Get("v"); videoID != "" {
		return videoID, nil
	}
	return "", ErrInvalidURL
}

// ValidateYouTubeURL reports whether rawURL is a supported video link.
func ValidateYouTubeURL(rawURL string) bool {
	_, err := ExtractVideoID(rawURL)
	return err == nil
}
