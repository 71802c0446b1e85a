// Package content attaches community posts from video platforms to figures.
package content

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Supported platforms.
const (
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
)

var ErrUnsupportedURL = errors.New("unsupported content url")

var (
	youtubeID    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	tiktokPath   = regexp.MustCompile(`^/@[^/]+/video/(\d+)`)
	instagramRe  = regexp.MustCompile(`^/(?:p|reel|reels|tv)/([A-Za-z0-9_-]+)`)
	youtubeShort = regexp.MustCompile(`^/(?:shorts|embed|live)/([^/?#]+)`)
)

// Link is a recognized post URL.
type Link struct {
	Platform   string `json:"platform"`
	ExternalID string `json:"externalId"`
	URL        string `json:"url"`
	EmbedURL   string `json:"embedUrl"`
}

// ParseLink detects the platform of a post URL and derives its embed URL.
func ParseLink(raw string) (*Link, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtube.com", "music.youtube.com":
		id := u.Query().Get("v")
		if m := youtubeShort.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		}
		return youtube(id, raw)
	case "youtu.be":
		return youtube(strings.Trim(u.Path, "/"), raw)
	case "tiktok.com":
		if m := tiktokPath.FindStringSubmatch(u.Path); m != nil {
			return &Link{
				Platform:   PlatformTikTok,
				ExternalID: m[1],
				URL:        raw,
				EmbedURL:   "https://www.tiktok.com/embed/v2/" + m[1],
			}, nil
		}
	case "instagram.com":
		if m := instagramRe.FindStringSubmatch(u.Path); m != nil {
			return &Link{
				Platform:   PlatformInstagram,
				ExternalID: m[1],
				URL:        raw,
				EmbedURL:   "https://www.instagram.com/p/" + m[1] + "/embed",
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
}

func youtube(id, raw string) (*Link, error) {
	if !youtubeID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
	return &Link{
		Platform:   PlatformYouTube,
		ExternalID: id,
		URL:        raw,
		EmbedURL:   "https://www.youtube.com/embed/" + id,
	}, nil
}

// ValidPlatform reports whether p names a supported platform.
func ValidPlatform(p string) bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram:
		return true
	}
	return false
}
