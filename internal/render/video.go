package render

import (
	"net/url"
	"strings"
)

// EmbedURL converts a YouTube or Vimeo page URL into its player URL.
func EmbedURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.Trim(u.Path, "/")

	switch host {
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id, true
		}
		if rest, ok := strings.CutPrefix(path, "embed/"); ok && rest != "" {
			return "https://www.youtube.com/embed/" + rest, true
		}
		if rest, ok := strings.CutPrefix(path, "shorts/"); ok && rest != "" {
			return "https://www.youtube.com/embed/" + rest, true
		}
	case "youtu.be":
		if path != "" {
			return "https://www.youtube.com/embed/" + path, true
		}
	case "vimeo.com":
		if path != "" && isDigits(path) {
			return "https://player.vimeo.com/video/" + path, true
		}
	case "player.vimeo.com":
		return raw, true
	}
	return "", false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
