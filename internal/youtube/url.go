// Package youtube validates YouTube URLs and looks up video metadata.
package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

const videoIDLength = 11

var knownHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

var (
	validURLRE = regexp.MustCompile(`^(https?://)?((www|m)\.)?(youtube\.com|youtu\.be)/.+$`)
	// The id is whatever follows one of the known path markers up to the next separator.
	idSegmentRE = regexp.MustCompile(`^.*((youtu\.be/)|(v/)|(/u/\w/)|(embed/)|(shorts/)|(live/)|(watch\?))\??v?=?([^#&?/]*).*`)
	videoIDRE   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// IsValidURL reports whether raw looks like a YouTube video URL.
func IsValidURL(raw string) bool {
	return validURLRE.MatchString(strings.TrimSpace(raw))
}

// ExtractID returns the 11-character video id embedded in raw.
// URLs on any host other than youtube.com, its www. and m. variants and youtu.be yield nothing.
func ExtractID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(withScheme(raw))
	if err != nil || !knownHosts[strings.ToLower(u.Hostname())] {
		return "", false
	}

	// watch URLs may carry v= after other query parameters.
	if v := u.Query().Get("v"); v != "" && !strings.EqualFold(u.Hostname(), "youtu.be") {
		return checkID(v)
	}

	m := idSegmentRE.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return checkID(m[len(m)-1])
}

// IsValidID reports whether id has the shape of a video id.
func IsValidID(id string) bool {
	_, ok := checkID(id)
	return ok
}

func checkID(id string) (string, bool) {
	if len(id) != videoIDLength || !videoIDRE.MatchString(id) {
		return "", false
	}
	return id, true
}

func withScheme(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
