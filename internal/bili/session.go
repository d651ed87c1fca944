package bili

import (
	"net/url"
	"regexp"
	"strings"
)

const csrfCookieName = "bili_jct"

// CSRFFromCookie pulls the anti-forgery token out of a raw Cookie header
// value. Empty result means the session cannot issue mutating calls.
func CSRFFromCookie(cookie string) string {
	for _, part := range strings.Split(cookie, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) != csrfCookieName {
			continue
		}

		v = strings.TrimSpace(v)
		if dec, err := url.QueryUnescape(v); err == nil {
			v = dec
		}
		return v
	}

	return ""
}

var midRe = regexp.MustCompile(`^[0-9]+$`)

// ValidMID reports whether s looks like a creator identifier.
func ValidMID(s string) bool {
	return midRe.MatchString(s)
}

var bvidRe = regexp.MustCompile(`(BV[0-9A-Za-z]{10})`)

// BVIDFromURL extracts the video identifier from a watch-page URL, used to
// query the related-videos endpoint. Empty when the URL has no BV segment.
func BVIDFromURL(raw string) string {
	return bvidRe.FindString(raw)
}
