package extract

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrContainerNotFound = errors.New("recommendation container not found, the page layout may have changed")

// Selectors locate the recommendation container and the profile links inside it.
type Selectors struct {
	Container string
	Link      string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Container: "#reco_list",
		Link:      ".upname a",
	}
}

const spaceHost = "space.bilibili.com"

var midSegment = regexp.MustCompile(`^[0-9]+$`)

// CreatorID parses a profile URL into a creator identifier. URLs that do not
// point at a numeric profile path are excluded, not errors.
func CreatorID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if !strings.EqualFold(u.Hostname(), spaceHost) {
		return "", false
	}

	seg := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if !midSegment.MatchString(seg) {
		return "", false
	}

	return seg, true
}

// Creators returns the unique creator identifiers linked from the container,
// in DOM order with duplicates collapsed. pageURL resolves relative hrefs.
func Creators(doc *goquery.Document, pageURL string, sel Selectors) ([]string, error) {
	container := doc.Find(sel.Container)
	if container.Length() == 0 {
		return nil, ErrContainerNotFound
	}

	out := []string{}
	seen := map[string]bool{}

	container.Find(sel.Link).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}

		mid, ok := CreatorID(resolveURL(pageURL, href))
		if !ok {
			return
		}
		if seen[mid] {
			return
		}
		seen[mid] = true

		out = append(out, mid)
	})

	return out, nil
}

// Merge appends extra identifiers to base, keeping base's order and dropping
// anything already present.
func Merge(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, mid := range base {
		seen[mid] = true
	}

	out := base
	for _, mid := range extra {
		if mid == "" || seen[mid] {
			continue
		}
		seen[mid] = true
		out = append(out, mid)
	}

	return out
}

func resolveURL(baseURL, href string) string {
	if href == "" {
		return baseURL
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() || strings.HasPrefix(href, "//") {
		return href
	}

	b, err := url.Parse(baseURL)
	if err != nil {
		return href
	}

	return b.ResolveReference(u).String()
}
