package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<div id="reco_list">
  <div class="card"><div class="upname"><a href="//space.bilibili.com/123456/">Creator A</a></div></div>
  <div class="card"><div class="upname"><a href="https://space.bilibili.com/789?from=rec">Creator B</a></div></div>
  <div class="card"><div class="upname"><a href="//space.bilibili.com/123456">Creator A again</a></div></div>
  <div class="card"><div class="upname"><a href="https://www.bilibili.com/video/BV1xx411c7mD">not a profile</a></div></div>
  <div class="card"><div class="upname"><a href="//space.bilibili.com/42/dynamic">Creator C</a></div></div>
</div>
</body></html>`

func parseFixture(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestCreators(t *testing.T) {
	doc := parseFixture(t, fixture)

	mids, err := Creators(doc, "https://www.bilibili.com/video/BV1xx411c7mD", DefaultSelectors())
	require.NoError(t, err)

	// 4 profile links, 1 duplicate: 3 unique identifiers in DOM order.
	assert.Equal(t, []string{"123456", "789", "42"}, mids)
}

func TestCreatorsIdempotent(t *testing.T) {
	doc := parseFixture(t, fixture)

	first, err := Creators(doc, "https://www.bilibili.com/video/BV1xx411c7mD", DefaultSelectors())
	require.NoError(t, err)

	second, err := Creators(doc, "https://www.bilibili.com/video/BV1xx411c7mD", DefaultSelectors())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCreatorsContainerMissing(t *testing.T) {
	doc := parseFixture(t, `<html><body><div id="other"></div></body></html>`)

	_, err := Creators(doc, "https://www.bilibili.com/video/BV1xx411c7mD", DefaultSelectors())
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestCreatorsEmptyContainer(t *testing.T) {
	doc := parseFixture(t, `<html><body><div id="reco_list"></div></body></html>`)

	mids, err := Creators(doc, "https://www.bilibili.com/video/BV1xx411c7mD", DefaultSelectors())
	require.NoError(t, err)
	assert.Empty(t, mids)
}

func TestCreatorID(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{"absolute with query", "https://space.bilibili.com/123456?from=rec", "123456", true},
		{"scheme relative", "//space.bilibili.com/98765", "98765", true},
		{"trailing path", "https://space.bilibili.com/42/video", "42", true},
		{"trailing slash", "//space.bilibili.com/7/", "7", true},
		{"no numeric segment", "https://space.bilibili.com/", "", false},
		{"non-numeric segment", "https://space.bilibili.com/fans", "", false},
		{"wrong host", "https://www.bilibili.com/video/BV1xx411c7mD", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CreatorID(tt.href)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge(t *testing.T) {
	base := []string{"1", "2"}

	got := Merge(base, []string{"2", "3", "", "1", "4"})
	assert.Equal(t, []string{"1", "2", "3", "4"}, got)

	assert.Equal(t, []string{"5"}, Merge(nil, []string{"5", "5"}))
}

func TestCreatorsCustomSelectors(t *testing.T) {
	doc := parseFixture(t, `<html><body>
<aside class="rec"><a class="up" href="//space.bilibili.com/11">x</a><a class="up" href="//space.bilibili.com/22">y</a></aside>
</body></html>`)

	mids, err := Creators(doc, "https://www.bilibili.com/video/BV1xx411c7mD", Selectors{
		Container: "aside.rec",
		Link:      "a.up",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"11", "22"}, mids)
}
