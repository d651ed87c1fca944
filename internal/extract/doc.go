// Package extract pulls creator identifiers out of a video page's
// recommendation sidebar. The container and link selectors are the only
// site-specific knowledge; everything else works on any parsed document.
package extract
