package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"biliblock/internal/util"

	"github.com/PuerkitoBio/goquery"
)

// FetchDocument retrieves the page and parses it. Page fetches retry; they
// carry no side effects.
func FetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := util.DoWithRetry(client, req, 3, 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", pageURL, resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
