package cmd

import (
	"net/http"
	"time"

	"biliblock/internal/bili"
	"biliblock/internal/config"
	"biliblock/internal/ui"
	"biliblock/internal/util"
)

// newClients wires the cookie-carrying HTTP client and the API client on top
// of it. The CSRF token is read once here; a missing token disables every
// mutating call for the rest of the run.
func newClients(cfg *config.Config, log *ui.Logger) (*http.Client, *bili.Client, error) {
	hc, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     30 * time.Second,
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		Referer:     "https://www.bilibili.com",
		Cookie:      cfg.Cookie,
		CookieFile:  cfg.CookieFile,
		DebugLogger: log,
	})
	if err != nil {
		return nil, nil, err
	}

	csrf := bili.CSRFFromCookie(util.CookieHeader(cfg.Cookie, cfg.CookieFile))

	return hc, bili.New(hc, csrf, log), nil
}
