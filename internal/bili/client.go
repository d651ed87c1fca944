package bili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	BaseURL = "https://api.bilibili.com"

	relationModifyPath = "/x/relation/modify"
	navPath            = "/x/web-interface/nav"
	relatedPath        = "/x/web-interface/archive/related"

	// Relation actions understood by the modify endpoint.
	ActBlock   = 5
	ActUnblock = 6

	// Source tag the endpoint expects from the video page context.
	reSrc = 11
)

var ErrUnauthenticated = errors.New("not logged in: bili_jct cookie is missing")

// ProviderError is a non-zero business code returned by the API, with the
// provider's own message passed through.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider rejected the request (code %d)", e.Code)
	}
	return fmt.Sprintf("provider rejected the request (code %d): %s", e.Code, e.Message)
}

// NetworkError covers transport failures, non-2xx statuses and bodies that do
// not parse as the expected JSON envelope.
type NetworkError struct {
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("network error: HTTP %d", e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type Client struct {
	httpClient *http.Client
	baseURL    string
	csrf       string
	log        interface {
		Debugf(string, ...any)
	}
}

// New builds a client around an already cookie-carrying HTTP client. csrf is
// the session credential read once at startup; when empty every mutating call
// fails with ErrUnauthenticated without touching the network.
func New(hc *http.Client, csrf string, log interface{ Debugf(string, ...any) }) *Client {
	return &Client{
		httpClient: hc,
		baseURL:    BaseURL,
		csrf:       csrf,
		log:        log,
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func (c *Client) Authenticated() bool {
	return c.csrf != ""
}

// Block adds the creator to the caller's block list. One POST, at most once,
// no retries.
func (c *Client) Block(ctx context.Context, mid string) error {
	return c.modify(ctx, mid, ActBlock)
}

// Unblock removes the creator from the block list.
func (c *Client) Unblock(ctx context.Context, mid string) error {
	return c.modify(ctx, mid, ActUnblock)
}

func (c *Client) modify(ctx context.Context, mid string, act int) error {
	if c.csrf == "" {
		return ErrUnauthenticated
	}

	form := url.Values{
		"fid":    {mid},
		"act":    {strconv.Itoa(act)},
		"re_src": {strconv.Itoa(reSrc)},
		"jsonp":  {"jsonp"},
		"csrf":   {c.csrf},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+relationModifyPath, strings.NewReader(form.Encode()))
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if c.log != nil {
		c.log.Debugf("relation modify mid=%s act=%d", mid, act)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Status: resp.StatusCode}
	}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return &NetworkError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	if body.Code != 0 {
		return &ProviderError{Code: body.Code, Message: body.Message}
	}

	return nil
}

// NavInfo is the subset of the session probe the CLI reports.
type NavInfo struct {
	IsLogin bool   `json:"isLogin"`
	Uname   string `json:"uname"`
	MID     int64  `json:"mid"`
}

// Nav reports the login state of the attached session cookies.
func (c *Client) Nav(ctx context.Context) (*NavInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+navPath, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Status: resp.StatusCode}
	}

	var body struct {
		Code    int     `json:"code"`
		Message string  `json:"message"`
		Data    NavInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	// The nav endpoint answers code -101 for logged-out sessions but still
	// carries a usable data object.
	if body.Code != 0 && body.Code != -101 {
		return nil, &ProviderError{Code: body.Code, Message: body.Message}
	}

	return &body.Data, nil
}

// Related fetches the related-videos list for a video and returns the owner
// identifiers, in response order. This is the CLI counterpart of expanding
// the sidebar before scraping it.
func (c *Client) Related(ctx context.Context, bvid string) ([]string, error) {
	q := url.Values{"bvid": {bvid}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+relatedPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Status: resp.StatusCode}
	}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    []struct {
			Owner struct {
				MID int64 `json:"mid"`
			} `json:"owner"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	if body.Code != 0 {
		return nil, &ProviderError{Code: body.Code, Message: body.Message}
	}

	out := make([]string, 0, len(body.Data))
	for _, v := range body.Data {
		if v.Owner.MID > 0 {
			out = append(out, strconv.FormatInt(v.Owner.MID, 10))
		}
	}

	return out, nil
}
