package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientHeaders(t *testing.T) {
	var gotUA, gotCookie, gotReferer string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		gotReferer = r.Header.Get("Referer")
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent",
		Referer:   "https://www.bilibili.com",
		Cookie:    "SESSDATA=xyz; bili_jct=tok",
	})
	require.NoError(t, err)

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "SESSDATA=xyz; bili_jct=tok", gotCookie)
	assert.Equal(t, "https://www.bilibili.com", gotReferer)
}

func TestCookieHeader(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cookies.txt")
	require.NoError(t, os.WriteFile(file, []byte("\n\nbuvid3=abc\nignored=later\n"), 0644))

	t.Run("inline only", func(t *testing.T) {
		assert.Equal(t, "a=1", CookieHeader(" a=1 ", ""))
	})

	t.Run("file only", func(t *testing.T) {
		assert.Equal(t, "buvid3=abc", CookieHeader("", file))
	})

	t.Run("inline joined with file", func(t *testing.T) {
		assert.Equal(t, "a=1; buvid3=abc", CookieHeader("a=1", file))
	})

	t.Run("missing file falls back to inline", func(t *testing.T) {
		assert.Equal(t, "a=1", CookieHeader("a=1", filepath.Join(dir, "nope.txt")))
	})
}

func TestDoWithRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(srv.Client(), req, 3, time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestDoWithRetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(srv.Client(), req, 2, time.Millisecond)
	require.Error(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
}
