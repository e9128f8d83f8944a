// Package scraper is the best-effort fallback data source against the
// Warcraft Logs website. It mimics a browser: load the report page once to
// pick up the session and XSRF cookies, then issue the AJAX request those
// cookies authorize. The endpoint is undocumented and may break; every
// failure degrades to an empty result.
package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	defaultBase = "https://www.warcraftlogs.com"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

	pageTimeout = 10 * time.Second
	ajaxTimeout = 15 * time.Second

	// Small delay between the page load and the AJAX call.
	ajaxDelay = time.Second
)

type Scraper struct {
	base string
}

func New() *Scraper {
	return &Scraper{base: defaultBase}
}

// NewWithBase points the scraper at an alternate host. Used by tests.
func NewWithBase(base string) *Scraper {
	return &Scraper{base: base}
}

// newSession loads pageURL and returns an http client whose jar carries the
// wcl_session and XSRF-TOKEN cookies. Returns false when either is missing.
func (s *Scraper) newSession(ctx context.Context, pageURL string) (*http.Client, bool) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, false
	}
	client := &http.Client{
		Jar:     jar,
		Timeout: pageTimeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, false
	}

	var hasSession, hasXSRF bool
	for _, cookie := range jar.Cookies(u) {
		switch cookie.Name {
		case "wcl_session":
			hasSession = cookie.Value != ""
		case "XSRF-TOKEN":
			hasXSRF = cookie.Value != ""
		}
	}
	if !hasSession || !hasXSRF {
		return nil, false
	}

	client.Timeout = ajaxTimeout
	return client, true
}

// ajax issues the follow-up request against an endpoint that expects the
// session cookies and XHR headers. Returns the raw body, or nil on failure.
func (s *Scraper) ajax(ctx context.Context, client *http.Client, ajaxURL string, referer string) []byte {
	select {
	case <-time.After(ajaxDelay):
	case <-ctx.Done():
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", ajaxURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", referer)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		sentry.CaptureException(err)
		return nil
	}
	return body
}
