package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Desktop browser identity sent to the campaign page
const (
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	AcceptHTML       = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AcceptLanguage   = "en-CA,en-US;q=0.9,en;q=0.8"
)

// PageSource produces the text an extraction mode searches for the amount raised
type PageSource interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// UpstreamStatusError is returned when the campaign page answers with a non-2xx status
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("Upstream returned %d", e.StatusCode)
}

// StaticFetcher downloads raw page markup over plain HTTP
type StaticFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewStaticFetcher creates a fetcher with no client-side timeout;
// the platform request deadline on ctx bounds each fetch
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		httpClient: &http.Client{},
		userAgent:  DesktopUserAgent,
	}
}

// NewStaticFetcherWithClient creates a fetcher on a caller-supplied client
func NewStaticFetcherWithClient(client *http.Client) *StaticFetcher {
	fetcher := NewStaticFetcher()
	fetcher.httpClient = client
	return fetcher
}

// Fetch implements PageSource. There are no retries: a failure goes straight back to the caller.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	f.setBrowserHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upstream response: %w", err)
	}

	return string(body), nil
}

// setBrowserHeaders makes the request look like an ordinary desktop visit
func (f *StaticFetcher) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", AcceptHTML)
	req.Header.Set("Accept-Language", AcceptLanguage)
}

// SetUserAgent overrides the desktop user agent
func (f *StaticFetcher) SetUserAgent(userAgent string) {
	if userAgent != "" {
		f.userAgent = userAgent
	}
}

