package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// DefaultUserAgent is sent with every request; the Trends endpoints reject
// requests without a browser-like agent more often.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) trendreport/1.0"

// ErrUnexpectedStatus is matched by every *StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// StatusError is returned for any non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher with a cookie jar, so cookies handed out by a
// bootstrap request are replayed on later API calls.
func NewFetcher(timeout time.Duration) *Fetcher {
	jar, _ := cookiejar.New(nil) // never fails with nil options
	return &Fetcher{
		client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// NewFetcherWithClient wraps an existing client, mostly for tests.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client, userAgent: DefaultUserAgent}
}

// GetBytes performs a GET and returns the body of a 200 response.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}
