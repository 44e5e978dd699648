package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// NetworkError reports a failed page retrieval: a transport failure, a
// timeout or a non-2xx response.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Fetcher retrieves section pages. It never retries.
type Fetcher struct {
	client  *resty.Client
	timeout time.Duration
}

// Options configures a Fetcher. Zero values fall back to the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the underlying round tripper, mostly for tests.
	Transport http.RoundTripper
}

// New creates a Fetcher with the specified options.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}

	return &Fetcher{client: client, timeout: opts.Timeout}
}

// Fetch performs a single GET and returns the body as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%s: %s", resp.Status(), responseSnippet(resp.Body())),
		}
	}
	return resp.String(), nil
}

// GetTimeout returns the per-request timeout.
func (f *Fetcher) GetTimeout() time.Duration {
	return f.timeout
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
