package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	apperrors "recorder-whisper/internal/app/errors"
)

// Fetcher downloads recorded audio.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, string, error)
}

// HTTPFetcher fetches recordings over HTTP.
type HTTPFetcher struct {
	client   *http.Client
	allowed  []*url.URL
	maxBytes int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithAllowedPrefixes restricts downloads, redirects included, to URLs under
// one of prefixes: same scheme and host, path inside the prefix path. Without
// prefixes any http(s) URL is fetched.
func WithAllowedPrefixes(prefixes ...string) FetcherOption {
	return func(f *HTTPFetcher) {
		for _, p := range prefixes {
			u, err := url.Parse(p)
			if err != nil || u.Host == "" {
				continue
			}
			if !strings.HasSuffix(u.Path, "/") {
				u.Path += "/"
			}
			f.allowed = append(f.allowed, u)
		}
	}
}

// WithMaxBytes fails a download whose body is larger than n bytes.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// NewHTTPFetcher returns a fetcher with the given client timeout. Zero means
// no timeout.
func NewHTTPFetcher(timeout time.Duration, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{client: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(f)
	}
	f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return f.checkURL(req.URL)
	}
	return f
}

// Fetch returns the response body and its declared content type. Any non-2xx
// status is a fetch error.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", apperrors.Fetch(err, "invalid recording URL %q", rawURL)
	}
	if err := f.checkURL(u); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", apperrors.Fetch(err, "invalid recording URL %q", rawURL)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && apperrors.KindOf(urlErr.Err) != apperrors.KindUnknown {
			return nil, "", urlErr.Err
		}
		return nil, "", apperrors.Fetch(err, "failed to download recording")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", apperrors.Fetch(nil, "recording download returned status %d", resp.StatusCode)
	}

	if f.maxBytes > 0 {
		if resp.ContentLength > f.maxBytes {
			resp.Body.Close()
			return nil, "", tooLarge(f.maxBytes)
		}
		return &limitedBody{body: resp.Body, limit: f.maxBytes, remaining: f.maxBytes}, resp.Header.Get("Content-Type"), nil
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (f *HTTPFetcher) checkURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.InvalidField("audio_url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if len(f.allowed) == 0 {
		return nil
	}
	if u.User == nil {
		clean := path.Clean("/" + u.Path)
		for _, a := range f.allowed {
			if u.Scheme == a.Scheme && strings.EqualFold(u.Host, a.Host) && strings.HasPrefix(clean, a.Path) {
				return nil
			}
		}
	}
	return apperrors.InvalidField("audio_url", "not a recording stored by this server")
}

func tooLarge(limit int64) error {
	return apperrors.Fetch(nil, "recording is larger than the %d byte limit", limit)
}

// limitedBody errors once more than limit bytes were read.
type limitedBody struct {
	body      io.ReadCloser
	limit     int64
	remaining int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.body.Read(p)
	if int64(n) > l.remaining {
		return int(l.remaining), tooLarge(l.limit)
	}
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedBody) Close() error {
	return l.body.Close()
}
