package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StatusError is returned for non-2xx responses that were not retried away.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpx: GET %s: status %d: %s", e.URL, e.StatusCode, snippet(e.Body, 300))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Backoff controls how a Fetcher retries.
type Backoff struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Statuses retried in addition to every 5xx.
	Statuses map[int]bool
}

func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:  4,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  10 * time.Second,
		Statuses: map[int]bool{
			http.StatusTooManyRequests: true,
			http.StatusRequestTimeout:  true,
		},
	}
}

func (b Backoff) normalized() Backoff {
	def := DefaultBackoff()
	if b.Attempts <= 0 {
		b.Attempts = def.Attempts
	}
	if b.BaseDelay <= 0 {
		b.BaseDelay = def.BaseDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = def.MaxDelay
	}
	if b.Statuses == nil {
		b.Statuses = def.Statuses
	}
	return b
}

// delay returns the wait before the given retry (1-based). A positive
// retryAfter from the server wins over the computed backoff, capped at
// MaxDelay.
func (b Backoff) delay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return min(retryAfter, b.MaxDelay)
	}
	d := b.BaseDelay << (attempt - 1)
	if d <= 0 || d > b.MaxDelay {
		d = b.MaxDelay
	}
	return d + time.Duration(rand.Int64N(int64(b.BaseDelay/2)+1))
}

func (b Backoff) retryableStatus(code int) bool {
	return b.Statuses[code] || (code >= 500 && code <= 599)
}

// Fetcher downloads documents over HTTP(S) with retries.
type Fetcher struct {
	Client  *http.Client
	Backoff Backoff
	Header  http.Header
	Log     zerolog.Logger
}

func NewFetcher(timeout time.Duration, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		Client:  &http.Client{Timeout: timeout},
		Backoff: DefaultBackoff(),
		Log:     log,
	}
}

// Get fetches url and returns the full body of the first 2xx response.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	b := f.Backoff.normalized()

	var lastErr error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		body, retryAfter, err := f.once(ctx, client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !f.retryable(err, b) || attempt == b.Attempts {
			break
		}

		wait := b.delay(attempt, retryAfter)
		f.Log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Str("url", url).Msg("retrying fetch")
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) once(ctx context.Context, client *http.Client, url string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpx: build request: %w", err)
	}
	for k, vs := range f.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ParseRetryAfter(resp), &StatusError{URL: url, StatusCode: resp.StatusCode, Body: body}
	}
	return body, 0, nil
}

func (f *Fetcher) retryable(err error, b Backoff) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return b.retryableStatus(se.StatusCode)
	}
	return isTransient(err)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

// ParseRetryAfter reads Retry-After as seconds or an HTTP date.
// Missing, invalid, or past values yield 0.
func ParseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
