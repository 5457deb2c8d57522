package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent is the permit pool size used when none is configured.
const DefaultMaxConcurrent = 20

// StatusError is returned when the remote answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Response is a fully read remote response.
type Response struct {
	Header http.Header
	Body   []byte
}

// Fetcher performs outbound GETs gated by a fixed-size permit pool. Requests
// above the cap queue until a permit frees up; there is no retry.
type Fetcher struct {
	client    *http.Client
	sem       *semaphore.Weighted
	userAgent string
	logger    *zap.Logger
	inFlight  atomic.Int64
}

// New creates a fetcher from configuration.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: limit,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		sem:       semaphore.NewWeighted(int64(limit)),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// InFlight returns the number of requests currently holding a permit.
func (f *Fetcher) InFlight() int64 {
	return f.inFlight.Load()
}

// Fetch downloads url into dest, creating parent directories as needed. The
// file is replaced atomically so readers never see a partial artifact.
// It returns the number of bytes written.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (int64, error) {
	release, err := f.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	// Errors are logged by the caller.
	resp, err := f.do(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := writeAtomic(dest, resp.Body)
	if err != nil {
		return 0, err
	}

	f.logger.Debug("Fetched artifact", zap.String("url", url), zap.String("path", dest), zap.Int64("bytes", n))
	return n, nil
}

// Get performs a GET under a permit and returns the body and headers.
func (f *Fetcher) Get(ctx context.Context, url string) (*Response, error) {
	release, err := f.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return &Response{Header: resp.Header, Body: body}, nil
}

func (f *Fetcher) acquire(ctx context.Context) (func(), error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire fetch permit: %w", err)
	}
	f.inFlight.Add(1)
	return func() {
		f.inFlight.Add(-1)
		f.sem.Release(1)
	}, nil
}

func (f *Fetcher) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp, nil
}

func writeAtomic(dest string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("replace %s: %w", dest, err)
	}
	return n, nil
}
