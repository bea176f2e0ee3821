package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jpalmerr/sitepulse/internal/store"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion when probing many endpoints
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second // conservative: matches common ALB defaults
)

// Prober performs a single reachability check of an endpoint.
//
// Implementations never return an error: every failure is reported as an
// unsuccessful [store.ProbeOutcome]. [Scheduler] recovers panics raised by
// custom implementations.
type Prober interface {
	Probe(ctx context.Context, url string, timeout time.Duration) store.ProbeOutcome
}

// Client is the HTTP [Prober] used by the scheduler.
//
// Client uses per-request timeouts via context rather than a global timeout,
// so the timeout can change between sweeps without rebuilding the transport.
type Client struct {
	httpClient *http.Client
	maxBody    int64
}

// NewClient creates a new probing [Client].
//
// The client is configured with connection pooling limits to prevent resource
// exhaustion when probing many endpoints. Timeouts are applied per-request via
// the context parameter in [Client.Probe], not as a global client timeout.
//
// Connection pooling configuration:
//   - MaxIdleConns: 100 total idle connections
//   - MaxIdleConnsPerHost: 10 idle connections per host
//   - MaxConnsPerHost: 10 concurrent connections per host
//   - IdleConnTimeout: 60 seconds before closing idle connections
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
				DisableKeepAlives:   false, // explicitly enable connection reuse
			},
		},
		maxBody: maxResponseBodySize,
	}
}

// Probe issues one GET request to url and reports whether any response
// arrived before timeout.
//
// The status code is not inspected: a 500 is as reachable as a 200. The body
// is read (up to 1MB) and discarded so the outcome covers the full response
// and the connection can be reused. ElapsedMs is measured from dispatch to
// resolution or failure. There are no retries.
func (c *Client) Probe(ctx context.Context, url string, timeout time.Duration) store.ProbeOutcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	outcome := store.ProbeOutcome{Endpoint: url}

	err := c.get(ctx, url)
	outcome.ElapsedMs = time.Since(start).Milliseconds()
	outcome.Success = err == nil
	return outcome
}

func (c *Client) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody)); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
