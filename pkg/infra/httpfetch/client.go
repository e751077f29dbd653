package httpfetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
)

// DefaultTimeout is used when a non-positive timeout is given
const DefaultTimeout = 10 * time.Second

// Client performs a single GET per URL with a shared http.Client. It is safe
// for concurrent use by all tasks of a batch.
type Client struct {
	httpClient *http.Client
}

// Option is a functional option for Client
type Option func(*Client)

// WithTransport replaces the transport of the underlying http.Client
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// New creates a Client whose timeout covers the whole request/response
// cycle, body read included.
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Fetch retrieves url and returns its body. Any status code is accepted.
// A timeout or client error is logged once and yields an Outcome without body.
func (c *Client) Fetch(ctx context.Context, url string) model.Outcome {
	logger := ctxlog.From(ctx)

	body, err := c.get(ctx, url)
	if err != nil {
		if isTimeout(err) {
			logger.Warn("Timeout error for URL", "url", url)
		} else {
			logger.Error("Error for URL", "url", url, "error", err)
		}
		return model.Outcome{URL: url}
	}

	return model.Outcome{URL: url, Body: body}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.V("url", url))
	}
	defer resp.Body.Close()

	ctxlog.From(ctx).Debug("Received response",
		"url", url,
		"status", resp.StatusCode,
		"content_length", resp.ContentLength,
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}
	if body == nil {
		body = []byte{}
	}

	return body, nil
}

// Close releases idle connections held by the shared client
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
