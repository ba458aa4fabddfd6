package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultTimeout bounds a single request when TransportConfig.Timeout is 0.
const DefaultTimeout = 30 * time.Second

// TransportConfig configures NewTransport
type TransportConfig struct {
	Timeout time.Duration
	// Logger receives the HTTP client's request logs. Nil disables them.
	Logger *slog.Logger
}

// NewTransport creates an HTTP client that issues exactly one request per
// call: redirects are returned to the caller and nothing is retried.
func NewTransport(cfg TransportConfig) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base := cleanhttp.DefaultPooledClient()
	base.Timeout = cfg.Timeout
	base.CheckRedirect = stopRedirects

	client := retryablehttp.NewClient()
	client.HTTPClient = base
	client.RetryMax = 0
	client.CheckRetry = neverRetry
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if cfg.Logger != nil {
		client.Logger = cfg.Logger
	}

	std := client.StandardClient()
	std.CheckRedirect = stopRedirects
	return std
}

func stopRedirects(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func neverRetry(context.Context, *http.Response, error) (bool, error) {
	return false, nil
}
