// Package fetcher provides a small REST API client: single fetches with
// JSON decoding, paginated collection and a bounded retry wrapper.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/amosWeiskopf/scrapekit/internal/logging"
	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// Config holds per-instance fetcher configuration.
type Config struct {
	// BaseURL is prepended to every endpoint path.
	BaseURL string

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout applies to each request. Zero leaves the transport default.
	Timeout time.Duration
}

// Fetcher is a REST API client bound to a base URL.
type Fetcher struct {
	cfg    Config
	client *resty.Client
	logger zerolog.Logger
}

// New builds a Fetcher from cfg.
func New(cfg Config) *Fetcher {
	client := resty.New().SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/"))
	if len(cfg.Headers) > 0 {
		client.SetHeaders(cfg.Headers)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Fetcher{
		cfg:    cfg,
		client: client,
		logger: logging.NewLogger("fetcher"),
	}
}

// RequestOptions carries the optional parts of a request. The zero value
// is a plain GET with no parameters.
type RequestOptions struct {
	Method Method
	Params map[string]string
	Body   interface{}
}

// FetchJSON performs a single request against endpoint and decodes the
// JSON response into out. Out may be nil to discard the body.
func (f *Fetcher) FetchJSON(ctx context.Context, endpoint string, opts RequestOptions, out interface{}) error {
	resp, err := f.do(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errkind.Wrap(err, errkind.ErrFormat, "decode response")
	}
	return nil
}

// FetchHeaders issues a HEAD request and returns the response headers.
func (f *Fetcher) FetchHeaders(ctx context.Context, endpoint string, params map[string]string) (http.Header, error) {
	resp, err := f.do(ctx, endpoint, RequestOptions{Method: MethodHead, Params: params})
	if err != nil {
		return nil, err
	}
	return resp.Header(), nil
}

// FetchStatus issues a GET request and returns the status code.
func (f *Fetcher) FetchStatus(ctx context.Context, endpoint string, params map[string]string) (int, error) {
	resp, err := f.do(ctx, endpoint, RequestOptions{Params: params})
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}

func (f *Fetcher) do(ctx context.Context, endpoint string, opts RequestOptions) (*resty.Response, error) {
	if !opts.Method.valid() {
		return nil, errkind.Wrap(fmt.Errorf("%v", opts.Method), errkind.ErrUnsupportedMethod, "dispatch request")
	}

	req := f.client.R().SetContext(ctx)
	if len(opts.Params) > 0 {
		req.SetQueryParams(opts.Params)
	}
	if opts.Body != nil {
		req.SetBody(opts.Body)
	}

	start := time.Now()
	resp, err := req.Execute(opts.Method.String(), endpoint)
	if err != nil {
		f.logger.Warn().Str("endpoint", endpoint).Err(err).Msg("request failed")
		return nil, errkind.Wrap(err, errkind.ErrTransport, "execute request")
	}
	f.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", opts.Method.String()).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request complete")

	if !resp.IsSuccess() {
		return nil, errkind.Wrap(
			fmt.Errorf("unexpected status %d", resp.StatusCode()),
			errkind.ErrTransport, "execute request")
	}
	return resp, nil
}

// url resolves endpoint against the configured base URL for requests
// issued outside resty (the pagination path).
func (f *Fetcher) url(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return strings.TrimSuffix(f.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
