// Package scraper fetches web pages through a robots.txt policy gate
// and extracts structured data from them with CSS selectors.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"

	"github.com/amosWeiskopf/scrapekit/internal/logging"
	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// Method is the closed set of verbs the scraper supports.
type Method int

const (
	MethodGet Method = iota
	MethodPost
)

// Config holds per-instance scraper configuration.
type Config struct {
	// BaseURL is the site root; relative references resolve against it
	// and robots.txt is read from its host.
	BaseURL string

	// Headers are sent with every request.
	Headers map[string]string

	// Cookies are sent with every request.
	Cookies map[string]string

	// UserAgent identifies the scraper to the site and to robots.txt.
	UserAgent string

	// Timeout applies to each request.
	Timeout time.Duration
}

// Scraper fetches and parses pages from a single site.
type Scraper struct {
	cfg    Config
	base   *url.URL
	client *http.Client
	logger zerolog.Logger

	robotsOnce sync.Once
	robots     *robotstxt.RobotsData
}

// New builds a Scraper for the site at cfg.BaseURL.
func New(cfg Config) (*Scraper, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ScrapeKit/1.0"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		cfg:    cfg,
		base:   base,
		client: &http.Client{Timeout: timeout},
		logger: logging.NewLogger("scraper"),
	}, nil
}

// loadRobots reads robots.txt from the base host once. An unreachable or
// missing robots.txt leaves the gate open, matching common crawler
// behavior.
func (s *Scraper) loadRobots() {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", s.base.Scheme, s.base.Host)
	resp, err := s.client.Get(robotsURL)
	if err != nil {
		s.logger.Debug().Str("url", robotsURL).Err(err).Msg("robots.txt unreachable")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}
	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		s.logger.Debug().Str("url", robotsURL).Err(err).Msg("robots.txt unparseable")
		return
	}
	s.robots = robots
}

// allowed consults the policy gate for u.
func (s *Scraper) allowed(u *url.URL) bool {
	s.robotsOnce.Do(s.loadRobots)
	if s.robots == nil {
		return true
	}
	return s.robots.TestAgent(u.RequestURI(), s.cfg.UserAgent)
}

// resolve turns a possibly relative reference into an absolute URL
// against the base.
func (s *Scraper) resolve(ref string) (*url.URL, error) {
	u, err := s.base.Parse(ref)
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ErrFormat, "resolve reference")
	}
	return u, nil
}

// Fetch retrieves the page at ref and returns its body. The policy gate
// is consulted before every request; a denial fails with ErrPolicy and
// issues no network call. GET sends params as query parameters, POST as
// form data.
func (s *Scraper) Fetch(ctx context.Context, ref string, params map[string]string, method Method) (string, error) {
	u, err := s.resolve(ref)
	if err != nil {
		return "", err
	}
	if !s.allowed(u) {
		return "", errkind.Wrap(fmt.Errorf("%s", u), errkind.ErrPolicy, "fetch page")
	}

	req, err := s.buildRequest(ctx, u, params, method)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errkind.Wrap(err, errkind.ErrTransport, "fetch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errkind.Wrap(
			fmt.Errorf("unexpected status %d for %s", resp.StatusCode, u),
			errkind.ErrTransport, "fetch page")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errkind.Wrap(err, errkind.ErrTransport, "read page body")
	}

	s.logger.Debug().Str("url", u.String()).Int("bytes", len(body)).Msg("fetched page")
	return string(body), nil
}

func (s *Scraper) buildRequest(ctx context.Context, u *url.URL, params map[string]string, method Method) (*http.Request, error) {
	var req *http.Request
	var err error

	switch method {
	case MethodGet:
		target := *u
		if len(params) > 0 {
			q := target.Query()
			for k, v := range params {
				q.Set(k, v)
			}
			target.RawQuery = q.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	case MethodPost:
		form := url.Values{}
		for k, v := range params {
			form.Set(k, v)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		return nil, errkind.Wrap(fmt.Errorf("Method(%d)", int(method)), errkind.ErrUnsupportedMethod, "dispatch request")
	}
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ErrTransport, "build request")
	}

	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}
	for name, value := range s.cfg.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	return req, nil
}

// Parse turns raw HTML into a queryable document.
func (s *Scraper) Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ErrFormat, "parse html")
	}
	return doc, nil
}

// Scrape fetches ref, parses it and applies extract to the document.
func Scrape[T any](ctx context.Context, s *Scraper, ref string, params map[string]string, method Method, extract func(*goquery.Document) (T, error)) (T, error) {
	var zero T
	html, err := s.Fetch(ctx, ref, params, method)
	if err != nil {
		return zero, err
	}
	doc, err := s.Parse(html)
	if err != nil {
		return zero, err
	}
	return extract(doc)
}
