// Package linkcheck verifies that the URLs listed in the landscape tables
// still resolve.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matsen/dhnet/internal/dataset"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRate is the default number of requests per second.
	DefaultRate = 2.0

	// DefaultUserAgent identifies the checker to remote servers.
	DefaultUserAgent = "dhnet-linkcheck/1.0"
)

// ErrInvalidURL indicates a value that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("not an absolute http(s) URL")

// Link is a URL found on an entity.
type Link struct {
	OwnerID string `json:"owner_id"`
	Field   string `json:"field"`
	URL     string `json:"url"`
}

// Result is the outcome of checking one link.
type Result struct {
	Link
	StatusCode int    `json:"status_code,omitempty"`
	Err        string `json:"error,omitempty"`
}

// OK reports whether the link resolved to a non-error status.
func (r Result) OK() bool {
	return r.Err == "" && r.StatusCode > 0 && r.StatusCode < 400
}

// Checker is a rate-limited HTTP link checker.
type Checker struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	timeout    time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = hc
	}
}

// WithRate sets the maximum number of requests per second.
func WithRate(perSecond float64) Option {
	return func(c *Checker) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// HTTP client, so a client passed to WithHTTPClient is left unchanged.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a link checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), 1),
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// validate checks that raw is an absolute http or https URL.
func validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// Check requests a single link. Servers that reject HEAD are retried with GET.
func (c *Checker) Check(ctx context.Context, link Link) Result {
	res := Result{Link: link}

	if err := validate(link.URL); err != nil {
		res.Err = err.Error()
		return res
	}

	status, err := c.do(ctx, http.MethodHead, link.URL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = c.do(ctx, http.MethodGet, link.URL)
	}
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.StatusCode = status
	if status >= 400 {
		res.Err = fmt.Sprintf("HTTP %d", status)
	}
	return res
}

func (c *Checker) do(ctx context.Context, method, target string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	return resp.StatusCode, nil
}

// CheckAll checks links sequentially, stopping early if ctx is cancelled.
// Only failing links are returned.
func (c *Checker) CheckAll(ctx context.Context, links []Link) ([]Result, error) {
	var broken []Result
	for _, l := range links {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		if r := c.Check(ctx, l); !r.OK() {
			broken = append(broken, r)
		}
	}
	return broken, nil
}

// Collect lists the group, project, and ORCID URLs in table order.
func Collect(ds *dataset.Datasets) []Link {
	var links []Link
	for _, g := range ds.Groups {
		if g.URL != "" {
			links = append(links, Link{OwnerID: g.ID, Field: dataset.ColURL, URL: g.URL})
		}
	}
	for _, p := range ds.People {
		if u := p.ORCIDURL(); u != "" {
			links = append(links, Link{OwnerID: p.ID, Field: dataset.ColORCID, URL: u})
		}
	}
	for _, p := range ds.Projects {
		if p.URL != "" {
			links = append(links, Link{OwnerID: p.ID, Field: dataset.ColURL, URL: p.URL})
		}
	}
	return links
}
