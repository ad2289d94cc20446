package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// CategoryLister lists the members of a category.
// This interface is implemented by *Client and can be used for testing.
type CategoryLister interface {
	CategoryMembers(ctx context.Context, q CategoryQuery) ([]Member, error)
}

// Ensure Client implements CategoryLister at compile time.
var _ CategoryLister = (*Client)(nil)

// Client talks to a MediaWiki action API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *log.Logger
	maxPages  int
}

const (
	DefaultBaseURL   = "https://en.wikipedia.org"
	defaultUserAgent = "courtside/0.1"
	requestTimeout   = 10 * time.Second
	apiPath          = "/w/api.php"
	defaultMaxPages  = 50
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header. Wikimedia asks clients to
// identify themselves.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxPages bounds how many continuation pages one listing may follow.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// NewClient builds a Client for the wiki at base, e.g. https://en.wikipedia.org.
func NewClient(base string, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    log.New(io.Discard),
		maxPages:  defaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CategoryQuery configures a categorymembers listing.
type CategoryQuery struct {
	Title string
	Limit int
}

// CategoryMembers returns every member of the category, following
// continuation until the listing is complete.
func (c *Client) CategoryMembers(ctx context.Context, q CategoryQuery) ([]Member, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	title := strings.TrimSpace(q.Title)
	if title == "" {
		return nil, fmt.Errorf("category title required")
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	var (
		members []Member
		cont    map[string]string
	)
	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, fmt.Errorf("category %s: continuation exceeded %d pages", title, c.maxPages)
		}
		values := url.Values{}
		values.Set("action", "query")
		values.Set("list", "categorymembers")
		values.Set("cmtitle", title)
		values.Set("cmlimit", strconv.Itoa(limit))
		values.Set("cmprop", "ids|title|type|sortkeyprefix")
		values.Set("format", "json")
		for k, v := range cont {
			values.Set(k, v)
		}

		var payload categoryMembersResponse
		rel := &url.URL{Path: apiPath, RawQuery: values.Encode()}
		if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
			return nil, err
		}
		if payload.Error != nil {
			return nil, payload.Error
		}
		members = append(members, payload.Query.CategoryMembers...)
		if len(payload.Continue) == 0 {
			break
		}
		cont = payload.Continue
	}
	c.logger.Debug("category listed", "category", title, "members", len(members))
	return members, nil
}

// ArticleURL returns the canonical article address for a page title.
func (c *Client) ArticleURL(title string) string {
	if c == nil {
		return ""
	}
	return ArticleURL(c.baseURL, title)
}

// ArticleURL joins base with /wiki/<title>, spaces written as underscores.
func ArticleURL(base *url.URL, title string) string {
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if base == nil || title == "" {
		return ""
	}
	return base.ResolveReference(&url.URL{Path: "/wiki/" + title}).String()
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("GET", "url", reqURL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Path: rel.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", base)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
