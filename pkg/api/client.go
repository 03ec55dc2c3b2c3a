package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/teamtree/pkg/buildinfo"
	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	"github.com/matzehuels/teamtree/pkg/linkage"
	"github.com/matzehuels/teamtree/pkg/observability"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps the response body read from the backend.
const maxBodySize = 32 << 20

var (
	// ErrNotFound is returned when the backend has no clustering for the request.
	ErrNotFound = errors.New("clustering not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches clustering results from the prediction backend.
// It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithToken sends token as a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout (default [DefaultTimeout]).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache stores successful responses in cc, keyed by k.
func WithCache(cc cache.Cache, k cache.Keyer) Option {
	return func(c *Client) {
		c.cache = cc
		if k != nil {
			c.keyer = k
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := tterrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.NullCache{},
		keyer:   cache.NewDefaultKeyer(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ClusteringRequest selects a clustering run on the backend.
type ClusteringRequest struct {
	League string // required league code, e.g. "EPL"
	Season string // optional; empty means the current season
	Metric string // optional feature set, e.g. "xg"
	Method string // optional linkage method; see [linkage.ParseMethod]

	// Refresh bypasses the cache for this request.
	Refresh bool
}

// Validate checks the request fields before anything is sent.
func (r ClusteringRequest) Validate() error {
	if err := tterrors.ValidateLeague(r.League); err != nil {
		return err
	}
	if err := tterrors.ValidateSeason(r.Season); err != nil {
		return err
	}
	if r.Method != "" {
		if _, err := linkage.ParseMethod(r.Method); err != nil {
			return tterrors.Wrap(tterrors.ErrCodeInvalidMethod, err, "invalid method %q", r.Method)
		}
	}
	return nil
}

func (r ClusteringRequest) query() url.Values {
	q := url.Values{}
	q.Set("league", r.League)
	if r.Season != "" {
		q.Set("season", r.Season)
	}
	if r.Metric != "" {
		q.Set("metric", r.Metric)
	}
	if r.Method != "" {
		q.Set("method", r.Method)
	}
	return q
}

// FetchClustering retrieves and validates a clustering result.
//
// The backend is asked once; failures are not retried. A payload that does
// not pass validation is returned as a [*dendrogram.MalformedInputError] and
// is never cached.
func (c *Client) FetchClustering(ctx context.Context, req ClusteringRequest) (dendrogram.Result, error) {
	if err := req.Validate(); err != nil {
		return dendrogram.Result{}, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, req.League, req.Season)

	res, err := c.fetchClustering(ctx, req)
	hooks.OnFetchComplete(ctx, req.League, req.Season, res.LeafCount(), time.Since(start), err)
	return res, err
}

func (c *Client) fetchClustering(ctx context.Context, req ClusteringRequest) (dendrogram.Result, error) {
	q := req.query()
	key := c.keyer.HTTPKey("clustering", q.Encode())

	if !req.Refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if res, err := dendrogram.DecodePayload(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "clustering")
				c.logger.Debug("clustering cache hit", "league", req.League, "season", req.Season)
				return res, nil
			}
			// Drop entries that no longer decode.
			_ = c.cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "clustering")
	}

	data, err := c.get(ctx, "/clustering", q)
	if err != nil {
		return dendrogram.Result{}, err
	}

	res, err := dendrogram.DecodePayload(data)
	if err != nil {
		return dendrogram.Result{}, err
	}

	if err := c.cache.Set(ctx, key, data, cache.TTLClustering); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "clustering", len(data))
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, u.Host, u.Path)
	c.logger.Debug("GET", "url", u.String())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
