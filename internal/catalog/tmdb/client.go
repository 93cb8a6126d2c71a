package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client implements domain.CatalogRepository against the TMDB v3 API
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	language    string
	region      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the base backoff between attempts
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a new TMDB API client
func NewClient(cfg config.TMDBConfig, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		accessToken: cfg.AccessToken,
		language:    cfg.Language,
		region:      cfg.Region,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:    rate.NewLimiter(limit, burst),
		retryDelay: baseRetryDelay,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domain.CatalogRepository = (*Client)(nil)

// retryableError marks failures worth another attempt (5xx, 429, transport)
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// doRequest performs an authenticated GET against the API.
// 5xx, 429 and transport failures are retried with exponential backoff.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" && c.accessToken == "" {
		query.Set("api_key", c.apiKey)
	}
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return c.attempt(ctx, path, reqURL)
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var re *retryableError
			return errors.As(err, &re)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying tmdb request", "attempt", n+1, "path", path, "error", err)
		}),
	)
	if err == nil {
		return body, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var re *retryableError
	if errors.As(err, &re) {
		c.logger.Error("tmdb request failed after retries", "path", path, "error", re.err)
		if errors.Is(re.err, domain.ErrRateLimited) {
			return nil, domain.ErrRateLimited
		}
		var netErr *transportError
		if errors.As(re.err, &netErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogOffline, netErr.err)
		}
		return nil, re.err
	}
	return nil, err
}

// transportError wraps failures below HTTP (DNS, refused, timeout)
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }

func (c *Client) attempt(ctx context.Context, path, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("tmdb request failed", "path", path, "error", err)
		return nil, &retryableError{err: &transportError{err: err}}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: &transportError{err: err}}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrTitleNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn("tmdb rate limited", "path", path)
		return nil, &retryableError{err: domain.ErrRateLimited}
	case resp.StatusCode >= 500:
		c.logger.Warn("tmdb server error, will retry", "status", resp.StatusCode, "path", path)
		return nil, &retryableError{err: fmt.Errorf("server error: %d - %s", resp.StatusCode, statusMessage(body))}
	default:
		c.logger.Error("tmdb request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d - %s", resp.StatusCode, statusMessage(body))
	}
}

func statusMessage(body []byte) string {
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.StatusMessage != "" {
		return e.StatusMessage
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	return q
}

// Trending returns trending titles. An empty media type means both.
func (c *Client) Trending(ctx context.Context, window domain.TrendingWindow, mediaType domain.MediaType, page int) (domain.Page, error) {
	if window == "" {
		window = domain.TrendingWeek
	}
	scope := "all"
	if mediaType != "" {
		if !mediaType.Valid() {
			return domain.Page{}, fmt.Errorf("%w: %q", domain.ErrUnknownMediaType, mediaType)
		}
		scope = string(mediaType)
	}

	var resp PagedResponse
	path := fmt.Sprintf("/trending/%s/%s", scope, window)
	if err := c.getJSON(ctx, path, pageQuery(page), &resp); err != nil {
		return domain.Page{}, err
	}
	return MapResults(resp, mediaType), nil
}

// Search runs a multi search; people are dropped from the results
func (c *Client) Search(ctx context.Context, query string, page int) (domain.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Page{Number: 1}, nil
	}
	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", "false")
	if c.region != "" {
		q.Set("region", c.region)
	}

	var resp PagedResponse
	if err := c.getJSON(ctx, "/search/multi", q, &resp); err != nil {
		return domain.Page{}, err
	}
	return MapResults(resp, ""), nil
}

// Discover browses popular titles of one media type, optionally by genre
func (c *Client) Discover(ctx context.Context, mediaType domain.MediaType, genreID int, page int) (domain.Page, error) {
	if !mediaType.Valid() {
		return domain.Page{}, fmt.Errorf("%w: %q", domain.ErrUnknownMediaType, mediaType)
	}
	q := pageQuery(page)
	q.Set("sort_by", "popularity.desc")
	q.Set("include_adult", "false")
	if genreID > 0 {
		q.Set("with_genres", strconv.Itoa(genreID))
	}
	if c.region != "" {
		q.Set("region", c.region)
	}

	var resp PagedResponse
	if err := c.getJSON(ctx, "/discover/"+string(mediaType), q, &resp); err != nil {
		return domain.Page{}, err
	}
	return MapResults(resp, mediaType), nil
}

// Details fetches the full record for one title
func (c *Client) Details(ctx context.Context, key domain.Key) (*domain.Title, error) {
	path := fmt.Sprintf("/%s/%d", key.MediaType, key.ID)
	switch key.MediaType {
	case domain.MediaTypeMovie:
		var d MovieDetailsDTO
		if err := c.getJSON(ctx, path, nil, &d); err != nil {
			return nil, err
		}
		return MapMovieDetails(d), nil
	case domain.MediaTypeTV:
		var d TVDetailsDTO
		if err := c.getJSON(ctx, path, nil, &d); err != nil {
			return nil, err
		}
		return MapTVDetails(d), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMediaType, key.MediaType)
	}
}

// Genres lists the genres of one media type
func (c *Client) Genres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMediaType, mediaType)
	}
	var resp GenreListResponse
	if err := c.getJSON(ctx, "/genre/"+string(mediaType)+"/list", nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// Validate checks that the configured credentials are accepted
func (c *Client) Validate(ctx context.Context) error {
	var resp AuthenticationResponse
	if err := c.getJSON(ctx, "/authentication", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return domain.ErrAuthFailed
	}
	return nil
}

// PosterURL builds the full image URL for a poster path
func PosterURL(imageBaseURL, posterPath string) string {
	if posterPath == "" || imageBaseURL == "" {
		return ""
	}
	return strings.TrimRight(imageBaseURL, "/") + "/" + strings.TrimLeft(posterPath, "/")
}
