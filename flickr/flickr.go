package flickr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
)

const DefaultEndpoint = "https://api.flickr.com/services/rest/"

var ErrNoAPIKey = errors.New("flickr: no api key configured")

// CredentialProvider supplies the API key when none was given explicitly.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// Doer is the HTTP collaborator. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	APIKey      string
	Credentials CredentialProvider
	// Endpoint defaults to DefaultEndpoint.
	Endpoint string
	// Extra params are sent with every call and override the defaults.
	Extra map[string]string
	// HTTP defaults to NewHTTPClient(DefaultRequestOptions).
	HTTP Doer
	// Retries is the number of additional attempts after a transport error.
	Retries uint64
}

type Client struct {
	apiKey   string
	creds    CredentialProvider
	endpoint string
	extra    map[string]string
	http     Doer
	retries  uint64
}

func New(cfg Config) *Client {
	c := &Client{
		apiKey:   cfg.APIKey,
		creds:    cfg.Credentials,
		endpoint: cfg.Endpoint,
		extra:    map[string]string{"nojsoncallback": "1"},
		http:     cfg.HTTP,
		retries:  cfg.Retries,
	}
	for k, v := range cfg.Extra {
		c.extra[k] = v
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.http == nil {
		c.http = NewHTTPClient(DefaultRequestOptions)
	}
	return c
}

func (c *Client) key(ctx context.Context) (string, error) {
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	if c.creds == nil {
		return "", ErrNoAPIKey
	}
	key, err := c.creds.Credential(ctx)
	if err != nil {
		return "", fmt.Errorf("load api key: %w", err)
	}
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

func (c *Client) params(ctx context.Context, method string) (url.Values, error) {
	key, err := c.key(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("api_key", key)
	q.Set("format", "json")
	for k, v := range c.extra {
		q.Set(k, v)
	}
	q.Set("method", method)
	return q, nil
}

// GetPhotoInfo calls flickr.photos.getInfo. An empty id or an empty response yields
// (nil, nil).
func (c *Client) GetPhotoInfo(ctx context.Context, photoID string) (*PhotoInfo, error) {
	if photoID == "" {
		return nil, nil
	}
	q, err := c.params(ctx, "flickr.photos.getInfo")
	if err != nil {
		return nil, err
	}
	q.Set("photo_id", photoID)

	var out PhotoInfo
	ok, err := c.call(ctx, q, "photo", &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

// GetPhotoSizes calls flickr.photos.getSizes. An empty id or an empty response yields
// (nil, nil).
func (c *Client) GetPhotoSizes(ctx context.Context, photoID string) (*Sizes, error) {
	if photoID == "" {
		return nil, nil
	}
	q, err := c.params(ctx, "flickr.photos.getSizes")
	if err != nil {
		return nil, err
	}
	q.Set("photo_id", photoID)

	var out Sizes
	ok, err := c.call(ctx, q, "sizes", &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

type SortBy string

const (
	SortPosted SortBy = "posted"
	SortTaken  SortBy = "taken"
)

const MaxPerPage = 500

// GetLatestPhotosByUser searches the public photos of one owner, newest first.
func (c *Client) GetLatestPhotosByUser(ctx context.Context, userID string, limit int, sortBy SortBy, extras []string) (*Photos, error) {
	if userID == "" || limit < 1 || limit > MaxPerPage {
		return nil, nil
	}
	q, err := c.params(ctx, "flickr.photos.search")
	if err != nil {
		return nil, err
	}
	q.Set("user_id", userID)
	q.Set("media", "photos")
	q.Set("content_type", "1")   // photos, not screenshots
	q.Set("privacy_filter", "1") // public
	q.Set("per_page", strconv.Itoa(limit))
	if sortBy == SortTaken {
		q.Set("sort", "date-taken-desc")
	}
	if len(extras) > 0 {
		q.Set("extras", strings.Join(extras, ","))
	}

	var out Photos
	ok, err := c.call(ctx, q, "photos", &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

// ValidateAPIKey asks flickr.test.echo to echo key back.
func (c *Client) ValidateAPIKey(ctx context.Context, key string) bool {
	if key == "" {
		return false
	}
	q := url.Values{}
	q.Set("method", "flickr.test.echo")
	q.Set("api_key", key)
	q.Set("format", "json")
	q.Set("nojsoncallback", "1")

	resp, err := c.get(ctx, q)
	if err != nil {
		slog.DebugContext(ctx, "flickr key validation request failed", "err", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return echoMatches(body, key)
}

// ValidateAPIKey validates key without a configured Client.
func ValidateAPIKey(ctx context.Context, hc Doer, key string) bool {
	return New(Config{HTTP: hc}).ValidateAPIKey(ctx, key)
}

func (c *Client) call(ctx context.Context, q url.Values, key string, out any) (bool, error) {
	method := q.Get("method")
	slog.DebugContext(ctx, "flickr call", "method", method, "photo_id", q.Get("photo_id"))

	resp, err := c.get(ctx, q)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	raw, err := handleResponse(resp, key)
	if err != nil || raw == nil {
		return false, err
	}
	if err := decodePayload(raw, out); err != nil {
		slog.WarnContext(ctx, "malformed flickr payload", "method", method, "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

func (c *Client) get(ctx context.Context, q url.Values) (*http.Response, error) {
	u := c.endpoint + "?" + q.Encode()

	var resp *http.Response
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err = c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			slog.DebugContext(ctx, "flickr transport error", "method", q.Get("method"), "err", err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx))
	if err != nil {
		return nil, err
	}
	return resp, nil
}
