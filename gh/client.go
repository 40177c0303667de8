package gh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Error constants
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrRepositoryNotFound = errors.New("repository or ref not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrFetchError         = errors.New("could not obtain repository data from the GitHub API")
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API v3. The zero token is valid and
// falls back to unauthenticated requests with their lower rate limit.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs an authenticated GET against the API and returns the
// response body, retrying rate-limit and transient failures.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	url := c.baseURL + endpoint
	return withRetry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed for %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("reading response for %s: %w", endpoint, err)
			}
			return body, nil
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, ErrInvalidToken
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, endpoint)
		case isRateLimited(resp):
			reset := rateLimitReset(resp.Header)
			log.Debug().
				Str("endpoint", endpoint).
				Time("reset", reset).
				Msg("rate limited")
			return nil, &rateLimitError{reset: reset}
		case isRetryableStatus(resp.StatusCode):
			return nil, &retryableStatusError{StatusCode: resp.StatusCode}
		default:
			return nil, fmt.Errorf("%w: HTTP %d for %s", ErrFetchError, resp.StatusCode, endpoint)
		}
	})
}

// RepoInfo represents information about a repository
type RepoInfo struct {
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

// FetchRepoInfo checks that a repository exists and returns its metadata.
// It is called before the tree walk for an early NotFound diagnosis.
func (c *Client) FetchRepoInfo(ctx context.Context, owner, name string) (*RepoInfo, error) {
	body, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name))
	if err != nil {
		if errors.Is(err, ErrRepositoryNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrRepositoryNotFound, owner, name)
		}
		return nil, err
	}

	var info RepoInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decoding repository info: %w", err)
	}
	return &info, nil
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-RateLimit-Remaining") == "0"
}
