package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/mstodo-bridge/internal/metrics"
)

// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Authenticator attaches identity material to an outbound request. It is
// consulted once per request; an implementation with no current token may
// leave the request untouched, in which case Graph rejects the call with
// 401 and the error surfaces through WrapError.
type Authenticator interface {
	Authenticate(req *http.Request)
}

// Client talks to the Microsoft Graph To Do endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Authenticator
	limiter    *RateLimiter
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph endpoint, used by tests and national
// cloud deployments.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the default rate limiter configuration.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.limiter = NewRateLimiterWithConfig(cfg) }
}

// NewClient creates a Graph client that authenticates every request through
// the given Authenticator.
func NewClient(auth Authenticator, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		auth:       auth,
		limiter:    NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentUser fetches the profile of the authorized user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, c.baseURL+"/me?$select=id,displayName,mail,userPrincipalName", &user); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return &user, nil
}

// TaskLists fetches all To Do task lists of the current user, following
// pagination to completion.
func (c *Client) TaskLists(ctx context.Context) ([]TaskList, error) {
	lists, err := collectPages[TaskList](ctx, c, c.baseURL+"/me/todo/lists")
	if err != nil {
		return nil, fmt.Errorf("fetch task lists: %w", err)
	}
	return lists, nil
}

// Tasks fetches all tasks of one task list, following pagination to
// completion.
func (c *Client) Tasks(ctx context.Context, listID string) ([]Task, error) {
	tasks, err := collectPages[Task](ctx, c, c.baseURL+"/me/todo/lists/"+url.PathEscape(listID)+"/tasks")
	if err != nil {
		return nil, fmt.Errorf("fetch tasks for list %s: %w", listID, err)
	}
	return tasks, nil
}

// collectPages accumulates a paged collection in server order. There is no
// page-count ceiling; the loop ends when the server stops returning a
// nextLink.
func collectPages[T any](ctx context.Context, c *Client, firstURL string) ([]T, error) {
	var items []T
	next := firstURL
	for next != "" {
		var p page[T]
		if err := c.get(ctx, next, &p); err != nil {
			return nil, err
		}
		items = append(items, p.Value...)
		next = p.NextLink
	}
	return items, nil
}

// get performs an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.auth.Authenticate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGraphRequest(false)
		return fmt.Errorf("graph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordGraphRequest(false)
		if IsRateLimited(resp.StatusCode) {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			c.limiter.RecordRateLimitError(retryAfter)
		}
		wrapped := WrapError(resp.StatusCode)
		if wrapped == nil {
			wrapped = ErrUnexpectedStatus
		}
		return fmt.Errorf("graph request failed with status %d: %w",
			resp.StatusCode, wrapped)
	}
	metrics.RecordGraphRequest(true)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
