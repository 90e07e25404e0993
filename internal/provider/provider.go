// Package provider implements the remote data provider: an authenticated
// HTTP client for the charging network backend's REST API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/logging"
	"github.com/chargefront/chargefront/internal/session"
)

const (
	authBasePath    = "/client/auth/"
	securedBasePath = "/client/api/"
	pingPath        = "/client/ping"

	defaultTimeout = 30 * time.Second
)

// CountUnknown is the count value reported by the backend when the total
// number of records is not computed.
const CountUnknown = -1

// Paging selects a window of a paged resource list.
type Paging struct {
	Skip  int
	Limit int
}

// ListResult is a page of records plus the backend-reported total.
// Count may be CountUnknown.
type ListResult[T any] struct {
	Count  int `json:"count"`
	Result []T `json:"result"`
}

// Client issues authenticated calls against the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a provider client for the given backend base URL.
func New(baseURL string, sess *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one HTTP request and decodes the JSON response into out.
// Non-2xx responses are converted to *HTTPError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// list fetches one page of a resource list, merging the given filter values
// into the query parameters.
func list[T any](ctx context.Context, c *Client, resource string, filters map[string]string, paging Paging) (ListResult[T], error) {
	query := url.Values{}
	for id, value := range filters {
		if value == "" {
			continue
		}
		query.Set(domain.QueryParam(id), value)
	}
	query.Set("Skip", strconv.Itoa(paging.Skip))
	query.Set("Limit", strconv.Itoa(paging.Limit))

	var result ListResult[T]
	if err := c.do(ctx, http.MethodGet, securedBasePath+resource, query, nil, &result); err != nil {
		return ListResult[T]{}, err
	}
	logging.Debug("fetched resource page",
		"resource", resource, "skip", paging.Skip, "limit", paging.Limit,
		"records", len(result.Result), "count", result.Count)
	return result, nil
}

// get fetches one record by ID.
func get[T any](ctx context.Context, c *Client, resource, id string) (T, error) {
	query := url.Values{}
	query.Set("ID", id)
	var out T
	if err := c.do(ctx, http.MethodGet, securedBasePath+resource, query, nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Ping verifies backend reachability, retrying transient failures with
// exponential backoff.
func (c *Client) Ping(ctx context.Context) error {
	operation := func() error {
		err := c.do(ctx, http.MethodGet, pingPath, nil, nil, nil)
		if err != nil && !IsTransport(err) {
			// Application rejections will not heal by retrying.
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	return nil
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Tenant     string `json:"tenant"`
	AcceptEula bool   `json:"acceptEula"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the backend and installs the returned token
// into the session manager.
func (c *Client) Login(ctx context.Context, email, password, tenant string) error {
	req := loginRequest{Email: email, Password: password, Tenant: tenant, AcceptEula: true}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, authBasePath+"Login", nil, req, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("login response carries no token")
	}
	if err := c.session.SetToken(resp.Token); err != nil {
		return fmt.Errorf("login token unusable: %w", err)
	}
	c.session.Persist(email)
	return nil
}

// Logout invalidates the session on the backend and clears it locally.
// The local session is dropped even if the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, authBasePath+"Logout", nil, nil, nil)
	c.session.Forget()
	return err
}
