package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/utils/logging"
	"github.com/secmon-lab/invy/pkg/utils/safe"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"

	// defaultRemaining is assumed when the upstream response carries no
	// rate-limit headers.
	defaultRemaining = 5000

	defaultMaxRetries = 3
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// rateLimit is the last rate-limit snapshot observed from response
// headers. It belongs to a single Client instance; clients must not be
// shared across concurrent batches.
type rateLimit struct {
	remaining int
	reset     time.Time
}

// Client calls the GitHub REST API with a single bearer token. It
// updates its rate-limit snapshot after every response and waits until
// the advertised reset when the upstream forbids a request with zero
// remaining quota.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	token      types.AccessToken
	maxRetries int
	rateLimit  rateLimit
}

var _ interfaces.GitHubClient = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(x *Client) {
		x.httpClient = httpClient
	}
}

func WithBaseURL(baseURL string) Option {
	return func(x *Client) {
		x.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithMaxRetries caps how many times a throttled request is retried
// after waiting for the rate-limit reset.
func WithMaxRetries(n int) Option {
	return func(x *Client) {
		x.maxRetries = n
	}
}

func New(token types.AccessToken, options ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		token:      token,
		maxRetries: defaultMaxRetries,
		rateLimit: rateLimit{
			remaining: defaultRemaining,
		},
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Client) request(ctx context.Context, method, path string, body map[string]any, query url.Values) (map[string]any, error) {
	for attempt := 0; ; attempt++ {
		result, retry, err := x.doRequest(ctx, method, path, body, query)
		if err != nil {
			return nil, err
		}
		if !retry {
			return result, nil
		}

		if attempt >= x.maxRetries {
			return nil, goerr.New("rate limit retries exhausted",
				goerr.T(types.ErrTagRateLimited),
				goerr.V("method", method),
				goerr.V("path", path),
				goerr.V("reset", x.rateLimit.reset),
			)
		}

		if err := x.waitForReset(ctx); err != nil {
			return nil, err
		}
	}
}

// doRequest issues the request once. The second return value asks the
// caller to retry after the rate-limit reset.
func (x *Client) doRequest(ctx context.Context, method, path string, body map[string]any, query url.Values) (map[string]any, bool, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	reqURL := x.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to build request",
			goerr.V("method", method),
			goerr.V("url", reqURL),
		)
	}

	req.Header.Set("Authorization", "Bearer "+string(x.token))
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, false, goerr.Wrap(err, "request failed",
			goerr.T(types.ErrTagUpstream),
			goerr.V("method", method),
			goerr.V("path", path),
		)
	}
	defer safe.Close(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to read response body",
			goerr.V("method", method),
			goerr.V("path", path),
		)
	}

	x.updateRateLimit(resp.Header)

	logging.From(ctx).Debug("GitHub API response",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", resp.StatusCode),
		slog.Int("rate_limit_remaining", x.rateLimit.remaining),
		slog.String("body", string(data)),
	)

	if resp.StatusCode == http.StatusForbidden && x.rateLimit.remaining == 0 {
		return nil, true, nil
	}

	if resp.StatusCode == http.StatusNotFound && strings.Contains(string(data), "Not Found") {
		return nil, false, goerr.New("resource not found",
			goerr.T(types.ErrTagNotFound),
			goerr.V("status_code", resp.StatusCode),
			goerr.V("method", method),
			goerr.V("path", path),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, goerr.New(fmt.Sprintf("GitHub API error: %s", string(data)),
			goerr.T(types.ErrTagUpstream),
			goerr.V("status_code", resp.StatusCode),
			goerr.V("method", method),
			goerr.V("path", path),
		)
	}

	if len(data) == 0 {
		return map[string]any{}, false, nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, false, goerr.Wrap(err, "failed to parse response body",
			goerr.V("body", string(data)),
		)
	}

	return parsed, false, nil
}

func (x *Client) updateRateLimit(header http.Header) {
	x.rateLimit.remaining = defaultRemaining
	if v, err := strconv.Atoi(header.Get("X-RateLimit-Remaining")); err == nil {
		x.rateLimit.remaining = v
	}

	x.rateLimit.reset = time.Time{}
	if v, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		x.rateLimit.reset = time.Unix(v, 0)
	}
}

func (x *Client) waitForReset(ctx context.Context) error {
	wait := x.rateLimit.reset.Sub(logging.CtxTime(ctx))
	if wait <= 0 {
		return nil
	}

	logging.From(ctx).Warn("rate limit exceeded, waiting until reset",
		slog.Time("reset", x.rateLimit.reset),
		slog.Duration("wait", wait),
	)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "canceled while waiting for rate limit reset")
	case <-timer.C:
		return nil
	}
}

// GetUser fetches the user profile to verify the account exists.
func (x *Client) GetUser(ctx context.Context, username string) (map[string]any, error) {
	resp, err := x.request(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, nil)
	if err != nil {
		if goerr.HasTag(err, types.ErrTagNotFound) {
			return nil, goerr.Wrap(err, "user not found or doesn't exist",
				goerr.T(types.ErrTagNotFound),
				goerr.V("username", username),
			)
		}
		return nil, err
	}
	return resp, nil
}

// InviteToRepository adds the user as a collaborator of the repository.
// The user existence check runs first so that an unknown user surfaces
// as a not-found failure rather than a collaborator API error.
func (x *Client) InviteToRepository(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
	if _, err := x.GetUser(ctx, username); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/collaborators/%s",
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(username))

	return x.request(ctx, http.MethodPut, path, map[string]any{
		"permission": string(permission),
	}, nil)
}

// InviteToOrganization creates or updates the user's membership of the
// organization. When a membership already exists in "active" or
// "pending" state, no write is issued and the current state is
// returned as-is.
func (x *Client) InviteToOrganization(ctx context.Context, org, username string, role types.OrgRole) (map[string]any, error) {
	if _, err := x.GetUser(ctx, username); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/orgs/%s/memberships/%s",
		url.PathEscape(org), url.PathEscape(username))

	membership, err := x.request(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		if state, ok := membership["state"].(string); ok && (state == "active" || state == "pending") {
			return map[string]any{
				"state":   state,
				"message": fmt.Sprintf("User is already %s in the organization", state),
			}, nil
		}
	} else if !goerr.HasTag(err, types.ErrTagNotFound) {
		return nil, err
	}

	return x.request(ctx, http.MethodPut, path, map[string]any{
		"role": string(role),
	}, nil)
}
