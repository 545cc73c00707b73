package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/domain/model"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/infra"
	"github.com/secmon-lab/invy/pkg/utils/logging"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const sessionTokenTTL = 30 * time.Minute

// OAuthScopes are requested during the login redirect. Repository and
// organization invitations both need admin-level scopes.
var OAuthScopes = []string{"repo", "admin:org", "read:org"}

// Auth exchanges GitHub OAuth authorization codes for access tokens
// and issues a signed session JWT alongside.
type Auth struct {
	clients      *infra.Clients
	clientID     types.OAuthClientID
	clientSecret types.OAuthSecret
	jwtSecret    types.JWTSecret

	endpoint   oauth2.Endpoint
	apiBaseURL string
}

var _ interfaces.Auth = (*Auth)(nil)

type AuthOption func(*Auth)

// WithOAuthEndpoint replaces the GitHub OAuth endpoint. Used by tests
// to point the exchange at a local server.
func WithOAuthEndpoint(endpoint oauth2.Endpoint) AuthOption {
	return func(x *Auth) {
		x.endpoint = endpoint
	}
}

// WithAPIBaseURL replaces the GitHub API base URL for the
// authenticated-user lookup.
func WithAPIBaseURL(baseURL string) AuthOption {
	return func(x *Auth) {
		x.apiBaseURL = baseURL
	}
}

func NewAuth(clients *infra.Clients, clientID types.OAuthClientID, clientSecret types.OAuthSecret, jwtSecret types.JWTSecret, options ...AuthOption) *Auth {
	auth := &Auth{
		clients:      clients,
		clientID:     clientID,
		clientSecret: clientSecret,
		jwtSecret:    jwtSecret,
		endpoint:     githuboauth.Endpoint,
	}

	for _, opt := range options {
		opt(auth)
	}

	return auth
}

func (x *Auth) ExchangeCode(ctx context.Context, code, redirectURI string) (*model.TokenResponse, error) {
	conf := &oauth2.Config{
		ClientID:     string(x.clientID),
		ClientSecret: string(x.clientSecret),
		Endpoint:     x.endpoint,
		RedirectURL:  redirectURI,
		Scopes:       OAuthScopes,
	}

	if hc, ok := x.clients.HTTPClient().(*http.Client); ok {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange authorization code")
	}

	ghUser, err := x.fetchAuthenticatedUser(ctx, conf, token)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("user authenticated",
		slog.String("login", ghUser.GetLogin()),
		slog.Int64("id", ghUser.GetID()),
	)

	resp := &model.TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   "bearer",
		User: model.GitHubUser{
			ID:    ghUser.GetID(),
			Login: ghUser.GetLogin(),
			Name:  ghUser.GetName(),
			Email: ghUser.GetEmail(),
		},
	}

	if x.jwtSecret != "" {
		sessionToken, err := x.issueSessionToken(ctx, ghUser)
		if err != nil {
			return nil, err
		}
		resp.SessionToken = sessionToken
	}

	return resp, nil
}

func (x *Auth) fetchAuthenticatedUser(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*github.User, error) {
	gh := github.NewClient(conf.Client(ctx, token))
	if x.apiBaseURL != "" {
		baseURL, err := url.Parse(x.apiBaseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid API base URL", goerr.V("url", x.apiBaseURL))
		}
		// go-github requires the base URL to end with a slash
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		gh.BaseURL = baseURL
	}

	user, _, err := gh.Users.Get(ctx, "")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get authenticated user")
	}

	return user, nil
}

func (x *Auth) issueSessionToken(ctx context.Context, user *github.User) (string, error) {
	now := logging.CtxTime(ctx)

	tok, err := jwt.NewBuilder().
		Subject(user.GetLogin()).
		IssuedAt(now).
		Expiration(now.Add(sessionTokenTTL)).
		Claim("github_id", user.GetID()).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build session token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(x.jwtSecret)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign session token")
	}

	return string(signed), nil
}
