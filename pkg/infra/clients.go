package infra

import (
	"net/http"

	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/infra/githubapi"
)

type Clients struct {
	githubFactory interfaces.GitHubClientFactory
	httpClient    HTTPClient
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		httpClient: http.DefaultClient,
		githubFactory: func(token types.AccessToken) interfaces.GitHubClient {
			return githubapi.New(token)
		},
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

// NewGitHubClient returns a fresh client bound to the given token.
// Each caller gets its own instance with independent rate-limit state.
func (x *Clients) NewGitHubClient(token types.AccessToken) interfaces.GitHubClient {
	return x.githubFactory(token)
}

func (x *Clients) HTTPClient() HTTPClient {
	return x.httpClient
}

func WithGitHubClientFactory(factory interfaces.GitHubClientFactory) Option {
	return func(x *Clients) {
		x.githubFactory = factory
	}
}

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}
