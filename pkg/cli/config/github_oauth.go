package config

import (
	"log/slog"

	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type GitHubOAuth struct {
	clientID     types.OAuthClientID
	clientSecret types.OAuthSecret `masq:"secret"`
	callbackURL  string
}

func (x *GitHubOAuth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-client-id",
			Usage:       "GitHub OAuth App client ID",
			Category:    "GitHub OAuth",
			Destination: (*string)(&x.clientID),
			Sources:     cli.EnvVars("INVY_GITHUB_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "github-client-secret",
			Usage:       "GitHub OAuth App client secret",
			Category:    "GitHub OAuth",
			Destination: (*string)(&x.clientSecret),
			Sources:     cli.EnvVars("INVY_GITHUB_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-callback-url",
			Usage:       "OAuth redirect URI registered on the GitHub OAuth App",
			Category:    "GitHub OAuth",
			Destination: &x.callbackURL,
			Sources:     cli.EnvVars("INVY_GITHUB_CALLBACK_URL"),
		},
	}
}

func (x GitHubOAuth) IsConfigured() bool {
	return x.clientID != "" && x.clientSecret != ""
}

func (x GitHubOAuth) ClientID() types.OAuthClientID {
	return x.clientID
}

func (x GitHubOAuth) ClientSecret() types.OAuthSecret {
	return x.clientSecret
}

func (x GitHubOAuth) CallbackURL() string {
	return x.callbackURL
}

func (x GitHubOAuth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("ClientID", string(x.clientID)),
		slog.Int("ClientSecret.len", len(x.clientSecret)),
		slog.String("CallbackURL", x.callbackURL),
	)
}
