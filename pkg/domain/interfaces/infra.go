package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . GitHubClient

import (
	"context"

	"github.com/secmon-lab/invy/pkg/domain/types"
)

// GitHubClient is the GitHub REST surface used by the invitation
// usecases. All methods return the raw decoded JSON body; callers
// inspect fields such as "state" directly.
type GitHubClient interface {
	GetUser(ctx context.Context, username string) (map[string]any, error)
	InviteToRepository(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error)
	InviteToOrganization(ctx context.Context, org, username string, role types.OrgRole) (map[string]any, error)
}

// GitHubClientFactory builds a client bound to one access token. Each
// batch owns its own client instance, so rate-limit bookkeeping never
// crosses between concurrent batches.
type GitHubClientFactory func(token types.AccessToken) GitHubClient
