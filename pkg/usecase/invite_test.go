package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/domain/mock"
	"github.com/secmon-lab/invy/pkg/domain/model"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/infra"
	"github.com/secmon-lab/invy/pkg/usecase"
)

func newUseCase(client *mock.GitHubClientMock, options ...usecase.Option) *usecase.UseCase {
	clients := infra.New(infra.WithGitHubClientFactory(
		func(token types.AccessToken) interfaces.GitHubClient {
			return client
		},
	))
	options = append([]usecase.Option{usecase.WithInviteInterval(0)}, options...)
	return usecase.New(clients, options...)
}

func repoRequest(users ...string) *model.InvitationRequest {
	return &model.InvitationRequest{
		Users:      users,
		TargetName: "acme/widgets",
		Permission: "write",
		Mode:       types.InviteModeRepository,
	}
}

func TestBatchInviteRepository(t *testing.T) {
	t.Run("pending invitation and existing collaborator", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToRepositoryFunc: func(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
				gt.V(t, owner).Equal("acme")
				gt.V(t, repo).Equal("widgets")
				gt.V(t, permission).Equal(types.RepoPermissionWrite)

				switch username {
				case "alice":
					return map[string]any{"state": "pending"}, nil
				case "bob":
					return nil, goerr.New("GitHub API error: User is already a collaborator of this repository")
				}
				return nil, goerr.New("unexpected user")
			},
		}

		result := gt.R1(newUseCase(client).BatchInvite(
			context.Background(), "test-token", repoRequest("alice", "bob"),
		)).NoError(t)

		gt.V(t, len(result.Results)).Equal(2)
		gt.V(t, result.Results[0]).Equal(model.InvitationOutcome{
			Username: "alice",
			Status:   types.OutcomeSuccess,
			Message:  "Invitation sent successfully",
		})
		gt.V(t, result.Results[1]).Equal(model.InvitationOutcome{
			Username: "bob",
			Status:   types.OutcomeInfo,
			Message:  "User is already a collaborator",
		})
		gt.V(t, result.Successful).Equal(2)
		gt.V(t, result.Failed).Equal(0)
	})

	t.Run("unknown user becomes error outcome without stopping the batch", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToRepositoryFunc: func(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
				if username == "ghost" {
					return nil, goerr.New("user not found or doesn't exist", goerr.T(types.ErrTagNotFound))
				}
				return map[string]any{"state": "pending"}, nil
			},
		}

		result := gt.R1(newUseCase(client).BatchInvite(
			context.Background(), "test-token", repoRequest("alice", "ghost", "carol"),
		)).NoError(t)

		gt.V(t, len(result.Results)).Equal(3)
		gt.V(t, result.Results[1].Status).Equal(types.OutcomeError)
		gt.S(t, result.Results[1].Message).Contains("user not found")
		gt.V(t, result.Results[2].Status).Equal(types.OutcomeSuccess)
		gt.V(t, result.Successful).Equal(2)
		gt.V(t, result.Failed).Equal(1)
	})

	t.Run("empty response counts as added directly", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToRepositoryFunc: func(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
				return map[string]any{}, nil
			},
		}

		result := gt.R1(newUseCase(client).BatchInvite(
			context.Background(), "test-token", repoRequest("alice"),
		)).NoError(t)

		gt.V(t, result.Results[0].Status).Equal(types.OutcomeSuccess)
		gt.V(t, result.Results[0].Message).Equal("User has been added to the repository")
	})

	t.Run("invalid target aborts before any upstream call", func(t *testing.T) {
		client := &mock.GitHubClientMock{}

		req := repoRequest("alice")
		req.TargetName = "acme-widgets"

		_, err := newUseCase(client).BatchInvite(context.Background(), "test-token", req)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidTarget))
		gt.V(t, len(client.InviteToRepositoryCalls())).Equal(0)
	})

	t.Run("outcomes preserve input order", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToRepositoryFunc: func(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
				return map[string]any{"state": "pending"}, nil
			},
		}

		users := []string{"u3", "u1", "u2"}
		result := gt.R1(newUseCase(client).BatchInvite(
			context.Background(), "test-token", repoRequest(users...),
		)).NoError(t)

		for i, username := range users {
			gt.V(t, result.Results[i].Username).Equal(username)
		}
	})

	t.Run("cancellation stops further requests promptly", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		client := &mock.GitHubClientMock{
			InviteToRepositoryFunc: func(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
				cancel()
				return map[string]any{"state": "pending"}, nil
			},
		}

		_, err := newUseCase(client).BatchInvite(ctx, "test-token", repoRequest("alice", "bob", "carol"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, context.Canceled))
		gt.V(t, len(client.InviteToRepositoryCalls())).Equal(1)
	})

	t.Run("paces between users", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToRepositoryFunc: func(ctx context.Context, owner, repo, username string, permission types.RepoPermission) (map[string]any, error) {
				return map[string]any{"state": "pending"}, nil
			},
		}

		uc := newUseCase(client, usecase.WithInviteInterval(20*time.Millisecond))

		startedAt := time.Now()
		result := gt.R1(uc.BatchInvite(
			context.Background(), "test-token", repoRequest("alice", "bob", "carol"),
		)).NoError(t)

		gt.V(t, len(result.Results)).Equal(3)
		// Two pauses for three users; no pause after the last one.
		gt.True(t, time.Since(startedAt) >= 40*time.Millisecond)
	})
}

func TestBatchInviteOrganization(t *testing.T) {
	orgRequest := func(users ...string) *model.InvitationRequest {
		return &model.InvitationRequest{
			Users:      users,
			TargetName: "acme",
			Permission: "member",
			Mode:       types.InviteModeOrganization,
		}
	}

	t.Run("classifies membership states", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToOrganizationFunc: func(ctx context.Context, org, username string, role types.OrgRole) (map[string]any, error) {
				gt.V(t, org).Equal("acme")
				gt.V(t, role).Equal(types.OrgRoleMember)

				switch username {
				case "alice":
					return map[string]any{"state": "active"}, nil
				case "bob":
					return map[string]any{"state": "pending"}, nil
				}
				return map[string]any{}, nil
			},
		}

		result := gt.R1(newUseCase(client).BatchInvite(
			context.Background(), "test-token", orgRequest("alice", "bob", "carol"),
		)).NoError(t)

		gt.V(t, result.Results[0].Message).Equal("User is already an active member")
		gt.V(t, result.Results[1].Message).Equal("Invitation sent successfully")
		gt.V(t, result.Results[2].Message).Equal("User has been invited to the organization")
		gt.V(t, result.Successful).Equal(3)
		gt.V(t, result.Failed).Equal(0)
	})

	t.Run("repeated invitation stays successful", func(t *testing.T) {
		// Simulates a stable upstream: first call creates a pending
		// membership, subsequent calls observe it.
		invited := false
		client := &mock.GitHubClientMock{
			InviteToOrganizationFunc: func(ctx context.Context, org, username string, role types.OrgRole) (map[string]any, error) {
				if invited {
					return map[string]any{"state": "pending", "message": "User is already pending in the organization"}, nil
				}
				invited = true
				return map[string]any{"state": "pending"}, nil
			},
		}

		uc := newUseCase(client)
		for range 2 {
			result := gt.R1(uc.BatchInvite(
				context.Background(), "test-token", orgRequest("alice"),
			)).NoError(t)
			gt.V(t, result.Results[0].Status).Equal(types.OutcomeSuccess)
			gt.V(t, result.Failed).Equal(0)
		}
	})

	t.Run("per-user failure is captured", func(t *testing.T) {
		client := &mock.GitHubClientMock{
			InviteToOrganizationFunc: func(ctx context.Context, org, username string, role types.OrgRole) (map[string]any, error) {
				return nil, goerr.New("GitHub API error: blocked by organization policy")
			},
		}

		result := gt.R1(newUseCase(client).BatchInvite(
			context.Background(), "test-token", orgRequest("alice"),
		)).NoError(t)

		gt.V(t, result.Results[0].Status).Equal(types.OutcomeError)
		gt.S(t, result.Results[0].Message).Contains("blocked by organization policy")
		gt.V(t, result.Failed).Equal(1)
	})
}
