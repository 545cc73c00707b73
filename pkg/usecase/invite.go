package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/domain/model"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/utils/logging"
)

// BatchInvite processes every username of the request in order and
// never stops early on a per-user failure. Failures before the first
// upstream call (validation, target parsing) abort the whole batch.
func (x *UseCase) BatchInvite(ctx context.Context, token types.AccessToken, req *model.InvitationRequest) (*model.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var owner, repo string
	if req.Mode == types.InviteModeRepository {
		var err error
		if owner, repo, err = model.ParseRepoTarget(req.TargetName); err != nil {
			return nil, err
		}
	}

	client := x.clients.NewGitHubClient(token)

	logging.From(ctx).Info("starting batch invitation",
		slog.Any("mode", req.Mode),
		slog.String("target", req.TargetName),
		slog.String("permission", req.Permission),
		slog.Int("user_count", len(req.Users)),
	)

	results := make([]model.InvitationOutcome, 0, len(req.Users))
	for i, username := range req.Users {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "batch invitation canceled",
				goerr.V("processed", len(results)),
				goerr.V("requested", len(req.Users)),
			)
		}

		var outcome model.InvitationOutcome
		switch req.Mode {
		case types.InviteModeRepository:
			outcome = x.inviteToRepository(ctx, client, owner, repo, username, types.RepoPermission(req.Permission))
		case types.InviteModeOrganization:
			outcome = x.inviteToOrganization(ctx, client, req.TargetName, username, types.OrgRole(req.Permission))
		}
		results = append(results, outcome)

		logging.From(ctx).Debug("processed invitation",
			slog.String("username", username),
			slog.Any("status", outcome.Status),
			slog.String("message", outcome.Message),
		)

		if i < len(req.Users)-1 {
			if err := sleep(ctx, x.interval); err != nil {
				return nil, err
			}
		}
	}

	result := model.NewBatchResult(results)

	logging.From(ctx).Info("batch invitation finished",
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func (x *UseCase) inviteToRepository(ctx context.Context, client interfaces.GitHubClient, owner, repo, username string, permission types.RepoPermission) model.InvitationOutcome {
	resp, err := client.InviteToRepository(ctx, owner, repo, username, permission)
	if err != nil {
		// The collaborator API has no structured reason code for this
		// case, so the message text is the only signal available.
		if strings.Contains(strings.ToLower(err.Error()), "already a collaborator") {
			return model.InvitationOutcome{
				Username: username,
				Status:   types.OutcomeInfo,
				Message:  "User is already a collaborator",
			}
		}

		return model.InvitationOutcome{
			Username: username,
			Status:   types.OutcomeError,
			Message:  err.Error(),
		}
	}

	if state, _ := resp["state"].(string); state == "pending" {
		return model.InvitationOutcome{
			Username: username,
			Status:   types.OutcomeSuccess,
			Message:  "Invitation sent successfully",
		}
	}

	message := "User has been added to the repository"
	if msg, ok := resp["message"].(string); ok && msg != "" {
		message = msg
	}

	return model.InvitationOutcome{
		Username: username,
		Status:   types.OutcomeSuccess,
		Message:  message,
	}
}

func (x *UseCase) inviteToOrganization(ctx context.Context, client interfaces.GitHubClient, org, username string, role types.OrgRole) model.InvitationOutcome {
	resp, err := client.InviteToOrganization(ctx, org, username, role)
	if err != nil {
		return model.InvitationOutcome{
			Username: username,
			Status:   types.OutcomeError,
			Message:  err.Error(),
		}
	}

	switch state, _ := resp["state"].(string); state {
	case "active":
		return model.InvitationOutcome{
			Username: username,
			Status:   types.OutcomeSuccess,
			Message:  "User is already an active member",
		}

	case "pending":
		return model.InvitationOutcome{
			Username: username,
			Status:   types.OutcomeSuccess,
			Message:  "Invitation sent successfully",
		}

	default:
		message := "User has been invited to the organization"
		if msg, ok := resp["message"].(string); ok && msg != "" {
			message = msg
		}
		return model.InvitationOutcome{
			Username: username,
			Status:   types.OutcomeSuccess,
			Message:  message,
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "batch invitation canceled while pacing")
	case <-timer.C:
		return nil
	}
}
