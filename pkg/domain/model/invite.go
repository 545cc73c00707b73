package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/domain/types"
)

// InvitationRequest is one batch of usernames to invite to a single
// repository or organization. TargetName is "owner/repo" for the
// repository mode and the organization login otherwise.
type InvitationRequest struct {
	Users      []string         `json:"users"`
	TargetName string           `json:"target_name"`
	Permission string           `json:"permission_level"`
	Mode       types.InviteMode `json:"-"`
}

func (x *InvitationRequest) Validate() error {
	if len(x.Users) == 0 {
		return goerr.Wrap(types.ErrInvalidOption, "users is empty")
	}
	if x.TargetName == "" {
		return goerr.Wrap(types.ErrInvalidOption, "target_name is empty")
	}

	switch x.Mode {
	case types.InviteModeRepository:
		if _, _, err := ParseRepoTarget(x.TargetName); err != nil {
			return err
		}
		if !types.RepoPermission(x.Permission).IsValid() {
			return goerr.Wrap(types.ErrInvalidOption, "invalid repository permission",
				goerr.V("permission", x.Permission),
			)
		}

	case types.InviteModeOrganization:
		if !types.OrgRole(x.Permission).IsValid() {
			return goerr.Wrap(types.ErrInvalidOption, "invalid organization role",
				goerr.V("role", x.Permission),
			)
		}

	default:
		return goerr.Wrap(types.ErrInvalidOption, "invalid invite mode",
			goerr.V("mode", x.Mode),
		)
	}

	return nil
}

// ParseRepoTarget splits "owner/repo" into its two segments. Anything
// other than exactly two non-empty segments is rejected before any
// upstream call is made.
func ParseRepoTarget(target string) (string, string, error) {
	parts := strings.Split(target, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", goerr.Wrap(types.ErrInvalidTarget, "target must be in format 'owner/repo'",
			goerr.V("target", target),
		)
	}
	return parts[0], parts[1], nil
}

// InvitationOutcome is the per-user result of a batch. Immutable once
// appended to a BatchResult.
type InvitationOutcome struct {
	Username string              `json:"username"`
	Status   types.OutcomeStatus `json:"status"`
	Message  string              `json:"message"`
}

// BatchResult aggregates the outcomes of one batch call. Successful
// counts both "success" and "info" outcomes.
type BatchResult struct {
	Results    []InvitationOutcome `json:"results"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
}

func NewBatchResult(results []InvitationOutcome) *BatchResult {
	var successful int
	for _, r := range results {
		if r.Status == types.OutcomeSuccess || r.Status == types.OutcomeInfo {
			successful++
		}
	}

	return &BatchResult{
		Results:    results,
		Successful: successful,
		Failed:     len(results) - successful,
	}
}
