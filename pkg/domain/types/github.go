package types

import (
	"log/slog"

	"github.com/google/uuid"
)

type (
	AccessToken    string
	JWTSecret      string
	OAuthClientID  string
	OAuthSecret    string
	RepoPermission string
	OrgRole        string
	OutcomeStatus  string
	InviteMode     string
	RequestID      string
)

const (
	RepoPermissionRead  RepoPermission = "read"
	RepoPermissionWrite RepoPermission = "write"
	RepoPermissionAdmin RepoPermission = "admin"

	OrgRoleMember OrgRole = "member"
	OrgRoleAdmin  OrgRole = "admin"
)

const (
	// OutcomeSuccess is set when an invitation was sent or the user
	// already holds the requested access.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeInfo is set when the request was redundant but harmless,
	// e.g. the user is already a collaborator.
	OutcomeInfo OutcomeStatus = "info"
	OutcomeError OutcomeStatus = "error"
)

const (
	InviteModeRepository   InviteMode = "repository"
	InviteModeOrganization InviteMode = "organization"
)

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

func (x RequestID) String() string {
	return string(x)
}

func (x AccessToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x AccessToken) String() string {
	return "***********"
}

func (x JWTSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x JWTSecret) String() string {
	return "***********"
}

func (x OAuthSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x OAuthSecret) String() string {
	return "***********"
}

// IsValid reports whether the permission is one of the repository
// collaborator levels accepted by the upstream API.
func (x RepoPermission) IsValid() bool {
	switch x {
	case RepoPermissionRead, RepoPermissionWrite, RepoPermissionAdmin:
		return true
	}
	return false
}

func (x OrgRole) IsValid() bool {
	switch x {
	case OrgRoleMember, OrgRoleAdmin:
		return true
	}
	return false
}
