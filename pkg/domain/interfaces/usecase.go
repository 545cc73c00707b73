package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase Auth

import (
	"context"

	"github.com/secmon-lab/invy/pkg/domain/model"
	"github.com/secmon-lab/invy/pkg/domain/types"
)

type UseCase interface {
	BatchInvite(ctx context.Context, token types.AccessToken, req *model.InvitationRequest) (*model.BatchResult, error)
}

type Auth interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*model.TokenResponse, error)
}
