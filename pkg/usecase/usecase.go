package usecase

import (
	"time"

	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/infra"
)

// defaultInviteInterval paces per-user requests inside a batch to stay
// under GitHub's abuse rate limits. This is independent of the reactive
// rate-limit wait in the API client.
const defaultInviteInterval = 500 * time.Millisecond

type UseCase struct {
	clients  *infra.Clients
	interval time.Duration
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithInviteInterval overrides the minimum pause between per-user
// invite requests. Zero disables the pacing.
func WithInviteInterval(interval time.Duration) Option {
	return func(x *UseCase) {
		x.interval = interval
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients:  clients,
		interval: defaultInviteInterval,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}
