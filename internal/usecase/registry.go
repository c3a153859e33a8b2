package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Registry hands out one engine per project/user pair, creating and loading
// it on first use. The engine assumes a single logical writer per project;
// the registry does not arbitrate between two users editing the same
// project.
type Registry struct {
	mu      sync.Mutex
	repo    Repository
	idGen   IDGenerator
	admins  map[string]bool
	engines map[string]*LedgerUseCase
	logger  zerolog.Logger
}

// NewRegistry creates a registry. Users listed in admins operate with a
// privileged (unconstrained) balance.
func NewRegistry(repo Repository, idGen IDGenerator, admins []string, logger zerolog.Logger) *Registry {
	adminSet := make(map[string]bool, len(admins))
	for _, id := range admins {
		adminSet[id] = true
	}

	return &Registry{
		repo:    repo,
		idGen:   idGen,
		admins:  adminSet,
		engines: make(map[string]*LedgerUseCase),
		logger:  logger,
	}
}

// Ledger returns the engine for a project/user pair, loading it from the
// repository the first time it is requested.
func (r *Registry) Ledger(ctx context.Context, projectID, userID string) (*LedgerUseCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := projectID + "\x00" + userID
	if uc, ok := r.engines[key]; ok {
		return uc, nil
	}

	uc, err := NewLedgerUseCase(ctx, r.repo, r.idGen, projectID, userID, r.admins[userID], r.logger)
	if err != nil {
		return nil, err
	}

	r.engines[key] = uc
	r.logger.Debug().Str("project_id", projectID).Str("user_id", userID).Msg("ledger engine loaded")

	return uc, nil
}
