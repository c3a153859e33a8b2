package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"numledger/internal/usecase"
	"numledger/internal/usecase/mocks"
)

func TestRegistry_ReusesEnginePerPair(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	reg := usecase.NewRegistry(repo, mocks.NewSequenceIDGenerator(), nil, zerolog.Nop())
	ctx := context.Background()

	a, err := reg.Ledger(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}

	b, err := reg.Ledger(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}

	if a != b {
		t.Error("expected the same engine for the same project/user pair")
	}

	other, err := reg.Ledger(ctx, "p1", "u2")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if a == other {
		t.Error("expected a distinct engine for a different user")
	}
}

func TestRegistry_AdminsArePrivileged(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	reg := usecase.NewRegistry(repo, mocks.NewSequenceIDGenerator(), []string{"admin"}, zerolog.Nop())
	ctx := context.Background()

	admin, err := reg.Ledger(ctx, "p1", "admin")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if !admin.Privileged() {
		t.Error("listed admin should be privileged")
	}

	regular, err := reg.Ledger(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if regular.Privileged() {
		t.Error("unlisted user should not be privileged")
	}
}
