package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"numledger/internal/domain"
	"numledger/internal/usecase"
	"numledger/internal/usecase/mocks"
)

func TestBalanceLedger_DebitCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().LoadBalance(gomock.Any(), "u1").Return(decimal.NewFromInt(1000), nil)
	repo.EXPECT().SaveBalance(gomock.Any(), "u1", decimal.NewFromInt(500)).Return(nil)
	repo.EXPECT().SaveBalance(gomock.Any(), "u1", decimal.NewFromInt(1000)).Return(nil)

	ledger := usecase.NewBalanceLedger(repo, "u1", false)
	ctx := context.Background()

	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	balance, err := ledger.Debit(ctx, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("balance after debit = %s, want 500", balance)
	}

	balance, err = ledger.Credit(ctx, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance after credit = %s, want 1000", balance)
	}
}

func TestBalanceLedger_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No SaveBalance expectation: a rejected debit never touches storage.
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().LoadBalance(gomock.Any(), "u1").Return(decimal.NewFromInt(1000), nil)

	ledger := usecase.NewBalanceLedger(repo, "u1", false)
	ctx := context.Background()

	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := ledger.Debit(ctx, decimal.NewFromInt(2500))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if !ledger.Balance().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s after rejected debit, want 1000", ledger.Balance())
	}
}

func TestBalanceLedger_PrivilegedSkipsAccounting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Privileged accounts never write to storage.
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().LoadBalance(gomock.Any(), "admin").Return(decimal.Zero, nil)

	ledger := usecase.NewBalanceLedger(repo, "admin", true)
	ctx := context.Background()

	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := ledger.Debit(ctx, decimal.NewFromInt(1000000)); err != nil {
		t.Fatalf("privileged debit: %v", err)
	}
	if _, err := ledger.Credit(ctx, decimal.NewFromInt(1000000)); err != nil {
		t.Fatalf("privileged credit: %v", err)
	}

	if !ledger.Balance().IsZero() {
		t.Errorf("privileged balance moved to %s", ledger.Balance())
	}
}

func TestBalanceLedger_SaveFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("db down")

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().LoadBalance(gomock.Any(), "u1").Return(decimal.NewFromInt(1000), nil)
	repo.EXPECT().SaveBalance(gomock.Any(), "u1", gomock.Any()).Return(boom)

	ledger := usecase.NewBalanceLedger(repo, "u1", false)
	ctx := context.Background()

	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := ledger.Debit(ctx, decimal.NewFromInt(500)); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}

	if !ledger.Balance().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s after failed save, want 1000", ledger.Balance())
	}
}

func TestBalanceLedger_ApplySignConvention(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().LoadBalance(gomock.Any(), "u1").Return(decimal.NewFromInt(1000), nil)
	repo.EXPECT().SaveBalance(gomock.Any(), "u1", decimal.NewFromInt(700)).Return(nil)
	repo.EXPECT().SaveBalance(gomock.Any(), "u1", decimal.NewFromInt(1000)).Return(nil)

	ledger := usecase.NewBalanceLedger(repo, "u1", false)
	ctx := context.Background()

	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Positive net debits.
	if err := ledger.Apply(ctx, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !ledger.Balance().Equal(decimal.NewFromInt(700)) {
		t.Errorf("balance = %s, want 700", ledger.Balance())
	}

	// Negative net credits.
	if err := ledger.Apply(ctx, decimal.NewFromInt(-300)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !ledger.Balance().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want 1000", ledger.Balance())
	}

	// Zero net goes nowhere near storage.
	if err := ledger.Apply(ctx, decimal.Zero); err != nil {
		t.Fatalf("apply zero: %v", err)
	}
}
