package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"numledger/internal/domain"
)

// BalanceLedger tracks one user's spendable balance. It is the single place
// the debit/credit pairing rule lives: every entry mutation with a non-zero
// net amount goes through Apply or Unapply here, never through ad hoc
// arithmetic at the call sites.
type BalanceLedger struct {
	repo    Repository
	account domain.BalanceAccount
}

// NewBalanceLedger creates a ledger for one user. Privileged accounts skip
// balance accounting entirely.
func NewBalanceLedger(repo Repository, userID string, privileged bool) *BalanceLedger {
	return &BalanceLedger{
		repo: repo,
		account: domain.BalanceAccount{
			UserID:     userID,
			Balance:    decimal.Zero,
			Privileged: privileged,
		},
	}
}

// Load replaces the in-memory balance with the repository contents.
func (l *BalanceLedger) Load(ctx context.Context) error {
	balance, err := l.repo.LoadBalance(ctx, l.account.UserID)
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}

	l.account.Balance = balance

	return nil
}

// Balance returns the current balance.
func (l *BalanceLedger) Balance() decimal.Decimal {
	return l.account.Balance
}

// Privileged reports whether this account skips balance accounting.
func (l *BalanceLedger) Privileged() bool {
	return l.account.Privileged
}

// HasSufficient reports whether a debit of amount would succeed.
func (l *BalanceLedger) HasSufficient(amount decimal.Decimal) bool {
	return l.account.CanSpend(amount)
}

// Debit decrements the balance by amount. The sufficiency check runs again
// here, not just at the caller, so the balance can never go below zero
// between check and commit.
func (l *BalanceLedger) Debit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return l.account.Balance, domain.ErrInvalidAmount
	}

	if l.account.Privileged || amount.IsZero() {
		return l.account.Balance, nil
	}

	if !l.account.CanSpend(amount) {
		return l.account.Balance, fmt.Errorf("%w: short by %s PKR", domain.ErrInsufficientBalance, l.account.Shortfall(amount))
	}

	return l.set(ctx, l.account.Balance.Sub(amount))
}

// Credit increments the balance by amount. Used for refunds on delete and
// for entries whose net amount is negative.
func (l *BalanceLedger) Credit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return l.account.Balance, domain.ErrInvalidAmount
	}

	if l.account.Privileged || amount.IsZero() {
		return l.account.Balance, nil
	}

	return l.set(ctx, l.account.Balance.Add(amount))
}

// Apply charges the balance for an entry net amount: positive nets debit,
// negative nets credit, zero is a no-op.
func (l *BalanceLedger) Apply(ctx context.Context, net decimal.Decimal) error {
	var err error
	switch {
	case net.IsPositive():
		_, err = l.Debit(ctx, net)
	case net.IsNegative():
		_, err = l.Credit(ctx, net.Neg())
	}

	return err
}

// Unapply reverses the exact balance effect Apply(net) had.
func (l *BalanceLedger) Unapply(ctx context.Context, net decimal.Decimal) error {
	return l.Apply(ctx, net.Neg())
}

func (l *BalanceLedger) set(ctx context.Context, balance decimal.Decimal) (decimal.Decimal, error) {
	prev := l.account.Balance
	l.account.Balance = balance

	if err := l.repo.SaveBalance(ctx, l.account.UserID, balance); err != nil {
		l.account.Balance = prev
		return prev, fmt.Errorf("save balance: %w", err)
	}

	return balance, nil
}
