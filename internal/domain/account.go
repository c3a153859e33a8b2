package domain

import "github.com/shopspring/decimal"

// BalanceAccount is a user's spendable balance. Privileged accounts are
// conceptually infinite: they pass every sufficiency check and are never
// debited or credited.
type BalanceAccount struct {
	UserID     string
	Balance    decimal.Decimal
	Privileged bool
}

// CanSpend reports whether a debit of amount would keep the balance
// non-negative.
func (a *BalanceAccount) CanSpend(amount decimal.Decimal) bool {
	if a.Privileged {
		return true
	}

	return a.Balance.GreaterThanOrEqual(amount)
}

// Shortfall returns how much the balance falls short of amount, zero when
// the account can cover it.
func (a *BalanceAccount) Shortfall(amount decimal.Decimal) decimal.Decimal {
	if a.CanSpend(amount) {
		return decimal.Zero
	}

	return amount.Sub(a.Balance)
}
