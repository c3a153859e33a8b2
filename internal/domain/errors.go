package domain

import "errors"

var (
	// Entry errors
	ErrInvalidNumberFormat = errors.New("number does not match the required format")
	ErrEmptyEntry          = errors.New("entry must move at least one amount")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrImmutableField      = errors.New("number and entry type cannot change after creation")

	// Balance errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// ErrBalanceSync is returned when an entry mutation and its paired balance
	// mutation could not be applied (or reverted) together. The store may be
	// left in its last-known-consistent state at best.
	ErrBalanceSync = errors.New("balance is out of sync with the entry ledger")
)
