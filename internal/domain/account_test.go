package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBalanceAccount_CanSpend(t *testing.T) {
	tests := []struct {
		name       string
		balance    int64
		privileged bool
		amount     int64
		want       bool
	}{
		{"exact balance", 1000, false, 1000, true},
		{"under balance", 1000, false, 500, true},
		{"over balance", 1000, false, 1001, false},
		{"zero balance zero spend", 0, false, 0, true},
		{"privileged always passes", 0, true, 1000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &BalanceAccount{
				Balance:    decimal.NewFromInt(tt.balance),
				Privileged: tt.privileged,
			}

			if got := a.CanSpend(decimal.NewFromInt(tt.amount)); got != tt.want {
				t.Errorf("CanSpend(%d) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestBalanceAccount_Shortfall(t *testing.T) {
	a := &BalanceAccount{Balance: decimal.NewFromInt(1000)}

	if !a.Shortfall(decimal.NewFromInt(500)).IsZero() {
		t.Error("expected zero shortfall when balance covers the amount")
	}

	short := a.Shortfall(decimal.NewFromInt(2500))
	if !short.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("shortfall = %s, want 1500", short)
	}
}
