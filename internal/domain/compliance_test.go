package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMaxAllowedDeposit(t *testing.T) {
	tests := []struct {
		rent string
		want string
	}{
		{"10000", "20000"},
		{"0.01", "0.02"},
		{"12500.50", "25001"},
		{"0", "0"},
	}

	for _, tt := range tests {
		rent := decimal.RequireFromString(tt.rent)
		want := decimal.RequireFromString(tt.want)
		if got := MaxAllowedDeposit(rent); !got.Equal(want) {
			t.Errorf("MaxAllowedDeposit(%s) = %s, want %s", tt.rent, got, want)
		}
	}
}

func TestValidateDepositAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		rent    string
		wantErr error
	}{
		{"exactly at cap", "20000", "10000", nil},
		{"below cap", "15000", "10000", nil},
		{"one cent over cap", "20000.01", "10000", ErrExceedsLegalCap},
		{"well over cap", "25000", "10000", ErrExceedsLegalCap},
		{"zero rent skips cap", "999999", "0", nil},
		{"zero amount", "0", "10000", ErrInvalidAmount},
		{"negative amount", "-5", "10000", ErrInvalidAmount},
		{"zero amount with zero rent", "0", "0", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			rent := decimal.RequireFromString(tt.rent)

			err := ValidateDepositAmount(amount, rent)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDepositAmount(%s, %s) = %v, want %v", tt.amount, tt.rent, err, tt.wantErr)
			}
		})
	}
}
