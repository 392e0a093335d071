package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeductionValidate(t *testing.T) {
	tests := []struct {
		name        string
		description string
		cost        string
		wantErr     error
	}{
		{"valid deduction", "broken window pane", "4000", nil},
		{"empty description", "", "4000", ErrEmptyDescription},
		{"whitespace description", "   ", "4000", ErrEmptyDescription},
		{"zero cost", "broken window pane", "0", ErrInvalidAmount},
		{"negative cost", "broken window pane", "-10", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DeductionItem{
				Description: tt.description,
				Cost:        decimal.RequireFromString(tt.cost),
			}
			if err := d.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisputeReason(t *testing.T) {
	if err := ValidateDisputeReason(strings.Repeat("x", 19)); err != ErrReasonTooShort {
		t.Errorf("19 chars: expected ErrReasonTooShort, got %v", err)
	}
	if err := ValidateDisputeReason(strings.Repeat("x", 20)); err != nil {
		t.Errorf("20 chars: unexpected error %v", err)
	}
	// padding does not count towards the minimum
	if err := ValidateDisputeReason("  short  " + strings.Repeat(" ", 30)); err != ErrReasonTooShort {
		t.Errorf("padded reason: expected ErrReasonTooShort, got %v", err)
	}
}
