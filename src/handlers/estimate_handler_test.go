package handlers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/username/magifolio/backend/src/models"
)

func strPtr(s string) *string { return &s }

func TestParseMoneyField(t *testing.T) {
	tests := []struct {
		name         string
		raw          *string
		expected     string
		wantWarnings int
	}{
		{"absent field is silently zero", nil, "0", 0},
		{"plain number", strPtr("1234.56"), "1234.56", 0},
		{"formatted number", strPtr("$1,234.56"), "1234.56", 0},
		// Negative values pass through here; the calculation layer clamps
		// them to zero with its own warning.
		{"negative passes through for downstream clamping", strPtr("-500"), "-500", 0},
		{"empty string warns", strPtr(""), "0", 1},
		{"whitespace warns", strPtr("   "), "0", 1},
		{"garbage warns", strPtr("abc"), "0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings []models.Warning
			got := parseMoneyField("wages", tt.raw, &warnings)

			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
			assert.Len(t, warnings, tt.wantWarnings)
			for _, w := range warnings {
				assert.Equal(t, "wages", w.Field)
			}
		})
	}
}
