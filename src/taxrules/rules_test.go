package taxrules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

func TestStandardDeduction(t *testing.T) {
	table := Default()

	tests := []struct {
		name     string
		status   models.FilingStatus
		expected string
	}{
		{"single", models.StatusSingle, "15000"},
		{"married filing jointly", models.StatusMarriedFilingJointly, "30000"},
		{"married filing separately", models.StatusMarriedFilingSeparately, "15000"},
		{"head of household", models.StatusHeadOfHousehold, "22500"},
		{"qualifying widow", models.StatusQualifyingWidow, "30000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.StandardDeduction(2025, tt.status)
			if err != nil {
				t.Fatalf("StandardDeduction() error = %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("StandardDeduction() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestForYearUnsupported(t *testing.T) {
	table := Default()

	_, err := table.ForYear(1999)
	if !errors.Is(err, ErrUnsupportedTaxYear) {
		t.Fatalf("ForYear(1999) error = %v, expected ErrUnsupportedTaxYear", err)
	}

	if _, err := table.StandardDeduction(1999, models.StatusSingle); !errors.Is(err, ErrUnsupportedTaxYear) {
		t.Errorf("StandardDeduction(1999) error = %v, expected ErrUnsupportedTaxYear", err)
	}
	if _, err := table.IRMAATier(1999, models.StatusSingle, decimal.NewFromInt(100000)); !errors.Is(err, ErrUnsupportedTaxYear) {
		t.Errorf("IRMAATier(1999) error = %v, expected ErrUnsupportedTaxYear", err)
	}
}

func TestIRMAATier(t *testing.T) {
	table := Default()

	tests := []struct {
		name     string
		status   models.FilingStatus
		magi     string
		expected string
	}{
		{"zero MAGI", models.StatusSingle, "0", "Standard premium"},
		{"below first threshold", models.StatusSingle, "105999.99", "Standard premium"},
		// A MAGI exactly at a boundary belongs to the higher bracket.
		{"exactly at first threshold", models.StatusSingle, "106000", "Tier 1"},
		{"just above first threshold", models.StatusSingle, "106000.01", "Tier 1"},
		{"mid tier 2", models.StatusSingle, "150000", "Tier 2"},
		{"exactly at top threshold", models.StatusSingle, "500000", "Tier 5"},
		{"far above top threshold", models.StatusSingle, "2000000", "Tier 5"},
		{"joint below first threshold", models.StatusMarriedFilingJointly, "211999.99", "Standard premium"},
		{"joint exactly at first threshold", models.StatusMarriedFilingJointly, "212000", "Tier 1"},
		// Statuses without their own table use the single-filer thresholds.
		{"head of household uses single thresholds", models.StatusHeadOfHousehold, "106000", "Tier 1"},
		{"separate uses single thresholds", models.StatusMarriedFilingSeparately, "133000", "Tier 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.IRMAATier(2025, tt.status, decimal.RequireFromString(tt.magi))
			if err != nil {
				t.Fatalf("IRMAATier() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("IRMAATier(%s) = %q, expected %q", tt.magi, got, tt.expected)
			}
		})
	}
}

func TestIRMAATierMonotonic(t *testing.T) {
	table := Default()

	// Walking MAGI upward must never move to a lower tier.
	order := map[string]int{
		"Standard premium": 0,
		"Tier 1":           1,
		"Tier 2":           2,
		"Tier 3":           3,
		"Tier 4":           4,
		"Tier 5":           5,
	}
	previous := -1
	for magi := int64(0); magi <= 800000; magi += 1000 {
		tier, err := table.IRMAATier(2025, models.StatusSingle, decimal.NewFromInt(magi))
		if err != nil {
			t.Fatalf("IRMAATier(%d) error = %v", magi, err)
		}
		rank, ok := order[tier]
		if !ok {
			t.Fatalf("IRMAATier(%d) returned unknown tier %q", magi, tier)
		}
		if rank < previous {
			t.Fatalf("tier rank dropped from %d to %d at MAGI %d", previous, rank, magi)
		}
		previous = rank
	}
}

func TestYears(t *testing.T) {
	years := Default().Years()
	if len(years) == 0 {
		t.Fatal("Years() returned no years")
	}
	found := false
	for _, y := range years {
		if y == 2025 {
			found = true
		}
	}
	if !found {
		t.Errorf("Years() = %v, expected to contain 2025", years)
	}
}

func TestLoadFile(t *testing.T) {
	content := `{
		"years": [
			{
				"year": 2030,
				"standard_deductions": {"single": "16000"},
				"irmaa_brackets": {
					"single": [
						{"lower_bound": "0", "tier": "Standard premium"},
						{"lower_bound": "110000", "tier": "Tier 1"}
					]
				}
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	table := Default()
	if err := table.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	deduction, err := table.StandardDeduction(2030, models.StatusSingle)
	if err != nil {
		t.Fatalf("StandardDeduction(2030) error = %v", err)
	}
	if !deduction.Equal(decimal.NewFromInt(16000)) {
		t.Errorf("StandardDeduction(2030) = %v, expected 16000", deduction)
	}

	tier, err := table.IRMAATier(2030, models.StatusSingle, decimal.NewFromInt(110000))
	if err != nil {
		t.Fatalf("IRMAATier(2030) error = %v", err)
	}
	if tier != "Tier 1" {
		t.Errorf("IRMAATier(2030, 110000) = %q, expected Tier 1", tier)
	}

	// The 2030 year has no rate schedules, so tax estimates must be skipped.
	year, err := table.ForYear(2030)
	if err != nil {
		t.Fatal(err)
	}
	if year.HasTaxSchedules() {
		t.Error("HasTaxSchedules() = true for a year loaded without brackets")
	}
}

func TestLoadFileRejectsBadBrackets(t *testing.T) {
	content := `{
		"years": [
			{
				"year": 2031,
				"standard_deductions": {"single": "16000"},
				"irmaa_brackets": {
					"single": [
						{"lower_bound": "110000", "tier": "Tier 1"}
					]
				}
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	table := Default()
	if err := table.LoadFile(path); err == nil {
		t.Fatal("LoadFile() accepted IRMAA brackets without a zero lower bound")
	}
	if _, err := table.ForYear(2031); !errors.Is(err, ErrUnsupportedTaxYear) {
		t.Error("rejected year was still added to the table")
	}
}
