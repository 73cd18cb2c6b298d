// Package taxrules holds the per-year reference tables (standard deductions,
// IRMAA brackets, federal/state rate schedules) and the lookup logic over
// them. Tables are immutable after initialization and safe for concurrent
// readers; new years are added by data, not code.
package taxrules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

var (
	ErrUnsupportedTaxYear  = errors.New("unsupported tax year")
	ErrUnknownFilingStatus = errors.New("unknown filing status")
)

// IRMAABracket is one entry of an IRMAA tier table, ordered ascending by
// lower bound. A MAGI exactly at a lower bound belongs to that bracket.
type IRMAABracket struct {
	LowerBound decimal.Decimal `json:"lower_bound"`
	Tier       string          `json:"tier"`
}

// RateBracket is one entry of a progressive rate schedule: the marginal rate
// applied up to (and including) UpperBound.
type RateBracket struct {
	UpperBound decimal.Decimal `json:"upper_bound"`
	Rate       decimal.Decimal `json:"rate"`
}

// YearRules bundles every table for a single tax year. FederalBrackets,
// LTCGBrackets and the state fields are optional; when absent the calculator
// skips the tax estimate for that year.
type YearRules struct {
	Year               int                                     `json:"year"`
	StandardDeductions map[models.FilingStatus]decimal.Decimal `json:"standard_deductions"`
	IRMAABrackets      map[models.FilingStatus][]IRMAABracket  `json:"irmaa_brackets"`
	FederalBrackets    map[models.FilingStatus][]RateBracket   `json:"federal_brackets,omitempty"`
	LTCGBrackets       map[models.FilingStatus][]RateBracket   `json:"ltcg_brackets,omitempty"`
	StateRate          decimal.Decimal                         `json:"state_rate"`
	StateDeductions    map[models.FilingStatus]decimal.Decimal `json:"state_deductions,omitempty"`
}

// HasTaxSchedules reports whether the year carries the bracket data needed
// for the federal/state tax estimate.
func (y *YearRules) HasTaxSchedules() bool {
	return len(y.FederalBrackets) > 0 && len(y.LTCGBrackets) > 0
}

// Table is the read-only collection of YearRules keyed by tax year.
type Table struct {
	years map[int]*YearRules
}

// Default returns a table populated with the built-in rules.
func Default() *Table {
	t := &Table{years: make(map[int]*YearRules)}
	for _, y := range builtinRules() {
		t.years[y.Year] = y
	}
	return t
}

// LoadFile merges year rules from a JSON file into the table, overriding any
// built-in year with the same number. Meant to be called once at startup,
// before the table is shared.
func (t *Table) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tax rules file %s: %w", path, err)
	}
	var file struct {
		Years []*YearRules `json:"years"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing tax rules file %s: %w", path, err)
	}
	for _, y := range file.Years {
		if err := validateYear(y); err != nil {
			return fmt.Errorf("tax rules file %s: %w", path, err)
		}
		t.years[y.Year] = y
	}
	return nil
}

func validateYear(y *YearRules) error {
	if y.Year < 1913 {
		return fmt.Errorf("invalid tax year %d", y.Year)
	}
	if len(y.StandardDeductions) == 0 {
		return fmt.Errorf("year %d: no standard deductions", y.Year)
	}
	if len(y.IRMAABrackets) == 0 {
		return fmt.Errorf("year %d: no IRMAA brackets", y.Year)
	}
	for status, brackets := range y.IRMAABrackets {
		sort.Slice(brackets, func(i, j int) bool {
			return brackets[i].LowerBound.LessThan(brackets[j].LowerBound)
		})
		if len(brackets) == 0 || !brackets[0].LowerBound.IsZero() {
			return fmt.Errorf("year %d: IRMAA brackets for %s must start at a zero lower bound", y.Year, status)
		}
	}
	return nil
}

// Years returns every known tax year in ascending order.
func (t *Table) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// ForYear returns the rules for a tax year, or ErrUnsupportedTaxYear.
// Unknown years are rejected outright rather than falling back to the
// nearest known year; the caller owns that decision.
func (t *Table) ForYear(year int) (*YearRules, error) {
	y, ok := t.years[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d (known years: %v)", ErrUnsupportedTaxYear, year, t.Years())
	}
	return y, nil
}

// StandardDeduction returns the standard deduction for a year and status.
func (t *Table) StandardDeduction(year int, status models.FilingStatus) (decimal.Decimal, error) {
	y, err := t.ForYear(year)
	if err != nil {
		return decimal.Zero, err
	}
	amount, ok := y.StandardDeductions[status]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownFilingStatus, status)
	}
	return amount, nil
}

// IRMAATier resolves the IRMAA tier label for a MAGI: the highest bracket
// whose lower bound is less than or equal to the MAGI wins, so a MAGI
// exactly at a boundary lands in the higher bracket. Statuses without their
// own table resolve against the single-filer brackets.
func (t *Table) IRMAATier(year int, status models.FilingStatus, magi decimal.Decimal) (string, error) {
	y, err := t.ForYear(year)
	if err != nil {
		return "", err
	}
	brackets, ok := y.IRMAABrackets[status]
	if !ok {
		brackets = y.IRMAABrackets[models.StatusSingle]
	}
	if len(brackets) == 0 {
		return "", fmt.Errorf("%w: no IRMAA brackets for %q in %d", ErrUnknownFilingStatus, status, year)
	}
	tier := brackets[0].Tier
	for _, b := range brackets {
		if b.LowerBound.LessThanOrEqual(magi) {
			tier = b.Tier
		} else {
			break
		}
	}
	return tier, nil
}
