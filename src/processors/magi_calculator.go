package processors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/taxrules"
)

var two = decimal.NewFromInt(2)

// CalculatorOptions carries the configurable calculation policies.
type CalculatorOptions struct {
	// CapitalLossLimit, when set, caps how much of a net capital loss may
	// offset other income (real tax law uses 3000). Unset means uncapped,
	// matching the default estimate behavior.
	CapitalLossLimit decimal.NullDecimal
}

// MAGICalculator turns an income breakdown plus user inputs into a full
// calculation result: Total Income, AGI, MAGI, deduction selection, IRMAA
// tier, tax estimate and the optional Roth conversion suggestion.
type MAGICalculator struct {
	rules     *taxrules.Table
	taxCalc   *TaxCalculator
	converter *RothConverter
	opts      CalculatorOptions
}

// NewMAGICalculator creates a calculator over an immutable rules table.
func NewMAGICalculator(rules *taxrules.Table, opts CalculatorOptions) *MAGICalculator {
	taxCalc := NewTaxCalculator(rules)
	return &MAGICalculator{
		rules:     rules,
		taxCalc:   taxCalc,
		converter: NewRothConverter(taxCalc),
		opts:      opts,
	}
}

// Calculate computes the result for one request. The only hard failure is
// missing reference data for the requested tax year (or an unknown filing
// status); everything else degrades to warnings on the result.
func (c *MAGICalculator) Calculate(breakdown models.IncomeBreakdown, inputs models.UserInputs, warnings []models.Warning) (*models.CalculationResult, error) {
	year, err := c.rules.ForYear(inputs.TaxYear)
	if err != nil {
		return nil, err
	}

	totalIncome := breakdown.TotalIncome()
	if c.opts.CapitalLossLimit.Valid {
		limit := c.opts.CapitalLossLimit.Decimal.Abs()
		net := breakdown.CapitalGains()
		if net.IsNegative() && net.Neg().GreaterThan(limit) {
			excluded := net.Neg().Sub(limit)
			totalIncome = totalIncome.Add(excluded)
			warnings = append(warnings, models.Warning{
				Field:   "capital_gains",
				Message: fmt.Sprintf("net capital loss capped at %s against other income; %s excluded from this year's total", limit.StringFixed(2), excluded.StringFixed(2)),
			})
		}
	}

	// Adjustments carry the same non-negative invariant as income fields.
	seTax := clampNonNegative("self_employment_tax", inputs.SelfEmploymentTax, &warnings)
	adjustments := models.AdjustmentsBreakdown{
		StudentLoanInterest: clampNonNegative("student_loan_interest", inputs.StudentLoanInterest, &warnings),
		IRAContributions:    clampNonNegative("ira_contributions", inputs.IRAContributions, &warnings),
		HSAContributions:    clampNonNegative("hsa_contributions", inputs.HSAContributions, &warnings),
		SelfEmploymentTax:   seTax.Div(two).Round(2),
		OtherAdjustments:    clampNonNegative("other_adjustments", inputs.OtherAdjustments, &warnings),
	}
	adjustments.Total = adjustments.StudentLoanInterest.
		Add(adjustments.IRAContributions).
		Add(adjustments.HSAContributions).
		Add(adjustments.SelfEmploymentTax).
		Add(adjustments.OtherAdjustments)

	// AGI is deliberately not floored at zero; a negative estimate is left
	// to the caller's interpretation.
	agi := totalIncome.Sub(adjustments.Total)

	standard, err := c.rules.StandardDeduction(inputs.TaxYear, inputs.FilingStatus)
	if err != nil {
		return nil, err
	}
	itemized := clampNonNegative("itemized_deductions", inputs.ItemizedDeductions, &warnings)
	deduction := standard
	deductionType := models.DeductionStandard
	if !inputs.UseStandardDeduction && itemized.GreaterThan(standard) {
		deduction = itemized
		deductionType = models.DeductionItemized
	}

	// The deduction election never feeds MAGI; deductions apply to taxable
	// income, not to AGI.
	magi := agi.Add(breakdown.TaxExemptInterest)

	tier, err := c.rules.IRMAATier(inputs.TaxYear, inputs.FilingStatus, magi)
	if err != nil {
		return nil, err
	}

	result := &models.CalculationResult{
		FilingStatus:     inputs.FilingStatus,
		TaxYear:          inputs.TaxYear,
		TotalIncome:      totalIncome.Round(2),
		TotalAdjustments: adjustments.Total,
		AGI:              agi.Round(2),
		MAGI:             magi.Round(2),
		DeductionUsed:    deduction,
		DeductionType:    deductionType,
		IRMAATier:        tier,
		Breakdown:        breakdown,
		Adjustments:      adjustments,
	}

	if inputs.TargetMAGI.Valid {
		switch magi.Cmp(inputs.TargetMAGI.Decimal) {
		case 1:
			result.TargetComparison = models.TargetAbove
		case -1:
			result.TargetComparison = models.TargetBelow
		default:
			result.TargetComparison = models.TargetEqual
		}
	}

	if year.HasTaxSchedules() {
		estimate, err := c.taxCalc.Estimate(inputs.TaxYear, inputs.FilingStatus, taxInputs{
			ShortTermGains:     breakdown.ShortTermGains,
			LongTermGains:      breakdown.LongTermGains,
			Dividends:          breakdown.DividendIncome,
			Interest:           breakdown.InterestIncome,
			AdditionalOrdinary: breakdown.AdditionalIncome(),
			Deduction:          deduction,
		})
		if err != nil {
			return nil, err
		}
		result.TaxEstimate = estimate

		if inputs.TargetMAGI.Valid {
			suggestion, err := c.converter.Analyze(inputs.TaxYear, inputs.FilingStatus, magi, inputs.TargetMAGI.Decimal, breakdown, deduction, estimate)
			if err != nil {
				return nil, err
			}
			result.RothSuggestion = suggestion
		}
	} else {
		warnings = append(warnings, models.Warning{
			Field:   "tax_estimate",
			Message: fmt.Sprintf("no tax rate schedules for %d; federal/state estimate skipped", inputs.TaxYear),
		})
	}

	result.Warnings = warnings
	return result, nil
}
