package processors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

// IncomeAggregator merges parsed investment records with user-entered income
// fields into a categorized breakdown. It is a pure function of its inputs;
// per-record problems become warnings, never errors.
type IncomeAggregator interface {
	Aggregate(gains []models.RealizedGain, txs []models.CashTransaction, inputs models.UserInputs) (models.IncomeBreakdown, []models.Warning)
}

type incomeAggregatorImpl struct{}

// NewIncomeAggregator creates a new instance of IncomeAggregator.
func NewIncomeAggregator() IncomeAggregator {
	return &incomeAggregatorImpl{}
}

// gainLossTolerance is how far gain/loss may drift from proceeds minus cost
// basis before the record is flagged. Broker exports round per column, so a
// cent of drift is normal.
var gainLossTolerance = decimal.NewFromFloat(0.01)

func (a *incomeAggregatorImpl) Aggregate(gains []models.RealizedGain, txs []models.CashTransaction, inputs models.UserInputs) (models.IncomeBreakdown, []models.Warning) {
	var warnings []models.Warning

	shortTerm := decimal.Zero
	longTerm := decimal.Zero
	skippedGains := 0
	inconsistentGains := 0
	for _, g := range gains {
		switch g.Term {
		case models.TermShortTerm:
			shortTerm = shortTerm.Add(g.DeductibleGainLoss())
		case models.TermLongTerm:
			longTerm = longTerm.Add(g.DeductibleGainLoss())
		default:
			skippedGains++
			continue
		}
		expected := g.Proceeds.Sub(g.CostBasis)
		if expected.Sub(g.GainLoss).Abs().GreaterThan(gainLossTolerance) {
			inconsistentGains++
		}
	}
	if skippedGains > 0 {
		warnings = append(warnings, models.Warning{
			Field:   "realized_gains",
			Message: fmt.Sprintf("skipped %d gain/loss record(s) with missing or unknown term", skippedGains),
		})
	}
	if inconsistentGains > 0 {
		warnings = append(warnings, models.Warning{
			Field:   "realized_gains",
			Message: fmt.Sprintf("%d gain/loss record(s) do not match proceeds minus cost basis; reported gain/loss used as-is", inconsistentGains),
		})
	}

	dividends := decimal.Zero
	interest := decimal.Zero
	for _, t := range txs {
		switch t.Action {
		case models.ActionDividend:
			dividends = dividends.Add(t.Amount)
		case models.ActionInterest:
			interest = interest.Add(t.Amount)
		}
	}

	breakdown := models.IncomeBreakdown{
		ShortTermGains:    shortTerm.Round(2),
		LongTermGains:     longTerm.Round(2),
		DividendIncome:    dividends.Round(2),
		InterestIncome:    interest.Round(2),
		Wages:             clampNonNegative("wages", inputs.Wages, &warnings),
		BusinessIncome:    clampNonNegative("business_income", inputs.BusinessIncome, &warnings),
		RentalIncome:      clampNonNegative("rental_income", inputs.RentalIncome, &warnings),
		RetirementIncome:  clampNonNegative("retirement_income", inputs.RetirementIncome, &warnings),
		SocialSecurity:    clampNonNegative("social_security", inputs.SocialSecurity, &warnings),
		OtherIncome:       clampNonNegative("other_income", inputs.OtherIncome, &warnings),
		TaxExemptInterest: clampNonNegative("tax_exempt_interest", inputs.TaxExemptInterest, &warnings),
	}
	return breakdown, warnings
}

// clampNonNegative enforces the non-negative invariant on user-entered fields.
// Negative values are treated as zero with a recorded warning so the
// calculation still proceeds. Every slot is rounded to cents here, exactly
// once, which keeps the breakdown total an exact sum of its categories.
func clampNonNegative(field string, v decimal.Decimal, warnings *[]models.Warning) decimal.Decimal {
	if v.IsNegative() {
		*warnings = append(*warnings, models.Warning{
			Field:   field,
			Message: "negative value not allowed; treated as zero",
		})
		return decimal.Zero
	}
	return v.Round(2)
}
