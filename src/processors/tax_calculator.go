package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/taxrules"
)

var hundred = decimal.NewFromInt(100)

// taxInputs bundles the income figures feeding one tax estimate.
type taxInputs struct {
	ShortTermGains     decimal.Decimal
	LongTermGains      decimal.Decimal
	Dividends          decimal.Decimal
	Interest           decimal.Decimal
	AdditionalOrdinary decimal.Decimal
	Deduction          decimal.Decimal
}

// TaxCalculator estimates federal and state liability from the same
// breakdown the MAGI calculation uses. Short-term gains and interest are
// ordinary income; long-term gains and dividends get the preferential
// schedule, stacked on top of ordinary income.
type TaxCalculator struct {
	rules *taxrules.Table
}

func NewTaxCalculator(rules *taxrules.Table) *TaxCalculator {
	return &TaxCalculator{rules: rules}
}

func (c *TaxCalculator) Estimate(taxYear int, status models.FilingStatus, in taxInputs) (*models.TaxEstimate, error) {
	year, err := c.rules.ForYear(taxYear)
	if err != nil {
		return nil, err
	}

	ordinary := in.ShortTermGains.Add(in.Interest).Add(in.AdditionalOrdinary)
	preferential := in.LongTermGains.Add(in.Dividends)
	total := ordinary.Add(preferential)

	taxable := maxZero(total.Sub(in.Deduction))

	// The deduction consumes ordinary income first; whatever is left over
	// reduces preferential income.
	taxableOrdinary := maxZero(ordinary.Sub(in.Deduction))
	var taxablePreferential decimal.Decimal
	if ordinary.GreaterThan(in.Deduction) {
		taxablePreferential = maxZero(preferential)
	} else {
		remaining := in.Deduction.Sub(maxZero(ordinary))
		taxablePreferential = maxZero(preferential.Sub(remaining))
	}

	federalBrackets := bracketsFor(year.FederalBrackets, status)
	ltcgBrackets := bracketsFor(year.LTCGBrackets, status)

	federalOrdinaryTax, marginalRate := progressiveTax(federalBrackets, taxableOrdinary)
	federalPreferentialTax := stackedTax(ltcgBrackets, taxablePreferential, taxableOrdinary)
	totalFederalTax := federalOrdinaryTax.Add(federalPreferentialTax)

	stateDeduction := year.StateDeductions[status]
	if stateDeduction.IsZero() {
		stateDeduction = year.StateDeductions[models.StatusSingle]
	}
	stateTaxable := maxZero(total.Sub(stateDeduction))
	stateTax := stateTaxable.Mul(year.StateRate)

	totalTax := totalFederalTax.Add(stateTax)
	effectiveRate := decimal.Zero
	if total.IsPositive() {
		effectiveRate = totalTax.Div(total).Mul(hundred)
	}

	return &models.TaxEstimate{
		OrdinaryIncome:         ordinary.Round(2),
		PreferentialIncome:     preferential.Round(2),
		TotalIncome:            total.Round(2),
		Deduction:              in.Deduction.Round(2),
		TaxableIncome:          taxable.Round(2),
		FederalOrdinaryTax:     federalOrdinaryTax.Round(2),
		FederalPreferentialTax: federalPreferentialTax.Round(2),
		TotalFederalTax:        totalFederalTax.Round(2),
		StateTaxableIncome:     stateTaxable.Round(2),
		StateTax:               stateTax.Round(2),
		TotalTax:               totalTax.Round(2),
		AfterTaxIncome:         total.Sub(totalTax).Round(2),
		EffectiveRate:          effectiveRate.Round(2),
		MarginalRate:           marginalRate.Mul(hundred).Round(2),
	}, nil
}

// bracketsFor falls back to the single-filer schedule for statuses without
// their own entry, matching the lookup behavior of the rules table.
func bracketsFor(schedules map[models.FilingStatus][]taxrules.RateBracket, status models.FilingStatus) []taxrules.RateBracket {
	if b, ok := schedules[status]; ok {
		return b
	}
	return schedules[models.StatusSingle]
}

// progressiveTax applies a marginal rate schedule to taxable income and
// returns the tax plus the highest marginal rate reached.
func progressiveTax(brackets []taxrules.RateBracket, taxable decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if !taxable.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	tax := decimal.Zero
	marginalRate := decimal.Zero
	previous := decimal.Zero
	for _, b := range brackets {
		if taxable.LessThanOrEqual(previous) {
			break
		}
		inBracket := decimal.Min(taxable, b.UpperBound).Sub(previous)
		tax = tax.Add(inBracket.Mul(b.Rate))
		marginalRate = b.Rate
		if taxable.LessThanOrEqual(b.UpperBound) {
			break
		}
		previous = b.UpperBound
	}
	return tax, marginalRate
}

// stackedTax taxes preferential income stacked on top of ordinary income:
// ordinary income fills the lower brackets first, then the preferential
// amount takes whatever bracket space remains.
func stackedTax(brackets []taxrules.RateBracket, preferential, ordinary decimal.Decimal) decimal.Decimal {
	if !preferential.IsPositive() {
		return decimal.Zero
	}
	tax := decimal.Zero
	position := ordinary
	remaining := preferential
	previous := decimal.Zero
	for _, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		start := decimal.Max(position, previous)
		if start.GreaterThanOrEqual(b.UpperBound) {
			previous = b.UpperBound
			continue
		}
		inBracket := decimal.Min(remaining, b.UpperBound.Sub(start))
		tax = tax.Add(inBracket.Mul(b.Rate))
		remaining = remaining.Sub(inBracket)
		position = position.Add(inBracket)
		previous = b.UpperBound
	}
	return tax
}

func maxZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
