package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/taxrules"
)

func TestEstimateOrdinaryOnly(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	// Taxable lands exactly at the top of the 12% bracket:
	// 63475 - 15000 = 48475; tax = 11925*0.10 + 36550*0.12 = 5578.50.
	estimate, err := calc.Estimate(2025, models.StatusSingle, taxInputs{
		AdditionalOrdinary: dec("63475"),
		Deduction:          dec("15000"),
	})
	require.NoError(t, err)

	assert.True(t, estimate.TaxableIncome.Equal(dec("48475")))
	assert.True(t, estimate.FederalOrdinaryTax.Equal(dec("5578.50")), "federal = %s", estimate.FederalOrdinaryTax)
	assert.True(t, estimate.FederalPreferentialTax.IsZero())
	assert.True(t, estimate.MarginalRate.Equal(dec("12")), "marginal = %s", estimate.MarginalRate)

	// State: (63475 - 12750) * 0.0475 = 2409.44 after rounding.
	assert.True(t, estimate.StateTaxableIncome.Equal(dec("50725")))
	assert.True(t, estimate.StateTax.Equal(dec("2409.44")), "state = %s", estimate.StateTax)

	assert.True(t, estimate.TotalTax.Equal(dec("7987.94")))
	assert.True(t, estimate.AfterTaxIncome.Equal(dec("55487.06")))
}

func TestEstimatePreferentialInZeroBracket(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	// 5000 taxable ordinary plus 10000 long-term gains; the gains stack from
	// 5000 and stay entirely inside the 0% bracket (up to 48350).
	estimate, err := calc.Estimate(2025, models.StatusSingle, taxInputs{
		LongTermGains:      dec("10000"),
		AdditionalOrdinary: dec("20000"),
		Deduction:          dec("15000"),
	})
	require.NoError(t, err)

	assert.True(t, estimate.FederalOrdinaryTax.Equal(dec("500")), "ordinary tax = %s", estimate.FederalOrdinaryTax)
	assert.True(t, estimate.FederalPreferentialTax.IsZero(), "preferential tax = %s", estimate.FederalPreferentialTax)
}

func TestEstimatePreferentialStraddlesBrackets(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	// Taxable ordinary is 40000; the 20000 of gains fills the remaining
	// 8350 of the 0% bracket and puts 11650 into 15%: tax = 1747.50.
	estimate, err := calc.Estimate(2025, models.StatusSingle, taxInputs{
		LongTermGains:      dec("20000"),
		AdditionalOrdinary: dec("55000"),
		Deduction:          dec("15000"),
	})
	require.NoError(t, err)

	assert.True(t, estimate.FederalPreferentialTax.Equal(dec("1747.50")), "preferential tax = %s", estimate.FederalPreferentialTax)
}

func TestEstimateDeductionSpillsIntoPreferential(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	// Ordinary income of 10000 absorbs 10000 of the deduction; the other
	// 5000 reduces the preferential side to 15000.
	estimate, err := calc.Estimate(2025, models.StatusSingle, taxInputs{
		LongTermGains:      dec("20000"),
		AdditionalOrdinary: dec("10000"),
		Deduction:          dec("15000"),
	})
	require.NoError(t, err)

	assert.True(t, estimate.TaxableIncome.Equal(dec("15000")))
	assert.True(t, estimate.FederalOrdinaryTax.IsZero())
	// 15000 of gains starting from zero sits in the 0% bracket.
	assert.True(t, estimate.FederalPreferentialTax.IsZero())
	assert.True(t, estimate.MarginalRate.IsZero())
}

func TestEstimateMixedIncomeClassification(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	estimate, err := calc.Estimate(2025, models.StatusSingle, taxInputs{
		ShortTermGains:     dec("1000"),
		LongTermGains:      dec("2000"),
		Dividends:          dec("300"),
		Interest:           dec("150"),
		AdditionalOrdinary: dec("50000"),
		Deduction:          dec("15000"),
	})
	require.NoError(t, err)

	// Short-term gains and interest are ordinary; long-term gains and
	// dividends are preferential.
	assert.True(t, estimate.OrdinaryIncome.Equal(dec("51150")))
	assert.True(t, estimate.PreferentialIncome.Equal(dec("2300")))
	assert.True(t, estimate.TotalIncome.Equal(dec("53450")))
}

func TestEstimateZeroIncome(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	estimate, err := calc.Estimate(2025, models.StatusSingle, taxInputs{
		Deduction: dec("15000"),
	})
	require.NoError(t, err)

	assert.True(t, estimate.TotalTax.IsZero())
	assert.True(t, estimate.EffectiveRate.IsZero())
	assert.True(t, estimate.MarginalRate.IsZero())
}

func TestEstimateUnsupportedYear(t *testing.T) {
	calc := NewTaxCalculator(taxrules.Default())

	_, err := calc.Estimate(1999, models.StatusSingle, taxInputs{})
	assert.Error(t, err)
}
