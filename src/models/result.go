package models

import "github.com/shopspring/decimal"

// DeductionType names the deduction actually used in a result.
type DeductionType string

const (
	DeductionStandard DeductionType = "standard"
	DeductionItemized DeductionType = "itemized"
)

// TargetComparison positions the computed MAGI against the optional
// user-supplied target.
type TargetComparison string

const (
	TargetAbove TargetComparison = "above"
	TargetBelow TargetComparison = "below"
	TargetEqual TargetComparison = "equal"
)

// AdjustmentsBreakdown itemizes the above-the-line adjustments that were
// subtracted from total income.
type AdjustmentsBreakdown struct {
	StudentLoanInterest decimal.Decimal `json:"student_loan_interest"`
	IRAContributions    decimal.Decimal `json:"ira_contributions"`
	HSAContributions    decimal.Decimal `json:"hsa_contributions"`
	SelfEmploymentTax   decimal.Decimal `json:"self_employment_tax"` // deductible half
	OtherAdjustments    decimal.Decimal `json:"other_adjustments"`
	Total               decimal.Decimal `json:"total"`
}

// TaxEstimate is the federal + state liability estimate computed alongside
// MAGI. Dividends are treated as qualified; long-term gains and dividends are
// stacked on top of ordinary income for the preferential brackets.
type TaxEstimate struct {
	OrdinaryIncome         decimal.Decimal `json:"ordinary_income"`
	PreferentialIncome     decimal.Decimal `json:"preferential_income"`
	TotalIncome            decimal.Decimal `json:"total_income"`
	Deduction              decimal.Decimal `json:"deduction"`
	TaxableIncome          decimal.Decimal `json:"taxable_income"`
	FederalOrdinaryTax     decimal.Decimal `json:"federal_ordinary_tax"`
	FederalPreferentialTax decimal.Decimal `json:"federal_preferential_tax"`
	TotalFederalTax        decimal.Decimal `json:"total_federal_tax"`
	StateTaxableIncome     decimal.Decimal `json:"state_taxable_income"`
	StateTax               decimal.Decimal `json:"state_tax"`
	TotalTax               decimal.Decimal `json:"total_tax"`
	AfterTaxIncome         decimal.Decimal `json:"after_tax_income"`
	EffectiveRate          decimal.Decimal `json:"effective_rate"` // percentage
	MarginalRate           decimal.Decimal `json:"marginal_rate"`  // percentage
}

// RothSuggestion describes a Roth conversion opportunity: how much headroom
// exists below the target MAGI and what converting it would cost in tax.
type RothSuggestion struct {
	CurrentMAGI         decimal.Decimal `json:"current_magi"`
	TargetMAGI          decimal.Decimal `json:"target_magi"`
	SuggestedConversion decimal.Decimal `json:"suggested_conversion"`
	ConversionTax       decimal.Decimal `json:"conversion_tax"`
	CurrentTotalTax     decimal.Decimal `json:"current_total_tax"`
	NewTotalTax         decimal.Decimal `json:"new_total_tax"`
	MarginalRate        decimal.Decimal `json:"marginal_rate"` // percentage on the conversion
	CurrentFederalTax   decimal.Decimal `json:"current_federal_tax"`
	NewFederalTax       decimal.Decimal `json:"new_federal_tax"`
	CurrentStateTax     decimal.Decimal `json:"current_state_tax"`
	NewStateTax         decimal.Decimal `json:"new_state_tax"`
}

// CalculationResult is the full outcome of one MAGI calculation. It is
// produced once per request and never persisted.
type CalculationResult struct {
	FilingStatus FilingStatus `json:"filing_status"`
	TaxYear      int          `json:"tax_year"`

	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalAdjustments decimal.Decimal `json:"total_adjustments"`
	AGI              decimal.Decimal `json:"agi"` // may be negative
	MAGI             decimal.Decimal `json:"magi"`

	DeductionUsed decimal.Decimal `json:"deduction_used"`
	DeductionType DeductionType   `json:"deduction_type"`

	IRMAATier string `json:"irmaa_tier"`

	Breakdown   IncomeBreakdown      `json:"income_breakdown"`
	Adjustments AdjustmentsBreakdown `json:"adjustments_breakdown"`

	TargetComparison TargetComparison `json:"target_comparison,omitempty"`

	TaxEstimate    *TaxEstimate    `json:"tax_estimate,omitempty"`
	RothSuggestion *RothSuggestion `json:"roth_suggestion,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}
