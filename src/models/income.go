package models

import "github.com/shopspring/decimal"

// FilingStatus is the IRS filing status used for deduction and bracket lookups.
type FilingStatus string

const (
	StatusSingle                  FilingStatus = "single"
	StatusMarriedFilingJointly    FilingStatus = "married_filing_jointly"
	StatusMarriedFilingSeparately FilingStatus = "married_filing_separately"
	StatusHeadOfHousehold         FilingStatus = "head_of_household"
	StatusQualifyingWidow         FilingStatus = "qualifying_widow"
)

// FilingStatuses lists every supported status, in form-display order.
var FilingStatuses = []FilingStatus{
	StatusSingle,
	StatusMarriedFilingJointly,
	StatusMarriedFilingSeparately,
	StatusHeadOfHousehold,
	StatusQualifyingWidow,
}

// IsValid reports whether the status is one of the supported values.
func (s FilingStatus) IsValid() bool {
	for _, v := range FilingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// UserInputs holds everything the user supplies on the calculation form.
// All monetary fields are expected to be non-negative; the aggregator clamps
// negatives to zero and records a warning. Immutable during a calculation.
type UserInputs struct {
	FilingStatus FilingStatus        `json:"filing_status"`
	TaxYear      int                 `json:"tax_year"`
	TargetMAGI   decimal.NullDecimal `json:"target_magi"` // optional, display comparison only

	// Income beyond the uploaded investment data.
	Wages             decimal.Decimal `json:"wages"`
	BusinessIncome    decimal.Decimal `json:"business_income"`
	RentalIncome      decimal.Decimal `json:"rental_income"`
	RetirementIncome  decimal.Decimal `json:"retirement_income"`
	SocialSecurity    decimal.Decimal `json:"social_security"`
	OtherIncome       decimal.Decimal `json:"other_income"`
	TaxExemptInterest decimal.Decimal `json:"tax_exempt_interest"`

	// Deductions and adjustments.
	UseStandardDeduction bool            `json:"use_standard_deduction"`
	ItemizedDeductions   decimal.Decimal `json:"itemized_deductions"`
	StudentLoanInterest  decimal.Decimal `json:"student_loan_interest"`
	IRAContributions     decimal.Decimal `json:"ira_contributions"`
	HSAContributions     decimal.Decimal `json:"hsa_contributions"`
	SelfEmploymentTax    decimal.Decimal `json:"self_employment_tax"`
	OtherAdjustments     decimal.Decimal `json:"other_adjustments"`
}

// IncomeBreakdown is the categorized income total produced by the aggregator.
// Each category keeps its own slot for reporting; capital gains may be
// negative. Every slot is rounded to cents exactly once, at aggregation time,
// so TotalIncome is always the exact sum of its categories.
type IncomeBreakdown struct {
	ShortTermGains    decimal.Decimal `json:"short_term_gains"`
	LongTermGains     decimal.Decimal `json:"long_term_gains"`
	DividendIncome    decimal.Decimal `json:"dividend_income"`
	InterestIncome    decimal.Decimal `json:"interest_income"`
	Wages             decimal.Decimal `json:"wages"`
	BusinessIncome    decimal.Decimal `json:"business_income"`
	RentalIncome      decimal.Decimal `json:"rental_income"`
	RetirementIncome  decimal.Decimal `json:"retirement_income"`
	SocialSecurity    decimal.Decimal `json:"social_security"`
	OtherIncome       decimal.Decimal `json:"other_income"`
	TaxExemptInterest decimal.Decimal `json:"tax_exempt_interest"`
}

// CapitalGains returns the combined short- and long-term gain/loss.
func (b IncomeBreakdown) CapitalGains() decimal.Decimal {
	return b.ShortTermGains.Add(b.LongTermGains)
}

// InvestmentIncome returns the income derived from uploaded transactions.
func (b IncomeBreakdown) InvestmentIncome() decimal.Decimal {
	return b.CapitalGains().Add(b.DividendIncome).Add(b.InterestIncome)
}

// AdditionalIncome returns the user-supplied income categories, excluding
// tax-exempt interest.
func (b IncomeBreakdown) AdditionalIncome() decimal.Decimal {
	return b.Wages.
		Add(b.BusinessIncome).
		Add(b.RentalIncome).
		Add(b.RetirementIncome).
		Add(b.SocialSecurity).
		Add(b.OtherIncome)
}

// TotalIncome is the exact sum of every category, tax-exempt interest
// included. Net capital losses are not floored here; capping is a calculator
// policy.
func (b IncomeBreakdown) TotalIncome() decimal.Decimal {
	return b.InvestmentIncome().Add(b.AdditionalIncome()).Add(b.TaxExemptInterest)
}

// Warning records a non-fatal problem absorbed during a calculation, such
// as an unparseable form field or a skipped transaction record.
type Warning struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
