package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

// RothConverter sizes a Roth conversion against a target MAGI and prices it:
// the conversion is treated as additional ordinary income and taxes are
// recomputed with it included.
type RothConverter struct {
	taxCalc *TaxCalculator
}

func NewRothConverter(taxCalc *TaxCalculator) *RothConverter {
	return &RothConverter{taxCalc: taxCalc}
}

// Analyze returns nil when there is no opportunity, i.e. the target does not
// exceed the current MAGI.
func (r *RothConverter) Analyze(taxYear int, status models.FilingStatus, currentMAGI, targetMAGI decimal.Decimal, breakdown models.IncomeBreakdown, deduction decimal.Decimal, current *models.TaxEstimate) (*models.RothSuggestion, error) {
	if targetMAGI.LessThanOrEqual(currentMAGI) {
		return nil, nil
	}
	conversion := targetMAGI.Sub(currentMAGI)

	withConversion, err := r.taxCalc.Estimate(taxYear, status, taxInputs{
		ShortTermGains:     breakdown.ShortTermGains,
		LongTermGains:      breakdown.LongTermGains,
		Dividends:          breakdown.DividendIncome,
		Interest:           breakdown.InterestIncome,
		AdditionalOrdinary: breakdown.AdditionalIncome().Add(conversion),
		Deduction:          deduction,
	})
	if err != nil {
		return nil, err
	}

	conversionTax := withConversion.TotalTax.Sub(current.TotalTax)
	marginalRate := decimal.Zero
	if conversion.IsPositive() {
		marginalRate = conversionTax.Div(conversion).Mul(hundred)
	}

	return &models.RothSuggestion{
		CurrentMAGI:         currentMAGI.Round(2),
		TargetMAGI:          targetMAGI.Round(2),
		SuggestedConversion: conversion.Round(2),
		ConversionTax:       conversionTax.Round(2),
		CurrentTotalTax:     current.TotalTax,
		NewTotalTax:         withConversion.TotalTax,
		MarginalRate:        marginalRate.Round(2),
		CurrentFederalTax:   current.TotalFederalTax,
		NewFederalTax:       withConversion.TotalFederalTax,
		CurrentStateTax:     current.StateTax,
		NewStateTax:         withConversion.StateTax,
	}, nil
}
