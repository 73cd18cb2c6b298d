package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

// GainsSummary describes an uploaded gain/loss data set for the form page.
// Short-term gains are additionally split between option contracts and
// everything else.
type GainsSummary struct {
	TotalRecords          int             `json:"total_records"`
	ShortTermGains        decimal.Decimal `json:"short_term_gains"`
	ShortTermOptionsGains decimal.Decimal `json:"short_term_options_gains"`
	ShortTermEquityGains  decimal.Decimal `json:"short_term_equity_gains"`
	LongTermGains         decimal.Decimal `json:"long_term_gains"`
	TotalGains            decimal.Decimal `json:"total_gains"`
	NumShortTerm          int             `json:"num_short_term"`
	NumLongTerm           int             `json:"num_long_term"`
	NumOptionTrades       int             `json:"num_option_trades"`
	NumWashSales          int             `json:"num_wash_sales"`
}

// CashSummary describes an uploaded transaction-history data set.
type CashSummary struct {
	TotalRecords   int             `json:"total_records"`
	NumDividends   int             `json:"num_dividends"`
	NumInterest    int             `json:"num_interest"`
	DividendIncome decimal.Decimal `json:"dividend_income"`
	InterestIncome decimal.Decimal `json:"interest_income"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalFees      decimal.Decimal `json:"total_fees"`
}

// SummarizeGains aggregates headline figures over realized gain records.
// Sums use the raw reported gain/loss, before any wash-sale adjustment.
func SummarizeGains(gains []models.RealizedGain) GainsSummary {
	s := GainsSummary{TotalRecords: len(gains)}
	shortTerm := decimal.Zero
	shortTermOptions := decimal.Zero
	longTerm := decimal.Zero
	for _, g := range gains {
		switch {
		case g.IsShortTerm():
			s.NumShortTerm++
			shortTerm = shortTerm.Add(g.GainLoss)
			if g.IsOption() {
				shortTermOptions = shortTermOptions.Add(g.GainLoss)
			}
		case g.IsLongTerm():
			s.NumLongTerm++
			longTerm = longTerm.Add(g.GainLoss)
		}
		if g.IsOption() {
			s.NumOptionTrades++
		}
		if g.WashSale {
			s.NumWashSales++
		}
	}
	s.ShortTermGains = shortTerm.Round(2)
	s.ShortTermOptionsGains = shortTermOptions.Round(2)
	s.ShortTermEquityGains = s.ShortTermGains.Sub(s.ShortTermOptionsGains)
	s.LongTermGains = longTerm.Round(2)
	s.TotalGains = s.ShortTermGains.Add(s.LongTermGains)
	return s
}

// SummarizeCash aggregates headline figures over cash transaction records.
func SummarizeCash(txs []models.CashTransaction) CashSummary {
	s := CashSummary{TotalRecords: len(txs)}
	dividends := decimal.Zero
	interest := decimal.Zero
	fees := decimal.Zero
	for _, t := range txs {
		switch t.Action {
		case models.ActionDividend:
			s.NumDividends++
			dividends = dividends.Add(t.Amount)
		case models.ActionInterest:
			s.NumInterest++
			interest = interest.Add(t.Amount)
		}
		fees = fees.Add(t.Fees)
	}
	s.DividendIncome = dividends.Round(2)
	s.InterestIncome = interest.Round(2)
	s.TotalIncome = s.DividendIncome.Add(s.InterestIncome)
	s.TotalFees = fees.Round(2)
	return s
}
