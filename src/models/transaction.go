package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Term classifies a realized gain by holding period.
type Term string

const (
	TermShortTerm Term = "short_term"
	TermLongTerm  Term = "long_term"
)

// CashAction classifies a cash transaction row.
type CashAction string

const (
	ActionDividend CashAction = "dividend"
	ActionInterest CashAction = "interest"
	ActionOther    CashAction = "other"
)

// RealizedGain represents a single closed position from a broker gain/loss
// export. It is created once at parse time and never mutated afterwards.
type RealizedGain struct {
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	OpenedDate     time.Time       `json:"opened_date"`
	ClosedDate     time.Time       `json:"closed_date"`
	Quantity       int             `json:"quantity"`
	Proceeds       decimal.Decimal `json:"proceeds"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	GainLoss       decimal.Decimal `json:"gain_loss"`
	Term           Term            `json:"term"`
	WashSale       bool            `json:"wash_sale"`
	DisallowedLoss decimal.Decimal `json:"disallowed_loss"` // zero unless WashSale
}

func (g RealizedGain) IsShortTerm() bool { return g.Term == TermShortTerm }
func (g RealizedGain) IsLongTerm() bool  { return g.Term == TermLongTerm }

// IsOption reports whether the position is an option contract, recognized by
// the broker's compound symbol format: underlying, expiration, strike and a
// C or P leg, e.g. "TSLA 06/20/2025 250.00 C".
func (g RealizedGain) IsOption() bool {
	parts := strings.Fields(g.Symbol)
	if len(parts) < 4 {
		return false
	}
	leg := parts[len(parts)-1]
	return leg == "C" || leg == "P"
}

// HoldingPeriodDays returns the number of days the position was held, or 0
// when either date is missing.
func (g RealizedGain) HoldingPeriodDays() int {
	if g.OpenedDate.IsZero() || g.ClosedDate.IsZero() {
		return 0
	}
	return int(g.ClosedDate.Sub(g.OpenedDate).Hours() / 24)
}

// DeductibleGainLoss returns the gain/loss that counts toward income after
// the wash-sale adjustment: a disallowed loss is added back against the raw
// loss, so a -1000 loss with 200 disallowed contributes -800.
func (g RealizedGain) DeductibleGainLoss() decimal.Decimal {
	if g.WashSale && !g.DisallowedLoss.IsZero() {
		return g.GainLoss.Add(g.DisallowedLoss.Abs())
	}
	return g.GainLoss
}

// CashTransaction represents a single row from a broker transaction-history
// export: a dividend payment, an interest credit, or anything else.
type CashTransaction struct {
	Date        time.Time       `json:"date"`
	Action      CashAction      `json:"action"`
	RawAction   string          `json:"raw_action"` // original action string from the export
	Symbol      string          `json:"symbol,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fees        decimal.Decimal `json:"fees"`
	Amount      decimal.Decimal `json:"amount"`
}

func (t CashTransaction) IsDividend() bool { return t.Action == ActionDividend }
func (t CashTransaction) IsInterest() bool { return t.Action == ActionInterest }
