package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/magifolio/backend/src/models"
)

func TestSummarizeGains(t *testing.T) {
	gains := []models.RealizedGain{
		{Symbol: "AAPL", Term: models.TermShortTerm, GainLoss: dec("500")},
		{Symbol: "TSLA 06/20/2025 250.00 C", Term: models.TermShortTerm, GainLoss: dec("-150")},
		{Symbol: "NVDA 09/19/2025 120.00 P", Term: models.TermShortTerm, GainLoss: dec("300"), WashSale: true, DisallowedLoss: dec("0")},
		{Symbol: "VTI", Term: models.TermLongTerm, GainLoss: dec("2000")},
	}

	s := SummarizeGains(gains)

	assert.Equal(t, 4, s.TotalRecords)
	assert.Equal(t, 3, s.NumShortTerm)
	assert.Equal(t, 1, s.NumLongTerm)
	assert.Equal(t, 2, s.NumOptionTrades)
	assert.Equal(t, 1, s.NumWashSales)

	// 500 - 150 + 300 = 650 short term, of which -150 + 300 = 150 is options.
	assert.True(t, s.ShortTermGains.Equal(dec("650")), "short term = %s", s.ShortTermGains)
	assert.True(t, s.ShortTermOptionsGains.Equal(dec("150")), "options = %s", s.ShortTermOptionsGains)
	assert.True(t, s.ShortTermEquityGains.Equal(dec("500")), "equity = %s", s.ShortTermEquityGains)
	assert.True(t, s.TotalGains.Equal(dec("2650")))
}

func TestIsOption(t *testing.T) {
	tests := []struct {
		symbol   string
		expected bool
	}{
		{"AAPL", false},
		{"BRK B", false},
		{"TSLA 06/20/2025 250.00 C", true},
		{"NVDA 09/19/2025 120.00 P", true},
		{"US TREASURY NOTE", false},
		{"", false},
	}
	for _, tt := range tests {
		g := models.RealizedGain{Symbol: tt.symbol}
		assert.Equal(t, tt.expected, g.IsOption(), "symbol %q", tt.symbol)
	}
}

func TestSummarizeCash(t *testing.T) {
	txs := []models.CashTransaction{
		{Action: models.ActionDividend, Amount: dec("100.25")},
		{Action: models.ActionInterest, Amount: dec("12.50"), Fees: dec("0.75")},
		{Action: models.ActionOther, Amount: dec("-2755"), Fees: dec("1.25")},
	}

	s := SummarizeCash(txs)

	assert.Equal(t, 3, s.TotalRecords)
	assert.Equal(t, 1, s.NumDividends)
	assert.Equal(t, 1, s.NumInterest)
	assert.True(t, s.DividendIncome.Equal(dec("100.25")))
	assert.True(t, s.InterestIncome.Equal(dec("12.50")))
	assert.True(t, s.TotalIncome.Equal(dec("112.75")))
	assert.True(t, s.TotalFees.Equal(dec("2")))
}
