package schwab

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

const sampleGainsCSV = `"Realized Gain/Loss for account XXXX-1234 as of 12/31/2025"
"Symbol","Name","Closed Date","Opened Date","Quantity","Proceeds","Cost Basis (CB)","Gain/Loss ($)","Gain/Loss (%)","Long Term Gain/Loss","Term","Wash Sale?","Disallowed Loss"
"AAPL","Apple Inc","06/15/2025","01/10/2024","10","$1,950.00","$1,500.00","$450.00","30.00%","$450.00","Long Term","No",""
"TSLA","Tesla Inc","03/20/2025","02/01/2025","5","$900.00","$1,900.00","($1,000.00)","-52.63%","","Short Term","Yes","$200.00"
"","","","","","","","","","","","",""
`

func TestParseGains(t *testing.T) {
	gains, warnings, err := NewParser().ParseGains(strings.NewReader(sampleGainsCSV))
	if err != nil {
		t.Fatalf("ParseGains() error = %v", err)
	}
	if len(gains) != 2 {
		t.Fatalf("ParseGains() returned %d records, expected 2", len(gains))
	}

	apple := gains[0]
	if apple.Symbol != "AAPL" || apple.Term != models.TermLongTerm {
		t.Errorf("unexpected first record: %+v", apple)
	}
	if !apple.Proceeds.Equal(decimal.RequireFromString("1950")) {
		t.Errorf("Proceeds = %v, expected 1950", apple.Proceeds)
	}
	if !apple.GainLoss.Equal(decimal.RequireFromString("450")) {
		t.Errorf("GainLoss = %v, expected 450", apple.GainLoss)
	}
	if apple.WashSale {
		t.Error("AAPL should not be a wash sale")
	}
	if apple.OpenedDate != time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) {
		t.Errorf("OpenedDate = %v", apple.OpenedDate)
	}

	tesla := gains[1]
	if tesla.Term != models.TermShortTerm {
		t.Errorf("Term = %v, expected short term", tesla.Term)
	}
	// Parenthesized amounts are negative.
	if !tesla.GainLoss.Equal(decimal.RequireFromString("-1000")) {
		t.Errorf("GainLoss = %v, expected -1000", tesla.GainLoss)
	}
	if !tesla.WashSale || !tesla.DisallowedLoss.Equal(decimal.RequireFromString("200")) {
		t.Errorf("wash sale fields = %v / %v", tesla.WashSale, tesla.DisallowedLoss)
	}
	// The -1000 loss with 200 disallowed only deducts -800.
	if !tesla.DeductibleGainLoss().Equal(decimal.RequireFromString("-800")) {
		t.Errorf("DeductibleGainLoss() = %v, expected -800", tesla.DeductibleGainLoss())
	}

	// The trailing empty row is skipped with a warning.
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0].Message, "skipped 1") {
		t.Errorf("unexpected warning: %v", warnings[0])
	}
}

func TestParseGainsDerivesMissingGainLoss(t *testing.T) {
	csv := `"Symbol","Name","Term","Proceeds","Cost Basis","Gain/Loss ($)"
"VTI","Vanguard Total Stock Market","Long Term","$5,000.00","$3,250.00","N/A"
`
	gains, _, err := NewParser().ParseGains(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseGains() error = %v", err)
	}
	if len(gains) != 1 {
		t.Fatalf("ParseGains() returned %d records, expected 1", len(gains))
	}
	if !gains[0].GainLoss.Equal(decimal.RequireFromString("1750")) {
		t.Errorf("GainLoss = %v, expected 1750 (proceeds minus cost basis)", gains[0].GainLoss)
	}
}

func TestParseGainsMissingHeader(t *testing.T) {
	csv := "just,some,random\nrows,without,headers\n"
	if _, _, err := NewParser().ParseGains(strings.NewReader(csv)); err == nil {
		t.Fatal("ParseGains() accepted a file without a header row")
	}
}

const sampleTransactionsCSV = `"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount"
"06/30/2025","Cash Dividend","SCHD","SCHWAB US DIVIDEND EQUITY ETF","","","","$152.37"
"06/28/2025","Credit Interest","","SCHWAB1 INT 05/29-06/27","","","","$12.11"
"06/25/2025 as of 06/23/2025","Bond Interest","912828XX1","US TREASURY NOTE","","","","$250.00"
"06/20/2025","Buy","VTI","VANGUARD TOTAL STOCK MARKET ETF","10","$275.50","$0.00","($2,755.00)"
"","Journal","","TRANSFER","","","","$500.00"
`

func TestParseCashTransactions(t *testing.T) {
	txs, warnings, err := NewParser().ParseCashTransactions(strings.NewReader(sampleTransactionsCSV))
	if err != nil {
		t.Fatalf("ParseCashTransactions() error = %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("ParseCashTransactions() returned %d records, expected 4", len(txs))
	}

	tests := []struct {
		action models.CashAction
		amount string
	}{
		{models.ActionDividend, "152.37"},
		{models.ActionInterest, "12.11"},
		{models.ActionInterest, "250"},
		{models.ActionOther, "-2755"},
	}
	for i, tt := range tests {
		if txs[i].Action != tt.action {
			t.Errorf("record %d: Action = %v, expected %v", i, txs[i].Action, tt.action)
		}
		if !txs[i].Amount.Equal(decimal.RequireFromString(tt.amount)) {
			t.Errorf("record %d: Amount = %v, expected %v", i, txs[i].Amount, tt.amount)
		}
	}

	// The "as of" settlement suffix parses to the leading date.
	if txs[2].Date != time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Date = %v, expected 2025-06-25", txs[2].Date)
	}

	// The row without a date is skipped with a warning.
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
}

func TestParseMoneyFormats(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"$1,234.56", "1234.56", true},
		{"(123.45)", "-123.45", true},
		{"($1,000.00)", "-1000", true},
		{"12.5%", "12.5", true},
		{"42", "42", true},
		{"N/A", "0", false},
		{"--", "0", false},
		{"", "0", false},
		{"abc", "0", false},
	}
	for _, tt := range tests {
		got, ok := parseMoney(tt.in)
		if ok != tt.ok {
			t.Errorf("parseMoney(%q) ok = %v, expected %v", tt.in, ok, tt.ok)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.expected)) {
			t.Errorf("parseMoney(%q) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
