// Package schwab parses Schwab-style realized gain/loss and transaction
// history CSV exports.
package schwab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

// SchwabParser implements the parsers.Parser interface for Schwab exports.
type SchwabParser struct{}

// NewParser creates a new instance of the SchwabParser.
func NewParser() *SchwabParser {
	return &SchwabParser{}
}

var dateLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02", "01-02-2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	// Schwab writes settlement quirks as "01/15/2025 as of 01/13/2025".
	if i := strings.Index(s, " as of "); i > 0 {
		s = s[:i]
	}
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseMoney reads Schwab money formats: "$1,234.56", "(123.45)" for
// negatives, "12.5%", bare numbers, "N/A" and empty cells.
func parseMoney(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	if cleaned == "" || strings.EqualFold(cleaned, "n/a") || cleaned == "--" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func parseQuantity(s string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0
	}
	if n, err := strconv.Atoi(cleaned); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int(f)
	}
	return 0
}

// headerIndex maps lowercased column names to positions.
type headerIndex map[string]int

func (h headerIndex) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func indexHeader(record []string) headerIndex {
	idx := make(headerIndex, len(record))
	for i, name := range record {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// readRows reads the CSV and locates the header row. Gain/loss exports carry
// a title line before the header; transaction exports do not. The header is
// recognized by the presence of a known column name.
func readRows(r io.Reader, headerColumn string) (headerIndex, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("schwab parser: failed to read CSV: %w", err)
	}
	for i, record := range records {
		idx := indexHeader(record)
		if _, ok := idx[headerColumn]; ok {
			return idx, records[i+1:], nil
		}
		if i >= 2 {
			break
		}
	}
	return nil, nil, fmt.Errorf("schwab parser: header row with %q column not found", headerColumn)
}

// ParseGains reads a realized gain/loss export into RealizedGain records.
// Rows without a parseable term or symbol are skipped and counted in a
// warning rather than failing the upload.
func (p *SchwabParser) ParseGains(r io.Reader) ([]models.RealizedGain, []models.Warning, error) {
	idx, rows, err := readRows(r, "symbol")
	if err != nil {
		return nil, nil, err
	}

	var gains []models.RealizedGain
	var warnings []models.Warning
	skipped := 0
	for _, row := range rows {
		symbol := idx.get(row, "symbol")
		if symbol == "" {
			skipped++
			continue
		}

		var term models.Term
		switch strings.ToLower(idx.get(row, "term")) {
		case "short term", "short_term", "short":
			term = models.TermShortTerm
		case "long term", "long_term", "long":
			term = models.TermLongTerm
		default:
			skipped++
			continue
		}

		proceeds, _ := parseMoney(idx.get(row, "proceeds"))
		costBasis, _ := parseMoney(idx.get(row, "cost basis (cb)"))
		if costBasis.IsZero() {
			costBasis, _ = parseMoney(idx.get(row, "cost basis"))
		}
		gainLoss, ok := parseMoney(idx.get(row, "gain/loss ($)"))
		if !ok {
			gainLoss = proceeds.Sub(costBasis)
		}

		washSale := strings.EqualFold(idx.get(row, "wash sale?"), "yes")
		disallowed, _ := parseMoney(idx.get(row, "disallowed loss"))
		if !washSale {
			disallowed = decimal.Zero
		}

		opened, _ := parseDate(idx.get(row, "opened date"))
		closed, _ := parseDate(idx.get(row, "closed date"))

		gains = append(gains, models.RealizedGain{
			Symbol:         symbol,
			Name:           idx.get(row, "name"),
			OpenedDate:     opened,
			ClosedDate:     closed,
			Quantity:       parseQuantity(idx.get(row, "quantity")),
			Proceeds:       proceeds,
			CostBasis:      costBasis,
			GainLoss:       gainLoss,
			Term:           term,
			WashSale:       washSale,
			DisallowedLoss: disallowed.Abs(),
		})
	}
	if skipped > 0 {
		warnings = append(warnings, models.Warning{
			Field:   "gains_file",
			Message: fmt.Sprintf("skipped %d row(s) with missing symbol or term", skipped),
		})
	}
	return gains, warnings, nil
}

// classifyAction maps a Schwab action string onto a cash action category.
func classifyAction(action string) models.CashAction {
	switch action {
	case "Cash Dividend", "Qualified Dividend", "Special Dividend", "Reinvest Dividend":
		return models.ActionDividend
	case "Bond Interest", "Credit Interest", "Bank Interest":
		return models.ActionInterest
	default:
		return models.ActionOther
	}
}

// ParseCashTransactions reads a transaction-history export. Every row is
// kept, classified as dividend, interest or other; rows with unparseable
// dates are skipped with a warning.
func (p *SchwabParser) ParseCashTransactions(r io.Reader) ([]models.CashTransaction, []models.Warning, error) {
	idx, rows, err := readRows(r, "action")
	if err != nil {
		return nil, nil, err
	}

	var txs []models.CashTransaction
	var warnings []models.Warning
	skipped := 0
	for _, row := range rows {
		action := idx.get(row, "action")
		if action == "" {
			skipped++
			continue
		}
		date, ok := parseDate(idx.get(row, "date"))
		if !ok {
			skipped++
			continue
		}

		quantity, _ := parseMoney(idx.get(row, "quantity"))
		price, _ := parseMoney(idx.get(row, "price"))
		fees, _ := parseMoney(idx.get(row, "fees & comm"))
		amount, _ := parseMoney(idx.get(row, "amount"))

		txs = append(txs, models.CashTransaction{
			Date:        date,
			Action:      classifyAction(action),
			RawAction:   action,
			Symbol:      idx.get(row, "symbol"),
			Description: idx.get(row, "description"),
			Quantity:    quantity,
			Price:       price,
			Fees:        fees,
			Amount:      amount,
		})
	}
	if skipped > 0 {
		warnings = append(warnings, models.Warning{
			Field:   "transactions_file",
			Message: fmt.Sprintf("skipped %d row(s) with missing action or unparseable date", skipped),
		})
	}
	return txs, warnings, nil
}
