package services

import (
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/database"
	"github.com/username/magifolio/backend/src/logger"
	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/parsers"
	"github.com/username/magifolio/backend/src/processors"
)

const (
	ckDataSummary          = "res_data_summary_session_%s"
	ckLatestResult         = "res_latest_result_session_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

const storedDateLayout = "2006-01-02"

type estimateServiceImpl struct {
	aggregator  processors.IncomeAggregator
	calculator  *processors.MAGICalculator
	reportCache *cache.Cache
}

func NewEstimateService(
	aggregator processors.IncomeAggregator,
	calculator *processors.MAGICalculator,
	reportCache *cache.Cache,
) EstimateService {
	return &estimateServiceImpl{
		aggregator:  aggregator,
		calculator:  calculator,
		reportCache: reportCache,
	}
}

func (s *estimateServiceImpl) ProcessUpload(fileReader io.Reader, sessionID, source string, kind UploadKind) (*UploadSummary, error) {
	startTime := time.Now()
	logger.L.Info("ProcessUpload START", "sessionID", sessionID, "source", source, "kind", kind)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, err
	}

	summary := &UploadSummary{Kind: kind}
	switch kind {
	case KindGains:
		gains, warnings, err := parser.ParseGains(fileReader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
		if err := s.replaceGains(sessionID, gains); err != nil {
			return nil, err
		}
		gs := processors.SummarizeGains(gains)
		summary.Records = len(gains)
		summary.Gains = &gs
		summary.Warnings = warnings
	case KindTransactions:
		txs, warnings, err := parser.ParseCashTransactions(fileReader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
		if err := s.replaceCashTransactions(sessionID, txs); err != nil {
			return nil, err
		}
		cs := processors.SummarizeCash(txs)
		summary.Records = len(txs)
		summary.Cash = &cs
		summary.Warnings = warnings
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	s.invalidateSession(sessionID)
	logger.L.Info("ProcessUpload END", "sessionID", sessionID, "kind", kind, "records", summary.Records, "duration", time.Since(startTime))
	return summary, nil
}

func (s *estimateServiceImpl) Calculate(sessionID string, inputs models.UserInputs, warnings []models.Warning) (*models.CalculationResult, error) {
	gains, err := s.loadGains(sessionID)
	if err != nil {
		return nil, err
	}
	txs, err := s.loadCashTransactions(sessionID)
	if err != nil {
		return nil, err
	}
	if len(gains) == 0 && len(txs) == 0 {
		warnings = append(warnings, models.Warning{
			Field:   "investment_data",
			Message: "no investment data uploaded for this session; investment income treated as zero",
		})
	}

	breakdown, aggWarnings := s.aggregator.Aggregate(gains, txs, inputs)
	warnings = append(warnings, aggWarnings...)

	result, err := s.calculator.Calculate(breakdown, inputs, warnings)
	if err != nil {
		return nil, err
	}

	s.reportCache.Set(fmt.Sprintf(ckLatestResult, sessionID), result, DefaultCacheExpiration)
	logger.L.Info("Calculation complete", "sessionID", sessionID,
		"taxYear", result.TaxYear, "filingStatus", result.FilingStatus,
		"magi", result.MAGI.String(), "irmaaTier", result.IRMAATier, "warnings", len(result.Warnings))
	return result, nil
}

func (s *estimateServiceImpl) GetLatestResult(sessionID string) (*models.CalculationResult, error) {
	if cached, found := s.reportCache.Get(fmt.Sprintf(ckLatestResult, sessionID)); found {
		return cached.(*models.CalculationResult), nil
	}
	return nil, ErrNoResult
}

func (s *estimateServiceImpl) GetDataSummary(sessionID string) (*DataSummary, error) {
	cacheKey := fmt.Sprintf(ckDataSummary, sessionID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*DataSummary), nil
	}

	gains, err := s.loadGains(sessionID)
	if err != nil {
		return nil, err
	}
	txs, err := s.loadCashTransactions(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &DataSummary{
		HasGains:        len(gains) > 0,
		HasTransactions: len(txs) > 0,
	}
	if summary.HasGains {
		gs := processors.SummarizeGains(gains)
		summary.Gains = &gs
	}
	if summary.HasTransactions {
		cs := processors.SummarizeCash(txs)
		summary.Cash = &cs
	}

	s.reportCache.Set(cacheKey, summary, DefaultCacheExpiration)
	return summary, nil
}

func (s *estimateServiceImpl) GetRecords(sessionID string) (*SessionRecords, error) {
	gains, err := s.loadGains(sessionID)
	if err != nil {
		return nil, err
	}
	txs, err := s.loadCashTransactions(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionRecords{RealizedGains: gains, CashTransactions: txs}, nil
}

func (s *estimateServiceImpl) ClearSession(sessionID string) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()
	if _, err := dbTx.Exec(`DELETE FROM realized_gains WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("error deleting realized gains: %w", err)
	}
	if _, err := dbTx.Exec(`DELETE FROM cash_transactions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("error deleting cash transactions: %w", err)
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing session delete: %w", err)
	}
	s.invalidateSession(sessionID)
	logger.L.Info("Session data cleared", "sessionID", sessionID)
	return nil
}

func (s *estimateServiceImpl) invalidateSession(sessionID string) {
	s.reportCache.Delete(fmt.Sprintf(ckDataSummary, sessionID))
	s.reportCache.Delete(fmt.Sprintf(ckLatestResult, sessionID))
}

func (s *estimateServiceImpl) replaceGains(sessionID string, gains []models.RealizedGain) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM realized_gains WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("error clearing previous gains upload: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO realized_gains
		(session_id, symbol, name, opened_date, closed_date, quantity,
		proceeds, cost_basis, gain_loss, term, wash_sale, disallowed_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, g := range gains {
		_, err := stmt.Exec(
			sessionID, g.Symbol, g.Name, fmtStoredDate(g.OpenedDate), fmtStoredDate(g.ClosedDate),
			g.Quantity, g.Proceeds.String(), g.CostBasis.String(), g.GainLoss.String(),
			string(g.Term), boolToInt(g.WashSale), g.DisallowedLoss.String(),
		)
		if err != nil {
			return fmt.Errorf("error inserting realized gain: %w", err)
		}
	}
	return dbTx.Commit()
}

func (s *estimateServiceImpl) replaceCashTransactions(sessionID string, txs []models.CashTransaction) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM cash_transactions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("error clearing previous transactions upload: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO cash_transactions
		(session_id, date, action, raw_action, symbol, description, quantity, price, fees, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		_, err := stmt.Exec(
			sessionID, fmtStoredDate(t.Date), string(t.Action), t.RawAction, t.Symbol,
			t.Description, t.Quantity.String(), t.Price.String(), t.Fees.String(), t.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("error inserting cash transaction: %w", err)
		}
	}
	return dbTx.Commit()
}

func (s *estimateServiceImpl) loadGains(sessionID string) ([]models.RealizedGain, error) {
	rows, err := database.DB.Query(`SELECT symbol, name, opened_date, closed_date, quantity,
		proceeds, cost_basis, gain_loss, term, wash_sale, disallowed_loss
		FROM realized_gains WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying realized gains: %w", err)
	}
	defer rows.Close()

	var gains []models.RealizedGain
	for rows.Next() {
		var g models.RealizedGain
		var opened, closed, proceeds, costBasis, gainLoss, term, disallowed string
		var washSale int
		if err := rows.Scan(&g.Symbol, &g.Name, &opened, &closed, &g.Quantity,
			&proceeds, &costBasis, &gainLoss, &term, &washSale, &disallowed); err != nil {
			return nil, fmt.Errorf("error scanning realized gain: %w", err)
		}
		g.OpenedDate = parseStoredDate(opened)
		g.ClosedDate = parseStoredDate(closed)
		g.Proceeds = storedDecimal(proceeds)
		g.CostBasis = storedDecimal(costBasis)
		g.GainLoss = storedDecimal(gainLoss)
		g.Term = models.Term(term)
		g.WashSale = washSale != 0
		g.DisallowedLoss = storedDecimal(disallowed)
		gains = append(gains, g)
	}
	return gains, rows.Err()
}

func (s *estimateServiceImpl) loadCashTransactions(sessionID string) ([]models.CashTransaction, error) {
	rows, err := database.DB.Query(`SELECT date, action, raw_action, symbol, description,
		quantity, price, fees, amount
		FROM cash_transactions WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying cash transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.CashTransaction
	for rows.Next() {
		var t models.CashTransaction
		var date, action, quantity, price, fees, amount string
		if err := rows.Scan(&date, &action, &t.RawAction, &t.Symbol, &t.Description,
			&quantity, &price, &fees, &amount); err != nil {
			return nil, fmt.Errorf("error scanning cash transaction: %w", err)
		}
		t.Date = parseStoredDate(date)
		t.Action = models.CashAction(action)
		t.Quantity = storedDecimal(quantity)
		t.Price = storedDecimal(price)
		t.Fees = storedDecimal(fees)
		t.Amount = storedDecimal(amount)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func fmtStoredDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(storedDateLayout)
}

func parseStoredDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(storedDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// storedDecimal reads a decimal column written by this service; a corrupt
// value degrades to zero rather than failing the whole load.
func storedDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		logger.L.Warn("Corrupt decimal value in session store, using zero", "value", s)
		return decimal.Zero
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
