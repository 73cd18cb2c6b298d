package services

import (
	"errors"
	"io"

	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/processors"
)

// Define common service errors
var (
	ErrParsingFailed = errors.New("csv parsing failed")
	ErrNoResult      = errors.New("no calculation result for session")
	ErrUnknownKind   = errors.New("unknown upload kind")
)

// UploadKind distinguishes the two CSV exports a session can hold.
type UploadKind string

const (
	KindGains        UploadKind = "gains"
	KindTransactions UploadKind = "transactions"
)

// UploadSummary reports what a single upload produced.
type UploadSummary struct {
	Kind     UploadKind               `json:"kind"`
	Records  int                      `json:"records"`
	Gains    *processors.GainsSummary `json:"gains_summary,omitempty"`
	Cash     *processors.CashSummary  `json:"cash_summary,omitempty"`
	Warnings []models.Warning         `json:"warnings,omitempty"`
}

// DataSummary describes everything currently uploaded for a session, for
// display on the input form.
type DataSummary struct {
	HasGains        bool                     `json:"has_gains"`
	HasTransactions bool                     `json:"has_transactions"`
	Gains           *processors.GainsSummary `json:"gains_summary,omitempty"`
	Cash            *processors.CashSummary  `json:"cash_summary,omitempty"`
}

// SessionRecords carries the detailed records for the report view.
type SessionRecords struct {
	RealizedGains    []models.RealizedGain    `json:"realized_gains"`
	CashTransactions []models.CashTransaction `json:"cash_transactions"`
}

// EstimateService is the orchestration surface for the MAGI estimator:
// uploads parse and store normalized records per session, Calculate runs the
// pure computation over them plus the submitted form inputs.
type EstimateService interface {
	ProcessUpload(fileReader io.Reader, sessionID, source string, kind UploadKind) (*UploadSummary, error)
	Calculate(sessionID string, inputs models.UserInputs, warnings []models.Warning) (*models.CalculationResult, error)
	GetLatestResult(sessionID string) (*models.CalculationResult, error)
	GetDataSummary(sessionID string) (*DataSummary, error)
	GetRecords(sessionID string) (*SessionRecords, error)
	ClearSession(sessionID string) error
}
