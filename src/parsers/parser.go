// Package parsers resolves broker-specific CSV parsers by source name.
package parsers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/parsers/schwab"
)

var ErrUnknownSource = errors.New("unknown broker source")

// Parser converts a broker's CSV exports into normalized records. Per-row
// problems are reported as warnings; only a structurally unreadable file is
// an error.
type Parser interface {
	ParseGains(r io.Reader) ([]models.RealizedGain, []models.Warning, error)
	ParseCashTransactions(r io.Reader) ([]models.CashTransaction, []models.Warning, error)
}

// GetParser returns the parser for a broker source identifier.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "schwab":
		return schwab.NewParser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
}
