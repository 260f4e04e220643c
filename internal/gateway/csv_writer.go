package gateway

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"payments-engine/internal/domain"
)

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// CSVAccountWriter serializes account snapshots as CSV rows.
type CSVAccountWriter struct {
	w io.Writer
}

// NewCSVAccountWriter creates a writer targeting w.
func NewCSVAccountWriter(w io.Writer) *CSVAccountWriter {
	return &CSVAccountWriter{w: w}
}

// WriteAccounts writes the header and one row per snapshot, in the order
// given, with every amount fixed to domain.DisplayScale digits.
func (cw *CSVAccountWriter) WriteAccounts(accounts []domain.AccountSnapshot) error {
	writer := csv.NewWriter(cw.w)

	if err := writer.Write(accountHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, acc := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acc.Client), 10),
			acc.Available.StringFixed(domain.DisplayScale),
			acc.Held.StringFixed(domain.DisplayScale),
			acc.Total.StringFixed(domain.DisplayScale),
			strconv.FormatBool(acc.Locked),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write account %d: %w", acc.Client, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush accounts: %w", err)
	}
	return nil
}
