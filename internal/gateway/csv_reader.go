package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"payments-engine/internal/domain"
)

const (
	colType = iota
	colClient
	colTx
	colAmount
)

// CSVEventRepository implements the EventRepository interface for CSV files
// with the columns type, client, tx, amount.
type CSVEventRepository struct{}

// NewCSVEventRepository creates a new repository instance.
func NewCSVEventRepository() *CSVEventRepository {
	return &CSVEventRepository{}
}

// StreamEvents reads the event log at path one record at a time and hands
// every decoded event to handle in file order.
func (r *CSVEventRepository) StreamEvents(ctx context.Context, path string, handle func(domain.Event) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open event file %s: %w", path, err)
	}
	defer file.Close()

	return r.streamFrom(ctx, file, path, handle)
}

func (r *CSVEventRepository) streamFrom(ctx context.Context, src io.Reader, name string, handle func(domain.Event) error) error {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", name, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: error reading record from %s: %v", domain.ErrInvalidInput, name, err)
		}

		line, _ := reader.FieldPos(0)
		event, err := decodeEvent(record)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}

		if err := handle(event); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
}

func decodeEvent(record []string) (domain.Event, error) {
	if len(record) < colAmount || len(record) > colAmount+1 {
		return domain.Event{}, fmt.Errorf("%w: expected 3 or 4 fields, got %d", domain.ErrInvalidInput, len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	eventType, err := domain.ParseEventType(record[colType])
	if err != nil {
		return domain.Event{}, err
	}

	client, err := strconv.ParseUint(record[colClient], 10, 16)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: could not parse client '%s': %v", domain.ErrInvalidInput, record[colClient], err)
	}

	tx, err := strconv.ParseUint(record[colTx], 10, 32)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: could not parse tx '%s': %v", domain.ErrInvalidInput, record[colTx], err)
	}

	event := domain.Event{
		Type:   eventType,
		Client: domain.ClientID(client),
		Tx:     domain.TransactionID(tx),
	}

	// Amounts on dispute-workflow records are ignored.
	if eventType.RequiresAmount() && len(record) > colAmount && record[colAmount] != "" {
		amount, err := decimal.NewFromString(record[colAmount])
		if err != nil {
			return domain.Event{}, fmt.Errorf("%w: could not parse amount '%s': %v", domain.ErrInvalidInput, record[colAmount], err)
		}
		event.Amount = &amount
	}

	return event, nil
}
