package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account.
type ClientID uint16

// TransactionID identifies an original deposit or withdrawal. Dispute,
// resolve and chargeback events reference it rather than introducing new ids.
type TransactionID uint32

// EventType defines the kind of an incoming ledger event.
type EventType string

const (
	EventTypeDeposit    EventType = "deposit"
	EventTypeWithdrawal EventType = "withdrawal"
	EventTypeDispute    EventType = "dispute"
	EventTypeResolve    EventType = "resolve"
	EventTypeChargeback EventType = "chargeback"
)

// ParseEventType maps a raw record type onto a known EventType.
func ParseEventType(raw string) (EventType, error) {
	if t := EventType(strings.ToLower(strings.TrimSpace(raw))); t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, raw)
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeDeposit, EventTypeWithdrawal, EventTypeDispute, EventTypeResolve, EventTypeChargeback:
		return true
	}
	return false
}

// RequiresAmount reports whether events of this type must carry an amount.
func (t EventType) RequiresAmount() bool {
	return t == EventTypeDeposit || t == EventTypeWithdrawal
}

// Event is one decoded input record.
// Amount is nil when the record carried none.
type Event struct {
	Type   EventType
	Client ClientID
	Tx     TransactionID
	Amount *decimal.Decimal
}

// TxKey is the composite key used for every stored transaction and dispute
// lookup. A dispute naming the wrong client for a tx id finds nothing.
type TxKey struct {
	Tx     TransactionID
	Client ClientID
}

// StoredTransactionKind is the kind of a retained original transaction.
type StoredTransactionKind string

const (
	StoredDeposit    StoredTransactionKind = "deposit"
	StoredWithdrawal StoredTransactionKind = "withdrawal"
)

// StoredTransaction is the immutable record of a successful deposit or
// withdrawal, kept for later dispute lookups.
type StoredTransaction struct {
	Kind   StoredTransactionKind
	Amount decimal.Decimal
}

// DisputeState is the current point of a stored transaction in the dispute
// lifecycle. A missing entry means the transaction was never disputed.
type DisputeState string

const (
	DisputeStateDisputed    DisputeState = "disputed"
	DisputeStateResolved    DisputeState = "resolved"
	DisputeStateChargedBack DisputeState = "charged_back"
)

var (
	// ErrInvalidInput marks a malformed record or an event that cannot be
	// applied at all. It is fatal to the whole replay.
	ErrInvalidInput = errors.New("invalid input")

	ErrMissingAmount  = fmt.Errorf("%w: missing amount", ErrInvalidInput)
	ErrNegativeAmount = fmt.Errorf("%w: negative amount", ErrInvalidInput)
)
