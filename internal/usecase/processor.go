package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payments-engine/internal/domain"
	"payments-engine/internal/ledger"
)

// Reasons reported when an event is dropped without changing state.
const (
	reasonInsufficientFunds = "insufficient_funds"
	reasonUnknownTx         = "unknown_transaction"
	reasonAlreadyDisputed   = "already_disputed"
	reasonNotDisputed       = "not_disputed"
	reasonNotResolved       = "not_resolved"
)

// EventProcessor applies events, one at a time and in log order, to the
// Ledger Store it owns.
type EventProcessor struct {
	store  *ledger.Store
	logger *zap.Logger
}

// NewEventProcessor creates a processor over store. A nil logger discards
// drop diagnostics.
func NewEventProcessor(store *ledger.Store, logger *zap.Logger) *EventProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventProcessor{store: store, logger: logger}
}

// Process applies one event. It reports whether the event changed state;
// false means the event was dropped as a tolerated business-rule violation.
// The only error is an ErrInvalidInput for a deposit or withdrawal without
// a usable amount.
func (p *EventProcessor) Process(event domain.Event) (bool, error) {
	if !event.Type.Valid() {
		return false, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, event.Type)
	}
	if event.Type.RequiresAmount() {
		if event.Amount == nil {
			return false, fmt.Errorf("%s client=%d tx=%d: %w", event.Type, event.Client, event.Tx, domain.ErrMissingAmount)
		}
		if event.Amount.IsNegative() {
			return false, fmt.Errorf("%s client=%d tx=%d: %w", event.Type, event.Client, event.Tx, domain.ErrNegativeAmount)
		}
	}

	account := p.store.GetOrCreateAccount(event.Client)
	key := domain.TxKey{Tx: event.Tx, Client: event.Client}

	var reason string
	switch event.Type {
	case domain.EventTypeDeposit:
		p.deposit(account, key, *event.Amount)
	case domain.EventTypeWithdrawal:
		reason = p.withdraw(account, key, *event.Amount)
	case domain.EventTypeDispute:
		reason = p.dispute(account, key)
	case domain.EventTypeResolve:
		reason = p.resolve(account, key)
	case domain.EventTypeChargeback:
		reason = p.chargeback(account, key)
	}

	if reason != "" {
		p.logger.Debug("event ignored",
			zap.String("type", string(event.Type)),
			zap.Uint16("client", uint16(event.Client)),
			zap.Uint32("tx", uint32(event.Tx)),
			zap.String("reason", reason),
		)
		return false, nil
	}
	return true, nil
}

// Deposits are applied to locked accounts as well; a chargeback lock does
// not gate new activity.
func (p *EventProcessor) deposit(account *domain.ClientAccount, key domain.TxKey, amount decimal.Decimal) {
	account.Available = account.Available.Add(amount)
	account.Total = account.Total.Add(amount)
	p.store.RecordTransaction(key, domain.StoredTransaction{Kind: domain.StoredDeposit, Amount: amount})
}

func (p *EventProcessor) withdraw(account *domain.ClientAccount, key domain.TxKey, amount decimal.Decimal) string {
	if account.Available.LessThan(amount) {
		return reasonInsufficientFunds
	}
	account.Available = account.Available.Sub(amount)
	account.Total = account.Total.Sub(amount)
	p.store.RecordTransaction(key, domain.StoredTransaction{Kind: domain.StoredWithdrawal, Amount: amount})
	return ""
}

// A transaction can be disputed at most once. Disputing a deposit holds at
// most what is still available.
func (p *EventProcessor) dispute(account *domain.ClientAccount, key domain.TxKey) string {
	tx, ok := p.store.GetTransaction(key)
	if !ok {
		return reasonUnknownTx
	}
	if _, disputed := p.store.GetDisputeState(key); disputed {
		return reasonAlreadyDisputed
	}

	if tx.Kind == domain.StoredDeposit {
		hold(account, decimal.Min(account.Available, tx.Amount))
	}
	p.store.SetDisputeState(key, domain.DisputeStateDisputed)
	return ""
}

func (p *EventProcessor) resolve(account *domain.ClientAccount, key domain.TxKey) string {
	tx, ok := p.store.GetTransaction(key)
	if !ok {
		return reasonUnknownTx
	}
	if state, _ := p.store.GetDisputeState(key); state != domain.DisputeStateDisputed {
		return reasonNotDisputed
	}

	if tx.Kind == domain.StoredDeposit {
		release(account, decimal.Min(account.Held, tx.Amount))
	}
	p.store.SetDisputeState(key, domain.DisputeStateResolved)
	return ""
}

// Only a resolved dispute can be charged back. A deposit chargeback removes
// at most what is available and locks the account; a withdrawal chargeback
// returns the withdrawn funds and leaves the lock untouched.
func (p *EventProcessor) chargeback(account *domain.ClientAccount, key domain.TxKey) string {
	tx, ok := p.store.GetTransaction(key)
	if !ok {
		return reasonUnknownTx
	}
	if state, _ := p.store.GetDisputeState(key); state != domain.DisputeStateResolved {
		return reasonNotResolved
	}

	switch tx.Kind {
	case domain.StoredDeposit:
		reverse(account, decimal.Min(account.Available, tx.Amount))
		account.Locked = true
	case domain.StoredWithdrawal:
		reverse(account, tx.Amount.Neg())
	}
	p.store.SetDisputeState(key, domain.DisputeStateChargedBack)
	return ""
}

func hold(account *domain.ClientAccount, amount decimal.Decimal) {
	account.Available = account.Available.Sub(amount)
	account.Held = account.Held.Add(amount)
}

func release(account *domain.ClientAccount, amount decimal.Decimal) {
	account.Available = account.Available.Add(amount)
	account.Held = account.Held.Sub(amount)
}

func reverse(account *domain.ClientAccount, amount decimal.Decimal) {
	account.Available = account.Available.Sub(amount)
	account.Total = account.Total.Sub(amount)
}

// ProcessEvent applies a single event to store.
func ProcessEvent(store *ledger.Store, event domain.Event) error {
	_, err := NewEventProcessor(store, nil).Process(event)
	return err
}
