// Package ledger holds the in-memory state of one replay: client balances,
// the transactions that may later be disputed, and their dispute states.
// It applies no business rules.
package ledger

import (
	"sort"

	"payments-engine/internal/domain"
)

// Store is owned by a single processor for the lifetime of one run and is
// not safe for concurrent use.
type Store struct {
	accounts     map[domain.ClientID]*domain.ClientAccount
	transactions map[domain.TxKey]domain.StoredTransaction
	disputes     map[domain.TxKey]domain.DisputeState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[domain.ClientID]*domain.ClientAccount),
		transactions: make(map[domain.TxKey]domain.StoredTransaction),
		disputes:     make(map[domain.TxKey]domain.DisputeState),
	}
}

// GetOrCreateAccount returns the account for id, creating a zeroed one on
// first reference.
func (s *Store) GetOrCreateAccount(id domain.ClientID) *domain.ClientAccount {
	if acc, ok := s.accounts[id]; ok {
		return acc
	}
	acc := domain.NewClientAccount(id)
	s.accounts[id] = acc
	return acc
}

// GetAccount returns the account for id, if any.
func (s *Store) GetAccount(id domain.ClientID) (*domain.ClientAccount, bool) {
	acc, ok := s.accounts[id]
	return acc, ok
}

// RecordTransaction inserts or overwrites the stored transaction at key.
func (s *Store) RecordTransaction(key domain.TxKey, tx domain.StoredTransaction) {
	s.transactions[key] = tx
}

func (s *Store) GetTransaction(key domain.TxKey) (domain.StoredTransaction, bool) {
	tx, ok := s.transactions[key]
	return tx, ok
}

func (s *Store) HasTransaction(key domain.TxKey) bool {
	_, ok := s.transactions[key]
	return ok
}

func (s *Store) GetDisputeState(key domain.TxKey) (domain.DisputeState, bool) {
	state, ok := s.disputes[key]
	return state, ok
}

func (s *Store) SetDisputeState(key domain.TxKey, state domain.DisputeState) {
	s.disputes[key] = state
}

// AllAccounts returns the live account mapping. Callers must not mutate it.
func (s *Store) AllAccounts() map[domain.ClientID]*domain.ClientAccount {
	return s.accounts
}

// Snapshot reads the final state of every account, rounding each amount to
// domain.DisplayScale (half away from zero). Stored values keep full
// precision. Accounts are ordered by client id.
func Snapshot(s *Store) []domain.AccountSnapshot {
	snapshots := make([]domain.AccountSnapshot, 0, len(s.accounts))
	for _, acc := range s.accounts {
		snapshots = append(snapshots, domain.AccountSnapshot{
			Client:    acc.ID,
			Available: acc.Available.Round(domain.DisplayScale),
			Held:      acc.Held.Round(domain.DisplayScale),
			Total:     acc.Total.Round(domain.DisplayScale),
			Locked:    acc.Locked,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
	return snapshots
}
