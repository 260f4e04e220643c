package usecase

import (
	"context"

	"payments-engine/internal/domain"
)

// EventRepository defines the interface for reading the event log.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go EventRepository
type EventRepository interface {
	// StreamEvents decodes the log at path and calls handle for every event
	// in log order, stopping at the first error.
	StreamEvents(ctx context.Context, path string, handle func(domain.Event) error) error
}
