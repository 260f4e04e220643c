package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"payments-engine/internal/domain"
	"payments-engine/internal/ledger"
)

// ReplayUseCase orchestrates one replay of an event log.
type ReplayUseCase struct {
	repo   EventRepository
	logger *zap.Logger
}

// NewReplayUseCase creates a new instance of the usecase.
func NewReplayUseCase(repo EventRepository, logger *zap.Logger) *ReplayUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayUseCase{repo: repo, logger: logger}
}

// Replay applies every event of the log at path to a fresh ledger and
// returns the final account snapshot. The first error aborts the run and
// nothing is returned; events applied before it are discarded with the
// ledger.
func (uc *ReplayUseCase) Replay(ctx context.Context, path string) ([]domain.AccountSnapshot, *domain.ReplaySummary, error) {
	store := ledger.NewStore()
	processor := NewEventProcessor(store, uc.logger)
	summary := domain.ReplaySummary{}

	err := uc.repo.StreamEvents(ctx, path, func(event domain.Event) error {
		summary.EventsRead++
		applied, err := processor.Process(event)
		if err != nil {
			return fmt.Errorf("event %d: %w", summary.EventsRead, err)
		}
		if applied {
			summary.EventsApplied++
		} else {
			summary.EventsIgnored++
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not replay events: %w", err)
	}

	snapshots := ledger.Snapshot(store)
	summary.Clients = len(snapshots)

	uc.logger.Info("replay completed",
		zap.String("path", path),
		zap.Int("events_read", summary.EventsRead),
		zap.Int("events_applied", summary.EventsApplied),
		zap.Int("events_ignored", summary.EventsIgnored),
		zap.Int("clients", summary.Clients),
	)

	return snapshots, &summary, nil
}
