package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-engine/internal/domain"
)

func collect(t *testing.T, repo *CSVEventRepository, path string) ([]domain.Event, error) {
	t.Helper()
	var events []domain.Event
	err := repo.StreamEvents(context.Background(), path, func(ev domain.Event) error {
		events = append(events, ev)
		return nil
	})
	return events, err
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCSVEventRepository_StreamEvents(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []domain.Event
		wantErr  bool
	}{
		{
			name: "valid events with padded fields",
			lines: []string{
				"type, client, tx, amount",
				"deposit, 1, 1, 3.0",
				"withdrawal,   2,  5, 1.5  ",
				"dispute, 1, 1, ",
				"resolve, 1, 1,",
				"chargeback, 1, 1",
			},
			expected: []domain.Event{
				{Type: domain.EventTypeDeposit, Client: 1, Tx: 1, Amount: dec("3.0")},
				{Type: domain.EventTypeWithdrawal, Client: 2, Tx: 5, Amount: dec("1.5")},
				{Type: domain.EventTypeDispute, Client: 1, Tx: 1},
				{Type: domain.EventTypeResolve, Client: 1, Tx: 1},
				{Type: domain.EventTypeChargeback, Client: 1, Tx: 1},
			},
		},
		{
			name: "dispute amount is ignored even when unparsable",
			lines: []string{
				"type,client,tx,amount",
				"dispute,3,9,abc",
			},
			expected: []domain.Event{
				{Type: domain.EventTypeDispute, Client: 3, Tx: 9},
			},
		},
		{
			name: "deposit without amount decodes with a nil amount",
			lines: []string{
				"type,client,tx,amount",
				"deposit,1,1,",
			},
			expected: []domain.Event{
				{Type: domain.EventTypeDeposit, Client: 1, Tx: 1},
			},
		},
		{
			name:     "empty file with header only",
			lines:    []string{"type,client,tx,amount"},
			expected: nil,
		},
		{
			name:    "invalid amount format",
			lines:   []string{"type, client, tx, amount", "deposit, 1, 1, r"},
			wantErr: true,
		},
		{
			name:    "unknown event type",
			lines:   []string{"type,client,tx,amount", "transfer,1,1,1.0"},
			wantErr: true,
		},
		{
			name:    "client id out of range",
			lines:   []string{"type,client,tx,amount", "deposit,70000,1,1.0"},
			wantErr: true,
		},
		{
			name:    "negative tx id",
			lines:   []string{"type,client,tx,amount", "deposit,1,-1,1.0"},
			wantErr: true,
		},
		{
			name:    "too few fields",
			lines:   []string{"type,client,tx,amount", "deposit,1"},
			wantErr: true,
		},
		{
			name:    "too many fields",
			lines:   []string{"type,client,tx,amount", "deposit,1,1,1.0,extra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := createTempCSVFromLines(t, tt.lines)
			require.NoError(t, err)

			repo := NewCSVEventRepository()
			got, err := collect(t, repo, tmpFile)

			if tt.wantErr {
				assert.Error(t, err, "Expected error but got nil")
				assert.True(t, errors.Is(err, domain.ErrInvalidInput), "expected invalid input, got %v", err)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i, want := range tt.expected {
				assert.True(t, compareEvents(got[i], want), "event[%d] = %+v, want %+v", i, got[i], want)
			}
		})
	}
}

func TestCSVEventRepository_ErrorReportsLine(t *testing.T) {
	tmpFile, err := createTempCSVFromLines(t, []string{
		"type,client,tx,amount",
		"deposit,1,1,1.0",
		"deposit,1,2,oops",
	})
	require.NoError(t, err)

	got, err := collect(t, NewCSVEventRepository(), tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Len(t, got, 1, "events before the bad record are still delivered in order")
}

func TestCSVEventRepository_StopsOnHandlerError(t *testing.T) {
	tmpFile, err := createTempCSVFromLines(t, []string{
		"type,client,tx,amount",
		"deposit,1,1,1.0",
		"deposit,1,2,1.0",
		"deposit,1,3,1.0",
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	err = NewCSVEventRepository().StreamEvents(context.Background(), tmpFile, func(domain.Event) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestCSVEventRepository_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCSVEventRepository().streamFrom(ctx, strings.NewReader("type,client,tx,amount\ndeposit,1,1,1.0\n"), "inline", func(domain.Event) error {
		t.Fatal("handler must not be called after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVEventRepository_FileErrors(t *testing.T) {
	repo := NewCSVEventRepository()

	t.Run("file not found", func(t *testing.T) {
		_, err := collect(t, repo, "nonexistent_file.csv")
		if err == nil {
			t.Error("Expected error for nonexistent file, got nil")
		}
	})

	t.Run("file with no header", func(t *testing.T) {
		tmpFile, err := os.CreateTemp(t.TempDir(), "empty_*.csv")
		require.NoError(t, err)
		tmpFile.Close()

		_, err = collect(t, repo, tmpFile.Name())
		if err == nil {
			t.Error("Expected error for empty file, got nil")
		}
	})
}

// Helper functions

func createTempCSVFromLines(t testing.TB, lines []string) (string, error) {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(tmpFile, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		return "", err
	}
	return tmpFile, nil
}

func compareEvents(got, want domain.Event) bool {
	if got.Type != want.Type || got.Client != want.Client || got.Tx != want.Tx {
		return false
	}
	if got.Amount == nil || want.Amount == nil {
		return got.Amount == nil && want.Amount == nil
	}
	return got.Amount.Equal(*want.Amount)
}

// Benchmark tests

func BenchmarkStreamEvents(b *testing.B) {
	lines := []string{"type,client,tx,amount"}
	for i := 0; i < 1000; i++ {
		lines = append(lines, "deposit,"+strconv.Itoa(i%100)+","+strconv.Itoa(i)+",150.0001")
	}

	tmpFile, err := createTempCSVFromLines(b, lines)
	if err != nil {
		b.Fatalf("Failed to create temp file: %v", err)
	}

	repo := NewCSVEventRepository()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := repo.StreamEvents(ctx, tmpFile, func(domain.Event) error { return nil })
		if err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}
