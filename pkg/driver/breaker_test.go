package driver

import (
	"context"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/types"
)

// flakyStore fails every read with a store-unavailable error.
type flakyStore struct {
	calls int
}

func (f *flakyStore) FindEntitiesByName(ctx context.Context, name string, limit int) ([]EntityRecord, error) {
	f.calls++
	return nil, fmt.Errorf("connection refused: %w", types.ErrStoreUnavailable)
}

func (f *flakyStore) FindPaths(ctx context.Context, sourceID, targetID string, hopCount int, minEdgeWeight float64, limit int) ([]PathRecord, error) {
	f.calls++
	return nil, fmt.Errorf("connection refused: %w", types.ErrStoreUnavailable)
}

func (f *flakyStore) FindNeighborhood(ctx context.Context, anchorID string, maxHops, limit int) ([]NeighborRecord, error) {
	f.calls++
	return nil, fmt.Errorf("connection refused: %w", types.ErrStoreUnavailable)
}

func (f *flakyStore) Close(ctx context.Context) error { return nil }

// recordingAlerter remembers the alerts it receives.
type recordingAlerter struct {
	subjects []string
}

func (r *recordingAlerter) Alert(subject, message string) error {
	r.subjects = append(r.subjects, subject)
	return nil
}

func TestBreakerStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          30,
		ReadyToTripRatio: 0.6,
	}

	t.Run("opens after repeated failures and fails fast", func(t *testing.T) {
		store := &flakyStore{}
		alerter := &recordingAlerter{}
		breaker := NewBreakerStore(store, cfg, alerter, nil)

		for i := 0; i < 3; i++ {
			_, err := breaker.FindEntitiesByName(ctx, "Acme Corp", 3)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrStoreUnavailable)
		}
		assert.Equal(t, 3, store.calls)

		// The breaker is now open: calls are rejected without touching the
		// store.
		_, err := breaker.FindEntitiesByName(ctx, "Acme Corp", 3)
		require.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Equal(t, 3, store.calls)

		require.Len(t, alerter.subjects, 1)
		assert.Contains(t, alerter.subjects[0], "circuit breaker tripped")
	})

	t.Run("passes successful reads through", func(t *testing.T) {
		fixture := &staticStore{
			entities: []EntityRecord{{ID: "e1", Name: "Acme Corp"}},
		}
		breaker := NewBreakerStore(fixture, cfg, nil, nil)

		records, err := breaker.FindEntitiesByName(ctx, "Acme Corp", 3)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "e1", records[0].ID)
	})
}

// staticStore returns fixed records.
type staticStore struct {
	entities []EntityRecord
}

func (s *staticStore) FindEntitiesByName(ctx context.Context, name string, limit int) ([]EntityRecord, error) {
	return s.entities, nil
}

func (s *staticStore) FindPaths(ctx context.Context, sourceID, targetID string, hopCount int, minEdgeWeight float64, limit int) ([]PathRecord, error) {
	return nil, nil
}

func (s *staticStore) FindNeighborhood(ctx context.Context, anchorID string, maxHops, limit int) ([]NeighborRecord, error) {
	return nil, nil
}

func (s *staticStore) Close(ctx context.Context) error { return nil }
