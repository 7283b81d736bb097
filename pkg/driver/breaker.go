package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/graphquery/pkg/alert"
	"github.com/soundprediction/graphquery/pkg/config"
)

// BreakerStore wraps a GraphStore with circuit breaking so a flapping store
// fails fast instead of stalling every in-flight search on timeouts.
type BreakerStore struct {
	store   GraphStore
	cb      *gobreaker.CircuitBreaker
	alerter alert.Alerter
	logger  *slog.Logger
}

// NewBreakerStore wraps store with a circuit breaker configured from cfg.
// When the breaker trips, the alerter (if any) is notified.
func NewBreakerStore(store GraphStore, cfg config.CircuitBreakerConfig, alerter alert.Alerter, logger *slog.Logger) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        "graph-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				msg := fmt.Sprintf("circuit breaker %q changed state from %s to %s, too many store failures", name, from, to)
				logger.Error(msg)
				if alerter != nil {
					_ = alerter.Alert(fmt.Sprintf("URGENT: circuit breaker tripped - %s", name), msg)
				}
			}
		},
	}

	return &BreakerStore{
		store:   store,
		cb:      gobreaker.NewCircuitBreaker(st),
		alerter: alerter,
		logger:  logger,
	}
}

// FindEntitiesByName implements GraphStore.
func (b *BreakerStore) FindEntitiesByName(ctx context.Context, name string, limit int) ([]EntityRecord, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.store.FindEntitiesByName(ctx, name, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]EntityRecord), nil
}

// FindPaths implements GraphStore.
func (b *BreakerStore) FindPaths(ctx context.Context, sourceID, targetID string, hopCount int, minEdgeWeight float64, limit int) ([]PathRecord, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.store.FindPaths(ctx, sourceID, targetID, hopCount, minEdgeWeight, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]PathRecord), nil
}

// FindNeighborhood implements GraphStore.
func (b *BreakerStore) FindNeighborhood(ctx context.Context, anchorID string, maxHops, limit int) ([]NeighborRecord, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.store.FindNeighborhood(ctx, anchorID, maxHops, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]NeighborRecord), nil
}

// Close implements GraphStore. Close is not routed through the breaker.
func (b *BreakerStore) Close(ctx context.Context) error {
	return b.store.Close(ctx)
}

var _ GraphStore = (*BreakerStore)(nil)
