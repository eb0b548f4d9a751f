package cart

import (
	"context"
	"sync"

	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
	"github.com/deliverly/cart-service/pkg/metrics"
)

// Manager hands out one aggregator per session key, hydrating it from the
// store on first touch.
type Manager struct {
	mu      sync.Mutex
	store   Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	carts   map[string]*Aggregator
}

// NewManager builds a session-scoped cart registry.
func NewManager(store Store, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Manager, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	return &Manager{
		store:   store,
		logg:    logg,
		metrics: cartMetrics,
		carts:   map[string]*Aggregator{},
	}, nil
}

// Get returns the aggregator for the session, creating and hydrating it on
// first use.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Aggregator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if agg, ok := m.carts[sessionID]; ok {
		return agg, nil
	}

	agg, err := NewAggregator(sessionID, m.store, m.logg, m.metrics)
	if err != nil {
		return nil, err
	}
	agg.Hydrate(ctx)

	m.carts[sessionID] = agg
	m.metrics.SetActiveSessions(len(m.carts))
	return agg, nil
}

// Drop forgets the aggregator for the session. The persisted snapshot is
// untouched; the next Get rehydrates from the store.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	m.metrics.SetActiveSessions(len(m.carts))
}
