package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/deliverly/cart-service/internal/menu"
	"github.com/deliverly/cart-service/pkg/enums"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
	"github.com/deliverly/cart-service/pkg/metrics"
)

// Aggregator owns one session's cart lifecycle: line-item bookkeeping,
// derived totals, write-through persistence, and the subscriber read model.
// All operations are synchronous; the mutex keeps the merge lookup and the
// corresponding write in one critical section so rapid successive mutations
// serialize cleanly.
type Aggregator struct {
	mu        sync.Mutex
	sessionID string
	store     Store
	logg      *logger.Logger
	metrics   *metrics.CartMetrics
	cart      *Cart
	listeners []func(Snapshot)
}

// NewAggregator builds an aggregator for the given session key.
func NewAggregator(sessionID string, store Store, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Aggregator, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	return &Aggregator{
		sessionID: sessionID,
		store:     store,
		logg:      logg,
		metrics:   cartMetrics,
	}, nil
}

// Hydrate loads the persisted cart for this session. Unreadable or missing
// state degrades to an absent cart; the cart subsystem must never take the
// host down over a stale blob.
func (a *Aggregator) Hydrate(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	loaded, err := a.store.Load(ctx, a.sessionID)
	if err != nil {
		if a.logg != nil {
			a.logg.Warn(a.logg.WithSessionID(ctx, a.sessionID), "cart snapshot unreadable, starting empty")
		}
		a.cart = nil
		return
	}
	a.cart = loaded
}

// AddItemInput carries everything needed to add a product to the cart. The
// selection is assumed to have been validated by the caller; the aggregator
// stays usable for re-adding already-validated configurations.
type AddItemInput struct {
	Product           menu.Item
	Restaurant        menu.Restaurant
	Quantity          int
	SelectedOptionIDs []string
	SelectedOptions   []SelectedOption

	// ReplaceCart authorizes discarding an existing cart bound to another
	// restaurant. Without it a cross-restaurant add fails with a conflict
	// so the caller can ask the user first.
	ReplaceCart bool
}

// AddItem adds a product to the cart, creating the cart on first use. A line
// with the same product and the same unordered option-id set is merged by
// quantity instead of duplicated, keeping its original frozen unit price.
func (a *Aggregator) AddItem(ctx context.Context, input AddItemInput) (enums.AddOutcome, error) {
	if strings.TrimSpace(input.Product.ID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Restaurant.ID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if !input.Product.Available {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart != nil && a.cart.RestaurantID != input.Restaurant.ID {
		if !input.ReplaceCart {
			a.metrics.IncConflict()
			return "", pkgerrors.New(pkgerrors.CodeConflict, "cart holds items from another restaurant").WithDetails(map[string]any{
				"cart_restaurant_id":      a.cart.RestaurantID,
				"requested_restaurant_id": input.Restaurant.ID,
			})
		}
		a.cart = nil
	}

	if a.cart == nil {
		a.cart = &Cart{
			RestaurantID:   input.Restaurant.ID,
			RestaurantName: input.Restaurant.Name,
			DeliveryFee:    input.Restaurant.DeliveryFee,
			MinimumOrder:   input.Restaurant.MinimumOrder,
		}
	}

	unitPrice := input.Product.BasePrice
	for _, option := range input.SelectedOptions {
		unitPrice += option.PriceModifier
	}

	outcome := enums.AddOutcomeAdded
	if idx := a.findLine(input.Product.ID, input.SelectedOptionIDs, true); idx >= 0 {
		line := &a.cart.Items[idx]
		line.Quantity += quantity
		line.TotalPrice = line.Quantity * line.UnitPrice
		outcome = enums.AddOutcomeMerged
	} else {
		a.cart.Items = append(a.cart.Items, LineItem{
			ProductID:         input.Product.ID,
			ProductName:       input.Product.Name,
			BasePrice:         input.Product.BasePrice,
			Quantity:          quantity,
			UnitPrice:         unitPrice,
			TotalPrice:        quantity * unitPrice,
			SelectedOptionIDs: append([]string(nil), input.SelectedOptionIDs...),
			SelectedOptions:   append([]SelectedOption(nil), input.SelectedOptions...),
		})
	}

	a.cart.recompute()
	if err := a.persistLocked(ctx); err != nil {
		return outcome, err
	}
	a.metrics.IncMutation("add_item")
	a.notifyLocked()
	return outcome, nil
}

// UpdateQuantity sets the quantity on the matching line. Quantities at or
// below zero remove the line. Missing lines are a no-op, never an error.
//
// A nil selection matches the product's first line; a non-nil selection,
// including an empty one, must match the line's option-id set exactly, so a
// no-options line can be targeted next to an optioned line of the same
// product.
func (a *Aggregator) UpdateQuantity(ctx context.Context, productID string, quantity int, selectedOptionIDs []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart == nil {
		return nil
	}
	idx := a.findLine(productID, selectedOptionIDs, selectedOptionIDs != nil)
	if idx < 0 {
		return nil
	}

	if quantity <= 0 {
		a.cart.Items = append(a.cart.Items[:idx], a.cart.Items[idx+1:]...)
	} else {
		line := &a.cart.Items[idx]
		line.Quantity = quantity
		line.TotalPrice = quantity * line.UnitPrice
	}

	a.cart.recompute()
	if err := a.persistLocked(ctx); err != nil {
		return err
	}
	a.metrics.IncMutation("update_quantity")
	a.notifyLocked()
	return nil
}

// UpdateSelection replaces the variant selection on the matching line and
// re-derives its unit price from the stored base price plus the new option
// modifiers. This is the one path where a frozen unit price changes.
func (a *Aggregator) UpdateSelection(ctx context.Context, productID string, newOptionIDs []string, newOptions []SelectedOption) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart == nil {
		return nil
	}
	idx := a.findLine(productID, nil, false)
	if idx < 0 {
		return nil
	}

	line := &a.cart.Items[idx]
	unitPrice := line.BasePrice
	for _, option := range newOptions {
		unitPrice += option.PriceModifier
	}
	line.UnitPrice = unitPrice
	line.TotalPrice = line.Quantity * unitPrice
	line.SelectedOptionIDs = append([]string(nil), newOptionIDs...)
	line.SelectedOptions = append([]SelectedOption(nil), newOptions...)

	a.cart.recompute()
	if err := a.persistLocked(ctx); err != nil {
		return err
	}
	a.metrics.IncMutation("update_selection")
	a.notifyLocked()
	return nil
}

// RemoveItem deletes the matching line from the cart.
func (a *Aggregator) RemoveItem(ctx context.Context, productID string, selectedOptionIDs []string) error {
	return a.UpdateQuantity(ctx, productID, 0, selectedOptionIDs)
}

// Clear discards the cart and its persisted copy.
func (a *Aggregator) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Delete(ctx, a.sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	a.cart = nil
	a.metrics.IncMutation("clear")
	a.notifyLocked()
	return nil
}

// IsMinimumOrderMet reports whether the subtotal reaches the restaurant's
// minimum-order threshold. Absent carts never meet it.
func (a *Aggregator) IsMinimumOrderMet() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart == nil {
		return false
	}
	return a.cart.Subtotal >= a.cart.MinimumOrder
}

// ItemCount returns the sum of all line quantities.
func (a *Aggregator) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart == nil {
		return 0
	}
	return a.cart.itemCount()
}

// Snapshot returns a deep copy of the current cart state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe registers a listener that receives a fresh snapshot after every
// mutation. The listener is invoked synchronously with the current state on
// registration.
func (a *Aggregator) Subscribe(listener func(Snapshot)) {
	if listener == nil {
		return
	}
	a.mu.Lock()
	a.listeners = append(a.listeners, listener)
	snap := a.snapshotLocked()
	a.mu.Unlock()
	listener(snap)
}

func (a *Aggregator) snapshotLocked() Snapshot {
	snap := Snapshot{Cart: a.cart.clone()}
	if a.cart != nil {
		snap.ItemCount = a.cart.itemCount()
	}
	return snap
}

func (a *Aggregator) notifyLocked() {
	snap := a.snapshotLocked()
	for _, listener := range a.listeners {
		listener(snap)
	}
}

func (a *Aggregator) persistLocked(ctx context.Context) error {
	if err := a.store.Save(ctx, a.sessionID, a.cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart snapshot")
	}
	return nil
}

// findLine locates a line by product id, additionally matching the unordered
// option-id set when matchSelection holds.
func (a *Aggregator) findLine(productID string, selectedOptionIDs []string, matchSelection bool) int {
	if a.cart == nil {
		return -1
	}
	for i, item := range a.cart.Items {
		if item.ProductID != productID {
			continue
		}
		if matchSelection && !sameSelection(item.SelectedOptionIDs, selectedOptionIDs) {
			continue
		}
		return i
	}
	return -1
}
