package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deliverly/cart-service/api/middleware"
	"github.com/deliverly/cart-service/api/responses"
	"github.com/deliverly/cart-service/api/validators"
	cartsvc "github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/internal/menu"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
	"github.com/deliverly/cart-service/pkg/types"
	"github.com/deliverly/cart-service/pkg/variants"
)

// Catalog is the slice of the menu API the cart handlers need.
type Catalog interface {
	GetRestaurant(ctx context.Context, id string) (*menu.Restaurant, error)
	GetItem(ctx context.Context, id string) (*menu.Item, error)
	GetVariantGroups(ctx context.Context, itemID string) ([]variants.Group, error)
}

// GetCart returns the session's current cart read model.
func GetCart(mgr *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}
		responses.WriteSuccess(w, newCartResponse(agg.Snapshot(), agg.IsMinimumOrderMet()))
	}
}

// AddItem resolves the product, restaurant and variant selection against the
// catalog and adds the line to the session's cart.
func AddItem(mgr *cartsvc.Manager, catalog Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := catalog.GetItem(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item.RestaurantID != payload.RestaurantID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to restaurant"))
			return
		}
		restaurant, err := catalog.GetRestaurant(r.Context(), payload.RestaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groups, err := catalog.GetVariantGroups(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := resolveSelection(groups, payload.SelectedOptionIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !variants.IsComplete(groups, groupSelection(groups, payload.SelectedOptionIDs)) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant selection is incomplete"))
			return
		}

		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}

		outcome, err := agg.AddItem(r.Context(), cartsvc.AddItemInput{
			Product:           *item,
			Restaurant:        *restaurant,
			Quantity:          payload.Quantity,
			SelectedOptionIDs: payload.SelectedOptionIDs,
			SelectedOptions:   selected,
			ReplaceCart:       payload.ReplaceCart,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, addItemResponse{
			Outcome:      outcome.String(),
			cartResponse: newCartResponse(agg.Snapshot(), agg.IsMinimumOrderMet()),
		})
	}
}

// UpdateItemQuantity sets the quantity on a cart line. Zero or negative
// quantities remove the line.
func UpdateItemQuantity(mgr *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}
		if err := agg.UpdateQuantity(r.Context(), productID, payload.Quantity, payload.SelectedOptionIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(agg.Snapshot(), agg.IsMinimumOrderMet()))
	}
}

// UpdateItemSelection replaces the variant selection on a cart line and
// reprices it from the catalog's current option modifiers.
func UpdateItemSelection(mgr *cartsvc.Manager, catalog Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		productID := chi.URLParam(r, "productID")

		var payload updateSelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := catalog.GetVariantGroups(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		selected, err := resolveSelection(groups, payload.SelectedOptionIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !variants.IsComplete(groups, groupSelection(groups, payload.SelectedOptionIDs)) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant selection is incomplete"))
			return
		}

		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}
		if err := agg.UpdateSelection(r.Context(), productID, payload.SelectedOptionIDs, selected); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(agg.Snapshot(), agg.IsMinimumOrderMet()))
	}
}

// RemoveItem deletes a cart line. Repeated option_id query params narrow the
// match to one selection variant of the product.
func RemoveItem(mgr *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		optionIDs := r.URL.Query()["option_id"]

		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}
		if err := agg.RemoveItem(r.Context(), productID, optionIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(agg.Snapshot(), agg.IsMinimumOrderMet()))
	}
}

// ClearCart discards the session's cart.
func ClearCart(mgr *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}
		if err := agg.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(agg.Snapshot(), agg.IsMinimumOrderMet()))
	}
}

func sessionCart(r *http.Request, mgr *cartsvc.Manager, logg *logger.Logger, w http.ResponseWriter) (*cartsvc.Aggregator, error) {
	if mgr == nil {
		err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
		responses.WriteError(r.Context(), logg, w, err)
		return nil, err
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		err := pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
		responses.WriteError(r.Context(), logg, w, err)
		return nil, err
	}
	agg, err := mgr.Get(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, err
	}
	return agg, nil
}

// resolveSelection maps flat option ids onto catalog descriptors. Unknown ids
// are a validation failure so a stale client cannot price against options the
// restaurant no longer offers.
func resolveSelection(groups []variants.Group, optionIDs []string) ([]cartsvc.SelectedOption, error) {
	selected := make([]cartsvc.SelectedOption, 0, len(optionIDs))
	for _, id := range optionIDs {
		option, ok := lookupOption(groups, id)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown variant option").WithDetails(map[string]any{"option_id": id})
		}
		selected = append(selected, cartsvc.SelectedOption{
			ID:            option.ID,
			Name:          option.Name,
			PriceModifier: option.PriceModifier,
		})
	}
	return selected, nil
}

// groupSelection rebuilds the per-group selection map from flat option ids.
func groupSelection(groups []variants.Group, optionIDs []string) variants.Selection {
	sel := variants.Selection{}
	for _, group := range groups {
		for _, option := range group.Options {
			for _, id := range optionIDs {
				if option.ID == id {
					sel[group.ID] = append(sel[group.ID], id)
				}
			}
		}
	}
	return sel
}

func lookupOption(groups []variants.Group, optionID string) (variants.Option, bool) {
	for _, group := range groups {
		for _, option := range group.Options {
			if option.ID == optionID {
				return option, true
			}
		}
	}
	return variants.Option{}, false
}

type addItemRequest struct {
	RestaurantID      string   `json:"restaurant_id" validate:"required"`
	ProductID         string   `json:"product_id" validate:"required"`
	Quantity          int      `json:"quantity" validate:"gte=0"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
	ReplaceCart       bool     `json:"replace_cart"`
}

type updateQuantityRequest struct {
	Quantity          int      `json:"quantity"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

type updateSelectionRequest struct {
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

type addItemResponse struct {
	Outcome string `json:"outcome"`
	cartResponse
}

type cartResponse struct {
	Cart            *cartPayload `json:"cart"`
	ItemCount       int          `json:"item_count"`
	MinimumOrderMet bool         `json:"minimum_order_met"`
}

type cartPayload struct {
	RestaurantID      string            `json:"restaurant_id"`
	RestaurantName    string            `json:"restaurant_name"`
	DeliveryFee       int               `json:"delivery_fee"`
	MinimumOrder      int               `json:"minimum_order"`
	Items             []cartLinePayload `json:"items"`
	Subtotal          int               `json:"subtotal"`
	SubtotalDisplay   string            `json:"subtotal_display"`
	GrandTotal        int               `json:"grand_total"`
	GrandTotalDisplay string            `json:"grand_total_display"`
}

type cartLinePayload struct {
	ProductID         string                  `json:"product_id"`
	ProductName       string                  `json:"product_name"`
	Quantity          int                     `json:"quantity"`
	UnitPrice         int                     `json:"unit_price"`
	UnitPriceDisplay  string                  `json:"unit_price_display"`
	TotalPrice        int                     `json:"total_price"`
	TotalPriceDisplay string                  `json:"total_price_display"`
	SelectedOptions   []selectedOptionPayload `json:"selected_options"`
}

type selectedOptionPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceModifier int    `json:"price_modifier"`
}

func newCartResponse(snap cartsvc.Snapshot, minimumOrderMet bool) cartResponse {
	resp := cartResponse{ItemCount: snap.ItemCount, MinimumOrderMet: minimumOrderMet}
	if snap.Cart == nil {
		return resp
	}

	items := make([]cartLinePayload, 0, len(snap.Cart.Items))
	for _, line := range snap.Cart.Items {
		options := make([]selectedOptionPayload, 0, len(line.SelectedOptions))
		for _, option := range line.SelectedOptions {
			options = append(options, selectedOptionPayload{
				ID:            option.ID,
				Name:          option.Name,
				PriceModifier: option.PriceModifier,
			})
		}
		items = append(items, cartLinePayload{
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			UnitPriceDisplay:  types.FormatMinorUnits(line.UnitPrice),
			TotalPrice:        line.TotalPrice,
			TotalPriceDisplay: types.FormatMinorUnits(line.TotalPrice),
			SelectedOptions:   options,
		})
	}

	resp.Cart = &cartPayload{
		RestaurantID:      snap.Cart.RestaurantID,
		RestaurantName:    snap.Cart.RestaurantName,
		DeliveryFee:       snap.Cart.DeliveryFee,
		MinimumOrder:      snap.Cart.MinimumOrder,
		Items:             items,
		Subtotal:          snap.Cart.Subtotal,
		SubtotalDisplay:   types.FormatMinorUnits(snap.Cart.Subtotal),
		GrandTotal:        snap.Cart.GrandTotal,
		GrandTotalDisplay: types.FormatMinorUnits(snap.Cart.GrandTotal),
	}
	return resp
}
