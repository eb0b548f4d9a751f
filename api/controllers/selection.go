package controllers

import (
	"net/http"

	"github.com/deliverly/cart-service/api/responses"
	"github.com/deliverly/cart-service/api/validators"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
	"github.com/deliverly/cart-service/pkg/types"
	"github.com/deliverly/cart-service/pkg/variants"
)

// ValidateSelection checks a variant selection for a menu item against the
// catalog's group rules and prices the option modifiers.
func ValidateSelection(catalog Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var payload validateSelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := catalog.GetVariantGroups(r.Context(), payload.MenuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sel := variants.Selection(payload.Selection)
		delta := variants.PriceDelta(groups, sel)
		responses.WriteSuccess(w, validateSelectionResponse{
			IsComplete:        variants.IsComplete(groups, sel),
			PriceDelta:        delta,
			PriceDeltaDisplay: types.FormatMinorUnits(delta),
		})
	}
}

type validateSelectionRequest struct {
	MenuItemID string              `json:"menu_item_id" validate:"required"`
	Selection  map[string][]string `json:"selection"`
}

type validateSelectionResponse struct {
	IsComplete        bool   `json:"is_complete"`
	PriceDelta        int    `json:"price_delta"`
	PriceDeltaDisplay string `json:"price_delta_display"`
}
