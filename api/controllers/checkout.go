package controllers

import (
	"context"
	"net/http"

	"github.com/deliverly/cart-service/api/responses"
	"github.com/deliverly/cart-service/api/validators"
	cartsvc "github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/pkg/enums"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
)

// OrderSubmitter forwards a finished order payload to the orders API.
type OrderSubmitter interface {
	Submit(ctx context.Context, payload *cartsvc.OrderPayload) (string, error)
}

// Checkout projects the session's cart into an order payload, submits it, and
// clears the cart once the orders API accepts it.
func Checkout(mgr *cartsvc.Manager, submitter OrderSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if submitter == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agg, err := sessionCart(r, mgr, logg, w)
		if err != nil {
			return
		}
		if !agg.IsMinimumOrderMet() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "minimum order not met"))
			return
		}

		order, err := agg.BuildOrderPayload(input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := submitter.Submit(r.Context(), order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := agg.Clear(r.Context()); err != nil {
			logg.Warn(r.Context(), "cart clear after checkout failed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID: orderID,
			Status:  "submitted",
		})
	}
}

type checkoutRequest struct {
	DeliveryAddress      string `json:"delivery_address" validate:"required"`
	DeliveryInstructions string `json:"delivery_instructions"`
	PaymentMethod        string `json:"payment_method"`
	CustomerName         string `json:"customer_name"`
	CustomerPhone        string `json:"customer_phone"`
	Notes                string `json:"notes"`
}

func (r checkoutRequest) toInput() (cartsvc.CheckoutInput, error) {
	input := cartsvc.CheckoutInput{
		DeliveryAddress:      r.DeliveryAddress,
		DeliveryInstructions: r.DeliveryInstructions,
		CustomerName:         r.CustomerName,
		CustomerPhone:        r.CustomerPhone,
		Notes:                r.Notes,
	}
	if r.PaymentMethod != "" {
		method, err := enums.ParsePaymentMethod(r.PaymentMethod)
		if err != nil {
			return cartsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = method
	}
	return input, nil
}

type checkoutResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
