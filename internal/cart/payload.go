package cart

import (
	"strings"

	"github.com/deliverly/cart-service/pkg/enums"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
)

// CheckoutInput carries the delivery metadata attached to an order payload.
type CheckoutInput struct {
	DeliveryAddress      string
	DeliveryInstructions string
	PaymentMethod        enums.PaymentMethod
	CustomerName         string
	CustomerPhone        string
	Notes                string
}

// OrderPayload is the cart's sole externally-visible export format: the shape
// submitted to the remote orders API.
type OrderPayload struct {
	RestaurantID         string             `json:"restaurant_id"`
	DeliveryAddress      string             `json:"delivery_address"`
	DeliveryInstructions string             `json:"delivery_instructions,omitempty"`
	PaymentMethod        string             `json:"payment_method,omitempty"`
	Items                []OrderPayloadItem `json:"items"`
	CustomerInfo         *CustomerInfo      `json:"customer_info,omitempty"`
	Notes                string             `json:"notes,omitempty"`
}

// OrderPayloadItem is one flattened cart line in the submission shape.
type OrderPayloadItem struct {
	MenuItemID               string   `json:"menu_item_id"`
	Quantity                 int      `json:"quantity"`
	UnitPrice                int      `json:"unit_price"`
	SelectedVariantOptionIDs []string `json:"selected_variant_option_ids"`
}

// CustomerInfo is the optional customer block on the submission shape.
type CustomerInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BuildOrderPayload projects the cart into the order-submission shape. It is
// a pure projection; the cart is not mutated. Submitting an empty order is
// never valid, so an absent or empty cart fails loudly.
func (a *Aggregator) BuildOrderPayload(input CheckoutInput) (*OrderPayload, error) {
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart == nil || len(a.cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	payload := &OrderPayload{
		RestaurantID:         a.cart.RestaurantID,
		DeliveryAddress:      input.DeliveryAddress,
		DeliveryInstructions: input.DeliveryInstructions,
		PaymentMethod:        input.PaymentMethod.String(),
		Items:                make([]OrderPayloadItem, 0, len(a.cart.Items)),
		Notes:                input.Notes,
	}
	if input.CustomerName != "" || input.CustomerPhone != "" {
		payload.CustomerInfo = &CustomerInfo{Name: input.CustomerName, Phone: input.CustomerPhone}
	}

	for _, item := range a.cart.Items {
		payload.Items = append(payload.Items, OrderPayloadItem{
			MenuItemID:               item.ProductID,
			Quantity:                 item.Quantity,
			UnitPrice:                item.UnitPrice,
			SelectedVariantOptionIDs: append([]string(nil), item.SelectedOptionIDs...),
		})
	}

	return payload, nil
}
