package menu

// Restaurant is the catalog record a cart binds to. Delivery fee and minimum
// order are copied into the cart at creation time.
type Restaurant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DeliveryFee  int    `json:"delivery_fee"`
	MinimumOrder int    `json:"minimum_order"`
}

// Item is an orderable product as served by the remote menu API. Prices are
// integer minor currency units.
type Item struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	BasePrice    int    `json:"base_price"`
	Available    bool   `json:"is_available"`
	ImageURL     string `json:"image_url,omitempty"`
}
