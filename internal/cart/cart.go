package cart

// SelectedOption is the denormalized descriptor of a chosen variant option,
// captured at add time for display and order submission.
type SelectedOption struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceModifier int    `json:"price_modifier"`
}

// LineItem is one row in a cart: a product plus a frozen variant selection
// and quantity. UnitPrice is computed when the line is created or its
// selection is explicitly edited, never on merges.
type LineItem struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	BasePrice         int              `json:"base_price"`
	Quantity          int              `json:"quantity"`
	UnitPrice         int              `json:"unit_price"`
	TotalPrice        int              `json:"total_price"`
	SelectedOptionIDs []string         `json:"selected_option_ids"`
	SelectedOptions   []SelectedOption `json:"selected_options"`
}

// Cart holds the in-progress order for a single restaurant. Subtotal and
// GrandTotal are derived; every mutation runs a recompute pass before the
// cart is persisted or published.
type Cart struct {
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name"`
	DeliveryFee    int        `json:"delivery_fee"`
	MinimumOrder   int        `json:"minimum_order"`
	Items          []LineItem `json:"items"`
	Subtotal       int        `json:"subtotal"`
	GrandTotal     int        `json:"grand_total"`
}

func (c *Cart) recompute() {
	subtotal := 0
	for _, item := range c.Items {
		subtotal += item.TotalPrice
	}
	c.Subtotal = subtotal
	c.GrandTotal = subtotal + c.DeliveryFee
}

func (c *Cart) itemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]LineItem, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item.clone()
	}
	return &out
}

func (l LineItem) clone() LineItem {
	out := l
	out.SelectedOptionIDs = append([]string(nil), l.SelectedOptionIDs...)
	out.SelectedOptions = append([]SelectedOption(nil), l.SelectedOptions...)
	return out
}

// Snapshot is the immutable read model pushed to subscribers after every
// mutation. Cart is nil while no cart exists.
type Snapshot struct {
	Cart      *Cart `json:"cart"`
	ItemCount int   `json:"item_count"`
}

// sameSelection compares two option-id sets order-insensitively.
func sameSelection(a, b []string) bool {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
