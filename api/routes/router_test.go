package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/internal/menu"
	"github.com/deliverly/cart-service/pkg/config"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
	"github.com/deliverly/cart-service/pkg/variants"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubCatalog struct{}

func (stubCatalog) GetRestaurant(_ context.Context, id string) (*menu.Restaurant, error) {
	if id != "rest-1" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}
	return &menu.Restaurant{ID: "rest-1", Name: "Trattoria Bella", DeliveryFee: 250, MinimumOrder: 2000}, nil
}

func (stubCatalog) GetItem(_ context.Context, id string) (*menu.Item, error) {
	if id != "item-pizza" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return &menu.Item{ID: "item-pizza", RestaurantID: "rest-1", Name: "Margherita", BasePrice: 1200, Available: true}, nil
}

func (stubCatalog) GetVariantGroups(context.Context, string) ([]variants.Group, error) {
	return []variants.Group{
		{
			ID: "grp-size", Name: "Size", Required: true, MinSelections: 1, MaxSelections: 1,
			Options: []variants.Option{
				{ID: "opt-small", Name: "Small", Available: true},
				{ID: "opt-large", Name: "Large", PriceModifier: 300, Available: true},
			},
		},
	}, nil
}

type stubSubmitter struct{}

func (stubSubmitter) Submit(context.Context, *cart.OrderPayload) (string, error) {
	return "ord-1", nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	mgr, err := cart.NewManager(cart.NewMemoryStore(), logg, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return NewRouter(testConfig(), logg, mgr, stubCatalog{}, stubSubmitter{}, stubPinger{})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s got %d", path, resp.Code)
		}
		if env := resp.Header().Get("X-Deliverly-Env"); env != "test" {
			t.Fatalf("missing env header on %s: %q", path, env)
		}
	}
}

func TestHealthReadyFailsWhenDependencyDown(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	mgr, err := cart.NewManager(cart.NewMemoryStore(), logg, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	router := NewRouter(testConfig(), logg, mgr, stubCatalog{}, stubSubmitter{}, stubPinger{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatal("expected readiness failure when a dependency cannot be pinged")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics got %d", resp.Code)
	}
}

func TestCartRoutesMintSessionWhenHeaderAbsent(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a minted session id to be echoed back")
	}
}

func TestCartFlowThroughRouter(t *testing.T) {
	router := newTestRouter(t)
	const sessionID = "7e9c23a3-43b6-4b8f-9f8e-1a2b3c4d5e6f"

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("X-Session-Id", sessionID)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	add := do(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"restaurant_id":       "rest-1",
		"product_id":          "item-pizza",
		"quantity":            2,
		"selected_option_ids": []string{"opt-large"},
	})
	if add.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201 got %d: %s", add.Code, add.Body.String())
	}

	get := do(http.MethodGet, "/api/v1/cart", nil)
	if get.Code != http.StatusOK {
		t.Fatalf("get cart: expected 200 got %d", get.Code)
	}
	var envelope struct {
		Data struct {
			ItemCount int `json:"item_count"`
			Cart      *struct {
				Subtotal int `json:"subtotal"`
			} `json:"cart"`
		} `json:"data"`
	}
	if err := json.NewDecoder(get.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if envelope.Data.ItemCount != 2 || envelope.Data.Cart == nil || envelope.Data.Cart.Subtotal != 3000 {
		t.Fatalf("unexpected cart state: %+v", envelope.Data)
	}

	checkout := do(http.MethodPost, "/api/v1/cart/checkout", map[string]any{
		"delivery_address": "12 Via Roma",
		"payment_method":   "cash",
	})
	if checkout.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d: %s", checkout.Code, checkout.Body.String())
	}

	after := do(http.MethodGet, "/api/v1/cart", nil)
	var cleared struct {
		Data struct {
			ItemCount int `json:"item_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(after.Body).Decode(&cleared); err != nil {
		t.Fatalf("decode cleared cart: %v", err)
	}
	if cleared.Data.ItemCount != 0 {
		t.Fatal("cart should be empty after checkout")
	}
}

func TestValidateSelectionRoute(t *testing.T) {
	router := newTestRouter(t)

	raw, _ := json.Marshal(map[string]any{
		"menu_item_id": "item-pizza",
		"selection":    map[string][]string{"grp-size": {"opt-large"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/selection/validate", bytes.NewReader(raw))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			IsComplete bool `json:"is_complete"`
			PriceDelta int  `json:"price_delta"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsComplete || envelope.Data.PriceDelta != 300 {
		t.Fatalf("unexpected validation result: %+v", envelope.Data)
	}
}
