package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/pkg/config"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
)

func testPayload() *cart.OrderPayload {
	return &cart.OrderPayload{
		RestaurantID:    "r-1",
		DeliveryAddress: "1 Main St",
		Items: []cart.OrderPayloadItem{
			{MenuItemID: "m-1", Quantity: 2, UnitPrice: 1350, SelectedVariantOptionIDs: []string{"large"}},
		},
	}
}

func newTestService(t *testing.T, handler http.Handler) Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewService(config.OrdersAPIConfig{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestSubmitPostsPayload(t *testing.T) {
	t.Parallel()

	var received cart.OrderPayload
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order-77"}`))
	}))

	orderID, err := svc.Submit(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderID != "order-77" {
		t.Fatalf("unexpected order id: %s", orderID)
	}
	if received.RestaurantID != "r-1" || len(received.Items) != 1 || received.Items[0].UnitPrice != 1350 {
		t.Fatalf("payload not forwarded intact: %+v", received)
	}
}

func TestSubmitRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	svc, err := NewService(config.OrdersAPIConfig{BaseURL: "http://localhost:0"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Submit(context.Background(), nil); pkgerrors.As(err) == nil {
		t.Fatal("nil payload must be rejected")
	}
	if _, err := svc.Submit(context.Background(), &cart.OrderPayload{}); pkgerrors.As(err) == nil {
		t.Fatal("empty payload must be rejected")
	}
}

func TestSubmitMapsUpstreamErrors(t *testing.T) {
	t.Parallel()

	badRequest := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	_, err := badRequest.Submit(context.Background(), testPayload())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	unavailable := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err = unavailable.Submit(context.Background(), testPayload())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSubmitRequiresOrderID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	if _, err := svc.Submit(context.Background(), testPayload()); err == nil {
		t.Fatal("missing order id must be an error")
	}
}
