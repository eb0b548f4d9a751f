package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateSelectionComplete(t *testing.T) {
	handler := ValidateSelection(testCatalog(), nil)

	body, _ := json.Marshal(validateSelectionRequest{
		MenuItemID: "item-pizza",
		Selection:  map[string][]string{"grp-size": {"opt-large"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/selection/validate", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data validateSelectionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsComplete {
		t.Fatal("expected complete selection")
	}
	if envelope.Data.PriceDelta != 300 || envelope.Data.PriceDeltaDisplay != "3.00" {
		t.Fatalf("unexpected delta: %+v", envelope.Data)
	}
}

func TestValidateSelectionIncomplete(t *testing.T) {
	handler := ValidateSelection(testCatalog(), nil)

	body, _ := json.Marshal(validateSelectionRequest{MenuItemID: "item-pizza"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/selection/validate", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data validateSelectionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.IsComplete {
		t.Fatal("required group with no choice must be incomplete")
	}
	if envelope.Data.PriceDelta != 0 {
		t.Fatalf("expected zero delta, got %d", envelope.Data.PriceDelta)
	}
}

func TestValidateSelectionMissingItemID(t *testing.T) {
	handler := ValidateSelection(testCatalog(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/selection/validate", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
