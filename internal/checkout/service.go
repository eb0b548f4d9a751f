package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/pkg/config"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/logger"
)

const responseBodyReadLimit int64 = 1 << 20

// Service submits finalized order payloads to the remote orders API.
type Service interface {
	Submit(ctx context.Context, payload *cart.OrderPayload) (string, error)
}

type service struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
}

// Option configures optional service behavior.
type Option func(*service)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *service) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewService builds the order submitter from configuration.
func NewService(cfg config.OrdersAPIConfig, logg *logger.Logger, opts ...Option) (Service, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("orders api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	svc := &service{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		logg:       logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	return svc, nil
}

type submitResponse struct {
	ID string `json:"id"`
}

// Submit posts the payload and returns the created order id. The caller
// decides whether to clear the cart afterwards; submission itself never
// touches cart state.
func (s *service) Submit(ctx context.Context, payload *cart.OrderPayload) (string, error) {
	if payload == nil || len(payload.Items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order payload is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call orders api")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "orders api rejected the payload")
	case resp.StatusCode >= 400:
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("orders api returned status %d", resp.StatusCode))
	}

	var decoded submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode orders response")
	}
	if decoded.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "orders api returned no order id")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", decoded.ID), "order submitted")
	}
	return decoded.ID, nil
}
