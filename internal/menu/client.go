package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deliverly/cart-service/pkg/config"
	pkgerrors "github.com/deliverly/cart-service/pkg/errors"
	"github.com/deliverly/cart-service/pkg/variants"
)

const responseBodyReadLimit int64 = 1 << 20

// Client wraps the remote restaurant/menu catalog API. The cart service only
// reads from it; all catalog writes happen elsewhere.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the catalog client from configuration.
func NewClient(cfg config.MenuAPIConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("menu api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// GetRestaurant fetches a restaurant record by id.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	var out Restaurant
	if err := c.getJSON(ctx, "/restaurants/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetItem fetches a single menu item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id is required")
	}
	var out Item
	if err := c.getJSON(ctx, "/menu-items/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems fetches the orderable menu items for a restaurant.
func (c *Client) ListItems(ctx context.Context, restaurantID string) ([]Item, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	var out []Item
	if err := c.getJSON(ctx, "/restaurants/"+url.PathEscape(restaurantID)+"/menu-items", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVariantGroups fetches the variant-group definitions for a menu item.
func (c *Client) GetVariantGroups(ctx context.Context, itemID string) ([]variants.Group, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id is required")
	}
	var out []variants.Group
	if err := c.getJSON(ctx, "/menu-items/"+url.PathEscape(itemID)+"/variant-groups", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call catalog api")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	case resp.StatusCode >= 400:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog api returned status %d", resp.StatusCode))
	}

	body := io.LimitReader(resp.Body, responseBodyReadLimit)
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}
