package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// ListProducts fetches GET /products, narrowed by filter.
func (c *Client) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := url.Values{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query.Set("search", s)
	}
	if s := strings.TrimSpace(filter.Category); s != "" {
		query.Set("category", s)
	}

	body, err := c.get(ctx, "/products", query)
	if err != nil {
		return nil, err
	}

	products, err := decodeProducts(body)
	if err != nil {
		return nil, fmt.Errorf("%w: products: %v", ErrInvalidResponse, err)
	}
	return products, nil
}

// GetProduct fetches GET /products/:id.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty product id", ErrInvalidArgument)
	}

	body, err := c.get(ctx, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	product, err := decodeProduct(body)
	if err != nil {
		return nil, fmt.Errorf("%w: product: %v", ErrInvalidResponse, err)
	}
	return product, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.ok() {
		return nil, mapStatus(resp.status, errorMessage(resp.body))
	}
	return resp.body, nil
}

// decodeProducts accepts a bare array or an object wrapping it under
// "products" or "data".
func decodeProducts(body []byte) ([]models.Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []models.Product
		err := json.Unmarshal(body, &list)
		return list, err
	}

	var wrapped struct {
		Products []models.Product `json:"products"`
		Data     []models.Product `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Products != nil {
		return wrapped.Products, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	return []models.Product{}, nil
}

// decodeProduct accepts a bare object or one wrapped under "product" or "data".
func decodeProduct(body []byte) (*models.Product, error) {
	var wrapped struct {
		Product *models.Product `json:"product"`
		Data    *models.Product `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Product != nil {
		return wrapped.Product, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var p models.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	if p.ID == "" && p.Name == "" {
		return nil, fmt.Errorf("no product in response")
	}
	return &p, nil
}
