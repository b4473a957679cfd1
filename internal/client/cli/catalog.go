package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/api"
	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Products lists the catalogue, optionally narrowed by a search phrase.
func (a *App) Products(ctx context.Context, search string) error {
	return a.listProducts(ctx, models.ProductFilter{Search: search})
}

// Category lists the products of one category.
func (a *App) Category(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		printlnFn("Usage: category <name>")
		return nil
	}
	return a.listProducts(ctx, models.ProductFilter{Category: name})
}

func (a *App) listProducts(ctx context.Context, filter models.ProductFilter) error {
	products, err := a.backend.ListProducts(ctx, filter)
	if err != nil {
		return a.catalogError(err)
	}
	if len(products) == 0 {
		printlnFn("No products found.")
		return nil
	}
	for _, p := range products {
		printlnFn(fmt.Sprintf("%-10s %-30s %10s  %s", p.ID, p.Name, formatPrice(p), p.Category))
	}
	return nil
}

// Product prints one product in detail.
func (a *App) Product(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		printlnFn("Usage: product <id>")
		return nil
	}

	p, err := a.backend.GetProduct(ctx, id)
	if err != nil {
		return a.catalogError(err)
	}

	printlnFn(p.Name)
	printlnFn("  ID:      ", p.ID)
	printlnFn("  Price:   ", formatPrice(*p))
	if p.Category != "" {
		printlnFn("  Category:", p.Category)
	}
	if p.Stock > 0 {
		printlnFn("  In stock:", p.Stock)
	}
	if p.Description != "" {
		printlnFn("  " + p.Description)
	}
	return nil
}

// Ask forwards a question to the shopping assistant.
func (a *App) Ask(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		printlnFn("Usage: ask <question>")
		return nil
	}

	answer, err := a.backend.Ask(ctx, prompt)
	if err != nil {
		return a.catalogError(err)
	}
	printlnFn(answer)
	return nil
}

// catalogError turns API sentinels into something a user can act on.
func (a *App) catalogError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		printlnFn("Please sign in first.")
		return nil
	case errors.Is(err, api.ErrNotFound):
		printlnFn("Not found.")
		return nil
	case errors.Is(err, api.ErrUnavailable):
		return fmt.Errorf("the store is unavailable right now: %w", err)
	default:
		return err
	}
}

func formatPrice(p models.Product) string {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", p.Price, currency)
}
