// Package cart manages persisted cart line items over a pluggable snapshot
// store. Every mutation is load-modify-save against the store, and every
// read goes back to the store, so the latest persisted state always wins.
package cart

import (
	"context"
	"fmt"
)

type Conf struct {
	store Store
}

func NewConf(store Store) (Conf, error) {
	if store == nil {
		return Conf{}, fmt.Errorf("store is nil")
	}
	return Conf{store: store}, nil
}

// AddedProduct carries the catalog fields a new cart line snapshots.
type AddedProduct struct {
	ID    string
	Title string
	Price float64
	Slug  string
}

// Items returns the cart lines in insertion order.
func (c *Conf) Items(ctx context.Context, cartID string) ([]Line, error) {
	lines, err := c.store.LoadCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Add inserts the product at quantity 1, or increments the quantity when a
// line for the product already exists. Insertion order is preserved.
func (c *Conf) Add(ctx context.Context, cartID string, p AddedProduct) error {
	if p.ID == "" {
		return fmt.Errorf("product id is empty")
	}
	lines, err := c.store.LoadCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == p.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Slug:      p.Slug,
			Quantity:  1,
		})
	}

	if err := c.store.SaveCart(ctx, cartID, lines); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Remove deletes the line for the given product id. Removing an absent id
// is a no-op.
func (c *Conf) Remove(ctx context.Context, cartID string, productID string) error {
	lines, err := c.store.LoadCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	for i := range lines {
		if lines[i].ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			if err := c.store.SaveCart(ctx, cartID, lines); err != nil {
				return fmt.Errorf("failed to save cart: %w", err)
			}
			return nil
		}
	}
	return nil
}

// SetQuantity replaces the stored quantity for the given product id,
// clamped to a minimum of 1. Setting the quantity of an absent id is a
// no-op.
func (c *Conf) SetQuantity(ctx context.Context, cartID string, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	lines, err := c.store.LoadCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = qty
			if err := c.store.SaveCart(ctx, cartID, lines); err != nil {
				return fmt.Errorf("failed to save cart: %w", err)
			}
			return nil
		}
	}
	return nil
}

// Clear empties the cart. Used after successful order placement.
func (c *Conf) Clear(ctx context.Context, cartID string) error {
	if err := c.store.SaveCart(ctx, cartID, []Line{}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Subtotal is the sum of price times quantity over all lines; 0 for an
// empty cart. Discounts are applied at checkout, never per line.
func (c *Conf) Subtotal(ctx context.Context, cartID string) (float64, error) {
	lines, err := c.store.LoadCart(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	return subtotal, nil
}

// Discount returns the currently applied discount amount, 0 if none.
func (c *Conf) Discount(ctx context.Context, cartID string) (float64, error) {
	amount, err := c.store.LoadDiscount(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to load discount: %w", err)
	}
	return amount, nil
}

// ApplyDiscount stores a discount amount to be taken off at checkout.
func (c *Conf) ApplyDiscount(ctx context.Context, cartID string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("discount cannot be negative")
	}
	if err := c.store.SaveDiscount(ctx, cartID, amount); err != nil {
		return fmt.Errorf("failed to save discount: %w", err)
	}
	return nil
}

// ClearDiscount removes any applied discount.
func (c *Conf) ClearDiscount(ctx context.Context, cartID string) error {
	if err := c.store.ClearDiscount(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear discount: %w", err)
	}
	return nil
}

// Totals assembles the full cart view: lines, subtotal, discount and total.
func (c *Conf) Totals(ctx context.Context, cartID string) (CartResponse, error) {
	lines, err := c.Items(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	discount, err := c.Discount(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{
		Items:    lines,
		SubTotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}, nil
}
