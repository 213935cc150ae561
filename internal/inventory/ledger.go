// Package inventory is the single source of truth for available stock.
package inventory

import (
	"context"

	"clinicdesk/m/domain"
	"clinicdesk/m/internal/store"
)

// Ledger adjusts item quantities while enforcing that stock never goes
// negative. Every successful adjustment is durable immediately; there is no
// in-memory staging.
type Ledger struct {
	store *store.Store
}

func NewLedger(st *store.Store) *Ledger {
	return &Ledger{store: st}
}

// AddItem registers a new inventory item and returns its id. The name is a
// case-sensitive uniqueness key.
func (l *Ledger) AddItem(ctx context.Context, item *domain.InventoryItem) (int64, error) {
	if item.Name == "" {
		return 0, &domain.ValidationError{Field: "item_name", Reason: "name is required"}
	}
	if item.Quantity < 0 {
		return 0, &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if item.PricePerUnit <= 0 {
		return 0, &domain.ValidationError{Field: "price_per_unit", Reason: "must be greater than zero"}
	}
	if item.ReorderLevel < 0 {
		return 0, &domain.ValidationError{Field: "reorder_level", Reason: "must not be negative"}
	}
	return l.store.CreateItem(ctx, item)
}

// AdjustStock applies a signed delta to an item's quantity and returns the
// new quantity. A delta that would take the quantity below zero is rejected
// with InsufficientStockError and the stored quantity is left unchanged.
func (l *Ledger) AdjustStock(ctx context.Context, itemID int64, delta int64) (int64, error) {
	item, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	newQty := item.Quantity + delta
	if newQty < 0 {
		return 0, &domain.InsufficientStockError{Item: item.Name, Requested: -delta, Available: item.Quantity}
	}
	if err := l.store.SetItemQuantity(ctx, itemID, newQty); err != nil {
		return 0, err
	}
	return newQty, nil
}

// LookupItem finds an item by its exact name.
func (l *Ledger) LookupItem(ctx context.Context, name string) (*domain.InventoryItem, error) {
	return l.store.GetItemByName(ctx, name)
}

// ListLowStock reports items at or below their reorder level. Advisory only;
// low stock never blocks a sale.
func (l *Ledger) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	return l.store.ListLowStock(ctx)
}
