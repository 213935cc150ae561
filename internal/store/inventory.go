package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"clinicdesk/m/domain"
)

const itemColumns = `item_id, item_name, category, quantity, price_per_unit, expiry_date, reorder_level`

// CreateItem inserts an inventory row. Item names are a case-sensitive
// uniqueness key.
func (s *Store) CreateItem(ctx context.Context, item *domain.InventoryItem) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory (item_name, category, quantity, price_per_unit, expiry_date, reorder_level)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.Category, item.Quantity, item.PricePerUnit, item.ExpiryDate, item.ReorderLevel)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, domain.ErrDuplicateItem
		}
		return 0, wrapIntegrity("create item", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.GetContext(ctx, &item, `SELECT `+itemColumns+` FROM inventory WHERE item_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItemByName(ctx context.Context, name string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.GetContext(ctx, &item, `SELECT `+itemColumns+` FROM inventory WHERE item_name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetItemQuantity writes an absolute quantity for an item. Callers are
// expected to have computed the value from current stock; the ledger owns
// that arithmetic.
func (s *Store) SetItemQuantity(ctx context.Context, id int64, quantity int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE inventory SET quantity = ? WHERE item_id = ?`, quantity, id)
	if err != nil {
		return wrapIntegrity("update stock", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// ListLowStock returns items at or below their reorder level, in store
// insertion order.
func (s *Store) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM inventory WHERE quantity <= reorder_level`)
	return items, err
}
