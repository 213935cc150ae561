package domain

type InventoryItem struct {
	ID           int64   `db:"item_id" json:"id"`
	Name         string  `db:"item_name" json:"name"`
	Category     string  `db:"category" json:"category"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	PricePerUnit float64 `db:"price_per_unit" json:"price_per_unit"`
	ExpiryDate   *string `db:"expiry_date" json:"expiry_date,omitempty"`
	ReorderLevel int64   `db:"reorder_level" json:"reorder_level"`
}

// DefaultReorderLevel is applied when a new item does not specify one.
const DefaultReorderLevel = 10
