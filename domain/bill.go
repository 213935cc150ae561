package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "Pending"
	PaymentUnpaid  = "Unpaid"
	PaymentPaid    = "Paid"
)

// Line item kinds.
const (
	LineFee  = "fee"
	LineItem = "item"
)

type Bill struct {
	ID            int64           `db:"bill_id" json:"id"`
	PatientID     int64           `db:"patient_id" json:"patient_id"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	GeneratedAt   string          `db:"generated_at" json:"generated_at"`
	Items         []BillLine      `db:"-" json:"items"`
}

// BillLine is one billable unit on an invoice: a flat fee or a priced
// inventory draw.
type BillLine struct {
	ID          int64           `db:"line_id" json:"id"`
	BillID      int64           `db:"bill_id" json:"bill_id"`
	Kind        string          `db:"kind" json:"kind"`
	ItemID      *int64          `db:"item_id" json:"item_id,omitempty"`
	Description string          `db:"description" json:"description"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Cost        decimal.Decimal `db:"cost" json:"cost"`
}

// Render formats a line the way invoices print it.
func (l BillLine) Render() string {
	if l.Kind == LineFee {
		return fmt.Sprintf("%s: $%s", l.Description, l.Cost.StringFixed(2))
	}
	return fmt.Sprintf("%s x%d: $%s", l.Description, l.Quantity, l.Cost.StringFixed(2))
}

// Summary joins the rendered lines into the display string stored nowhere:
// the structured items are the source of truth.
func (b Bill) Summary() string {
	parts := make([]string, len(b.Items))
	for i, l := range b.Items {
		parts[i] = l.Render()
	}
	return strings.Join(parts, "; ")
}
