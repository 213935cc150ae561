// Package billing builds invoices: an open-ended sequence of flat fees and
// priced inventory draws, persisted as one bill at finalize time.
package billing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"clinicdesk/m/domain"
	"clinicdesk/m/internal/inventory"
	"clinicdesk/m/internal/store"
)

// Draft is an invoice under composition. Monetary amounts are exact
// decimals; rounding happens only when a line is rendered or the total is
// persisted.
type Draft struct {
	Token     string
	PatientID int64
	Lines     []domain.BillLine
	Total     decimal.Decimal
}

// Composer orchestrates invoice composition. Drafts live in memory keyed by
// token until finalized or discarded; inventory draws debit the ledger the
// moment they are added, so each debit is durable on its own.
type Composer struct {
	store  *store.Store
	ledger *inventory.Ledger

	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewComposer(st *store.Store, ledger *inventory.Ledger) *Composer {
	return &Composer{store: st, ledger: ledger, drafts: make(map[string]*Draft)}
}

// Begin opens a draft invoice for an existing patient.
func (c *Composer) Begin(ctx context.Context, patientID int64) (*Draft, error) {
	if _, err := c.store.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	draft := &Draft{
		Token:     uuid.NewString(),
		PatientID: patientID,
		Total:     decimal.Zero,
	}
	c.mu.Lock()
	c.drafts[draft.Token] = draft
	c.mu.Unlock()
	return draft, nil
}

func (c *Composer) draft(token string) (*Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft, ok := c.drafts[token]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return draft, nil
}

// AddFlatFee appends a consultation-style fee line and grows the running
// total by exactly the given amount.
func (c *Composer) AddFlatFee(token string, amount decimal.Decimal) (*Draft, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	draft, err := c.draft(token)
	if err != nil {
		return nil, err
	}
	draft.Lines = append(draft.Lines, domain.BillLine{
		Kind:        domain.LineFee,
		Description: "Consultation",
		Quantity:    1,
		UnitPrice:   amount,
		Cost:        amount,
	})
	draft.Total = draft.Total.Add(amount)
	return draft, nil
}

// AddInventoryDraw looks up an item by name, debits the ledger by the
// requested quantity, and appends a line costing unit price times quantity.
// An unknown name or insufficient stock rejects only this line; the draft
// stays open.
func (c *Composer) AddInventoryDraw(ctx context.Context, token, itemName string, quantity int64) (*Draft, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	draft, err := c.draft(token)
	if err != nil {
		return nil, err
	}
	item, err := c.ledger.LookupItem(ctx, itemName)
	if err != nil {
		return nil, err
	}
	if _, err := c.ledger.AdjustStock(ctx, item.ID, -quantity); err != nil {
		return nil, err
	}

	unitPrice := decimal.NewFromFloat(item.PricePerUnit)
	cost := unitPrice.Mul(decimal.NewFromInt(quantity))
	itemID := item.ID
	draft.Lines = append(draft.Lines, domain.BillLine{
		Kind:        domain.LineItem,
		ItemID:      &itemID,
		Description: item.Name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Cost:        cost,
	})
	draft.Total = draft.Total.Add(cost)
	return draft, nil
}

// Finalize persists the draft as one bill with its line items and returns
// the bill id. Empty drafts finalize to a zero-total bill. The draft is
// forgotten on success.
func (c *Composer) Finalize(ctx context.Context, token string) (int64, error) {
	draft, err := c.draft(token)
	if err != nil {
		return 0, err
	}
	billID, err := c.store.CreateBill(ctx, &domain.Bill{
		PatientID:     draft.PatientID,
		TotalAmount:   draft.Total,
		PaymentStatus: domain.PaymentUnpaid,
		Items:         draft.Lines,
	})
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	delete(c.drafts, token)
	c.mu.Unlock()
	return billID, nil
}

// Discard abandons a draft, crediting back every inventory draw it made.
// Stock debits are individually durable, so this is the only way to undo
// them short of finalizing.
func (c *Composer) Discard(ctx context.Context, token string) error {
	draft, err := c.draft(token)
	if err != nil {
		return err
	}
	for i := len(draft.Lines) - 1; i >= 0; i-- {
		line := draft.Lines[i]
		if line.Kind != domain.LineItem || line.ItemID == nil {
			continue
		}
		if _, err := c.ledger.AdjustStock(ctx, *line.ItemID, line.Quantity); err != nil {
			return err
		}
		draft.Lines = append(draft.Lines[:i], draft.Lines[i+1:]...)
		draft.Total = draft.Total.Sub(line.Cost)
	}
	c.mu.Lock()
	delete(c.drafts, token)
	c.mu.Unlock()
	return nil
}
