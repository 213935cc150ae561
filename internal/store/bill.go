package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"clinicdesk/m/domain"
)

// CreateBill persists a bill and its line items in one transaction and
// returns the assigned bill id. The caller has already verified the patient
// and computed the total.
func (s *Store) CreateBill(ctx context.Context, b *domain.Bill) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bills (patient_id, total_amount, payment_status) VALUES (?, ?, ?)`,
		b.PatientID, b.TotalAmount, b.PaymentStatus)
	if err != nil {
		return 0, wrapIntegrity("create bill", err)
	}
	billID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, line := range b.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bill_items (bill_id, kind, item_id, description, quantity, unit_price, cost)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			billID, line.Kind, line.ItemID, line.Description, line.Quantity, line.UnitPrice, line.Cost); err != nil {
			return 0, wrapIntegrity("create bill items", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return billID, nil
}

func (s *Store) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	var b domain.Bill
	err := s.db.GetContext(ctx, &b,
		`SELECT bill_id, patient_id, total_amount, payment_status, generated_at FROM bills WHERE bill_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &b.Items,
		`SELECT line_id, bill_id, kind, item_id, description, quantity, unit_price, cost
		 FROM bill_items WHERE bill_id = ? ORDER BY line_id`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBillsByPatient returns a patient's bills with their line items
// attached.
func (s *Store) ListBillsByPatient(ctx context.Context, patientID int64) ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := s.db.SelectContext(ctx, &bills,
		`SELECT bill_id, patient_id, total_amount, payment_status, generated_at
		 FROM bills WHERE patient_id = ? ORDER BY bill_id`, patientID); err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return bills, nil
	}

	ids := make([]int64, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	query, args, err := sqlx.In(
		`SELECT line_id, bill_id, kind, item_id, description, quantity, unit_price, cost
		 FROM bill_items WHERE bill_id IN (?) ORDER BY line_id`, ids)
	if err != nil {
		return nil, err
	}
	var lines []domain.BillLine
	if err := s.db.SelectContext(ctx, &lines, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byBill := make(map[int64][]domain.BillLine)
	for _, line := range lines {
		byBill[line.BillID] = append(byBill[line.BillID], line)
	}
	for i := range bills {
		bills[i].Items = byBill[bills[i].ID]
	}
	return bills, nil
}
