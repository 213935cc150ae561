package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"clinicdesk/m/domain"
)

const staffColumns = `staff_id, full_name, role, specialization, shift_timing, contact_number, is_active`

// CreateStaff validates and inserts a staff record. Specialization is only
// meaningful for doctors and is dropped for other roles.
func (s *Store) CreateStaff(ctx context.Context, m *domain.Staff) (int64, error) {
	if strings.TrimSpace(m.FullName) == "" {
		return 0, &domain.ValidationError{Field: "full_name", Reason: "name is required"}
	}
	if !domain.ValidRole(m.Role) {
		return 0, &domain.ValidationError{Field: "role", Reason: "must be one of Doctor, Nurse, Admin, Pharmacist"}
	}
	spec := m.Specialization
	if m.Role != domain.RoleDoctor {
		spec = nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO staff (full_name, role, specialization, shift_timing, contact_number)
		 VALUES (?, ?, ?, ?, ?)`,
		m.FullName, m.Role, spec, m.ShiftTiming, m.ContactNumber)
	if err != nil {
		return 0, wrapIntegrity("create staff", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	var m domain.Staff
	err := s.db.GetContext(ctx, &m, `SELECT `+staffColumns+` FROM staff WHERE staff_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListStaff returns staff records, optionally filtered by role.
func (s *Store) ListStaff(ctx context.Context, roleFilter string) ([]domain.Staff, error) {
	var staff []domain.Staff
	if roleFilter == "" {
		err := s.db.SelectContext(ctx, &staff, `SELECT `+staffColumns+` FROM staff`)
		return staff, err
	}
	err := s.db.SelectContext(ctx, &staff, `SELECT `+staffColumns+` FROM staff WHERE role = ?`, roleFilter)
	return staff, err
}
