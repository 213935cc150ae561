package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"clinicdesk/m/domain"
)

const patientColumns = `patient_id, full_name, age, gender, contact_number, address, blood_group, medical_history, registration_date`

// CreatePatient validates and inserts a patient record, returning the
// assigned id.
func (s *Store) CreatePatient(ctx context.Context, p *domain.Patient) (int64, error) {
	if strings.TrimSpace(p.FullName) == "" {
		return 0, &domain.ValidationError{Field: "full_name", Reason: "name is required"}
	}
	if p.Age <= 0 {
		return 0, &domain.ValidationError{Field: "age", Reason: "must be a positive integer"}
	}
	if !domain.ValidGender(p.Gender) {
		return 0, &domain.ValidationError{Field: "gender", Reason: "must be one of M, F, O"}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO patients (full_name, age, gender, contact_number, address, blood_group, medical_history)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Age, p.Gender, p.ContactNumber, p.Address, p.BloodGroup, p.MedicalHistory)
	if err != nil {
		return 0, wrapIntegrity("create patient", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	var p domain.Patient
	err := s.db.GetContext(ctx, &p, `SELECT `+patientColumns+` FROM patients WHERE patient_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var patients []domain.Patient
	err := s.db.SelectContext(ctx, &patients, `SELECT `+patientColumns+` FROM patients`)
	return patients, err
}

// FindPatientsByName returns patients whose full name contains the given
// substring.
func (s *Store) FindPatientsByName(ctx context.Context, substr string) ([]domain.Patient, error) {
	var patients []domain.Patient
	err := s.db.SelectContext(ctx, &patients,
		`SELECT `+patientColumns+` FROM patients WHERE full_name LIKE ?`, "%"+substr+"%")
	return patients, err
}

// DeletePatient removes a patient; their appointments go with them via the
// schema's cascade.
func (s *Store) DeletePatient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE patient_id = ?`, id)
	if err != nil {
		return wrapIntegrity("delete patient", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
