package store

import (
	"context"
	"database/sql"
	"errors"

	"clinicdesk/m/domain"
)

// CreateAppointment inserts an appointment row. Referential checks against
// patients and staff belong to the scheduler; the schema's foreign keys are
// the backstop.
func (s *Store) CreateAppointment(ctx context.Context, a *domain.Appointment) (int64, error) {
	status := a.Status
	if status == "" {
		status = domain.AppointmentScheduled
	}
	if !domain.ValidAppointmentStatus(status) {
		return 0, &domain.ValidationError{Field: "status", Reason: "must be one of Scheduled, Completed, Cancelled"}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (patient_id, doctor_id, scheduled_time, status, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		a.PatientID, a.DoctorID, a.ScheduledTime, status, a.Notes)
	if err != nil {
		return 0, wrapIntegrity("create appointment", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	err := s.db.GetContext(ctx, &a,
		`SELECT appointment_id, patient_id, doctor_id, scheduled_time, status, notes
		 FROM appointments WHERE appointment_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAppointmentsByPatient(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := s.db.SelectContext(ctx, &appts,
		`SELECT appointment_id, patient_id, doctor_id, scheduled_time, status, notes
		 FROM appointments WHERE patient_id = ?`, patientID)
	return appts, err
}
