// Package scheduling creates appointments after verifying the patient and
// treating doctor exist.
package scheduling

import (
	"context"
	"errors"

	"clinicdesk/m/domain"
	"clinicdesk/m/internal/store"
)

type Scheduler struct {
	store *store.Store
}

func NewScheduler(st *store.Store) *Scheduler {
	return &Scheduler{store: st}
}

// Schedule validates the patient, then the doctor, then writes the
// appointment with status Scheduled. The scheduled time is stored as given;
// no format or conflict checking is performed.
func (s *Scheduler) Schedule(ctx context.Context, patientID, doctorID int64, scheduledTime, notes string) (int64, error) {
	if _, err := s.store.GetPatient(ctx, patientID); err != nil {
		return 0, err
	}

	staff, err := s.store.GetStaff(ctx, doctorID)
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			return 0, domain.ErrInvalidDoctor
		}
		return 0, err
	}
	if staff.Role != domain.RoleDoctor {
		return 0, domain.ErrInvalidDoctor
	}

	return s.store.CreateAppointment(ctx, &domain.Appointment{
		PatientID:     patientID,
		DoctorID:      doctorID,
		ScheduledTime: scheduledTime,
		Status:        domain.AppointmentScheduled,
		Notes:         notes,
	})
}

// ListDoctors returns the staff roster filtered to doctors, the set a caller
// presents when choosing who an appointment is with.
func (s *Scheduler) ListDoctors(ctx context.Context) ([]domain.Staff, error) {
	return s.store.ListStaff(ctx, domain.RoleDoctor)
}
