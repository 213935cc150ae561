package domain

const (
	AppointmentScheduled = "Scheduled"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
)

type Appointment struct {
	ID            int64  `db:"appointment_id" json:"id"`
	PatientID     int64  `db:"patient_id" json:"patient_id"`
	DoctorID      int64  `db:"doctor_id" json:"doctor_id"`
	ScheduledTime string `db:"scheduled_time" json:"scheduled_time"`
	Status        string `db:"status" json:"status"`
	Notes         string `db:"notes" json:"notes"`
}

func ValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}
