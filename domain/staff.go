package domain

const (
	RoleDoctor     = "Doctor"
	RoleNurse      = "Nurse"
	RoleAdmin      = "Admin"
	RolePharmacist = "Pharmacist"
)

type Staff struct {
	ID             int64   `db:"staff_id" json:"id"`
	FullName       string  `db:"full_name" json:"full_name"`
	Role           string  `db:"role" json:"role"`
	Specialization *string `db:"specialization" json:"specialization,omitempty"`
	ShiftTiming    string  `db:"shift_timing" json:"shift_timing"`
	ContactNumber  string  `db:"contact_number" json:"contact_number"`
	IsActive       bool    `db:"is_active" json:"is_active"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleDoctor, RoleNurse, RoleAdmin, RolePharmacist:
		return true
	}
	return false
}
