package domain

type Patient struct {
	ID             int64  `db:"patient_id" json:"id"`
	FullName       string `db:"full_name" json:"full_name"`
	Age            int64  `db:"age" json:"age"`
	Gender         string `db:"gender" json:"gender"`
	ContactNumber  string `db:"contact_number" json:"contact_number"`
	Address        string `db:"address" json:"address"`
	BloodGroup     string `db:"blood_group" json:"blood_group"`
	MedicalHistory string `db:"medical_history" json:"medical_history"`
	RegisteredAt   string `db:"registration_date" json:"registered_at"`
}

// Genders lists the accepted gender codes.
var Genders = []string{"M", "F", "O"}

func ValidGender(g string) bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}
