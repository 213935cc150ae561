package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the clinic record keeper.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS patients (
            patient_id INTEGER PRIMARY KEY AUTOINCREMENT,
            full_name TEXT NOT NULL,
            age INTEGER CHECK(age > 0),
            gender TEXT CHECK(gender IN ('M', 'F', 'O')),
            contact_number TEXT,
            address TEXT,
            blood_group TEXT,
            medical_history TEXT,
            registration_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS staff (
            staff_id INTEGER PRIMARY KEY AUTOINCREMENT,
            full_name TEXT NOT NULL,
            role TEXT NOT NULL CHECK(role IN ('Doctor', 'Nurse', 'Admin', 'Pharmacist')),
            specialization TEXT,
            shift_timing TEXT,
            contact_number TEXT,
            is_active BOOLEAN DEFAULT 1
        );`,
		`CREATE TABLE IF NOT EXISTS inventory (
            item_id INTEGER PRIMARY KEY AUTOINCREMENT,
            item_name TEXT UNIQUE NOT NULL,
            category TEXT NOT NULL,
            quantity INTEGER DEFAULT 0 CHECK(quantity >= 0),
            price_per_unit REAL NOT NULL,
            expiry_date DATE,
            reorder_level INTEGER DEFAULT 10
        );`,
		`CREATE TABLE IF NOT EXISTS appointments (
            appointment_id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            doctor_id INTEGER NOT NULL,
            scheduled_time DATETIME NOT NULL,
            status TEXT DEFAULT 'Scheduled' CHECK(status IN ('Scheduled', 'Completed', 'Cancelled')),
            notes TEXT,
            FOREIGN KEY(patient_id) REFERENCES patients(patient_id) ON DELETE CASCADE,
            FOREIGN KEY(doctor_id) REFERENCES staff(staff_id)
        );`,
		`CREATE TABLE IF NOT EXISTS bills (
            bill_id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            total_amount REAL NOT NULL CHECK(total_amount >= 0),
            payment_status TEXT DEFAULT 'Pending',
            generated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(patient_id) REFERENCES patients(patient_id)
        );`,
		`CREATE TABLE IF NOT EXISTS bill_items (
            line_id INTEGER PRIMARY KEY AUTOINCREMENT,
            bill_id INTEGER NOT NULL,
            kind TEXT NOT NULL CHECK(kind IN ('fee', 'item')),
            item_id INTEGER REFERENCES inventory(item_id),
            description TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            unit_price REAL NOT NULL,
            cost REAL NOT NULL,
            FOREIGN KEY(bill_id) REFERENCES bills(bill_id) ON DELETE CASCADE
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
