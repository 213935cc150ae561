package database

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open opens a SQLite database at the provided path with foreign key
// enforcement enabled.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Connect is Open for callers that cannot proceed without a database.
func Connect(path string) *sqlx.DB {
	db, err := Open(path)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}
