package store

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"clinicdesk/m/domain"
)

// Store is the record store for the five entity kinds. All access goes
// through an explicitly passed *Store; there is no package-level handle.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// wrapIntegrity converts SQLite constraint violations into the domain
// taxonomy, leaving other errors untouched.
func wrapIntegrity(op string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return &domain.IntegrityError{Op: op, Err: err}
	}
	return err
}
