package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for absent or conflicting records. All of these are
// recoverable at the call site; none aborts the session.
var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrInvalidDoctor       = errors.New("staff member is not a doctor")
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrDuplicateItem       = errors.New("inventory item already exists")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrBillNotFound        = errors.New("bill not found")
	ErrDraftNotFound       = errors.New("invoice draft not found")
)

// ValidationError reports input that fails a field-level check before any
// write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError rejects a draw that would push an item's quantity
// below zero. It carries the available count so the caller can retry with a
// smaller quantity.
type InsufficientStockError struct {
	Item      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Item, e.Requested, e.Available)
}

// IntegrityError wraps a constraint violation surfaced by the store.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation during %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
