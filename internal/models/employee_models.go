package models

import "time"

// Employee roles.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Employee represents a worker or administrator of the system.
type Employee struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	HourlyRate   *float64  `json:"hourly_rate,omitempty" db:"hourly_rate"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// ActiveShift is derived from the shift ledger on read; it is never
	// stored on the employee record.
	ActiveShift *Shift `json:"active_shift,omitempty"`
}
