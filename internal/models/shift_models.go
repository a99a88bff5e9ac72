package models

import "time"

// Shift is one continuous work interval for an employee. A nil EndTime
// means the shift is still active. Shifts are never deleted; the shifts
// table is the authoritative ledger of worked time.
type Shift struct {
	ID                int64      `json:"id" db:"id"`
	EmployeeID        int64      `json:"employee_id" db:"employee_id"`
	LocationID        int64      `json:"location_id" db:"location_id"`
	StartTime         time.Time  `json:"start_time" db:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty" db:"end_time"`
	ManuallyCreated   bool       `json:"manually_created" db:"manually_created"`
	ManuallyCreatedBy *int64     `json:"manually_created_by,omitempty" db:"manually_created_by"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	// Joined display fields. Nil when the referenced employee or location
	// has since been deleted; consumers fall back to a placeholder.
	EmployeeName *string `json:"employee_name,omitempty"`
	LocationName *string `json:"location_name,omitempty"`
}

// Active reports whether the shift is still open.
func (s *Shift) Active() bool {
	return s.EndTime == nil
}

// HoursWorked returns the worked duration in fractional hours. Active
// shifts are measured up to the supplied clock reading.
func (s *Shift) HoursWorked(now time.Time) float64 {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(s.StartTime).Hours()
}
