package agenda

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

// Appointment maps to the appointment table: one concrete occurrence on
// a child's agenda, created by hand or stamped from a routine item.
// OriginItemID is provenance only; the referenced item may be gone.
type Appointment struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	Title               string           `db:"title" json:"title"`
	Description         *string          `db:"description" json:"description,omitempty"`
	Type                string           `db:"type" json:"type"`
	Date                time.Time        `db:"date" json:"date"`
	StartTime           *civil.TimeOfDay `db:"start_time" json:"start_time,omitempty"`
	EndTime             *civil.TimeOfDay `db:"end_time" json:"end_time,omitempty"`
	DurationSeconds     *int64           `db:"duration_seconds" json:"duration_seconds,omitempty"`
	ProfessionalID      *uuid.UUID       `db:"professional_id" json:"professional_id,omitempty"`
	ClinicID            *uuid.UUID       `db:"clinic_id" json:"clinic_id,omitempty"`
	ChildID             uuid.UUID        `db:"child_id" json:"child_id"`
	Notes               *string          `db:"notes" json:"notes,omitempty"`
	AttendanceConfirmed bool             `db:"attendance_confirmed" json:"attendance_confirmed"`
	CreatedBy           uuid.UUID        `db:"created_by" json:"created_by"`
	OriginItemID        *uuid.UUID       `db:"origin_item_id" json:"origin_item_id,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

// Validate checks the appointment's own invariants.
func (a *Appointment) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.ChildID == uuid.Nil {
		return fmt.Errorf("child_id is required")
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if a.StartTime != nil && a.EndTime != nil && *a.EndTime <= *a.StartTime {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

// Duration returns the stored duration when present, otherwise derives
// it from the clock times.
func (a *Appointment) Duration() (time.Duration, bool) {
	if a.DurationSeconds != nil {
		return time.Duration(*a.DurationSeconds) * time.Second, true
	}
	return civil.Elapsed(a.StartTime, a.EndTime)
}
