package routine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

// Periodicity is the recurrence kind of a routine item.
type Periodicity string

const (
	Once     Periodicity = "once"
	Daily    Periodicity = "daily"
	Weekly   Periodicity = "weekly"
	Biweekly Periodicity = "biweekly"
	Monthly  Periodicity = "monthly"
	Yearly   Periodicity = "yearly"
)

// Valid reports whether p is a known periodicity.
func (p Periodicity) Valid() bool {
	switch p {
	case Once, Daily, Weekly, Biweekly, Monthly, Yearly:
		return true
	}
	return false
}

// NeedsWeekday reports whether the kind is anchored on a target weekday.
func (p Periodicity) NeedsWeekday() bool {
	return p == Weekly || p == Biweekly
}

// WeekdayNames maps the 0=Monday..6=Sunday index to a display name.
var WeekdayNames = [7]string{
	"Segunda-feira", "Terça-feira", "Quarta-feira",
	"Quinta-feira", "Sexta-feira", "Sábado", "Domingo",
}

// Routine maps to the routine table. A routine groups the recurring
// items for one child and bounds their expansion window.
type Routine struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        *string    `db:"name" json:"name,omitempty"`
	Description *string    `db:"description" json:"description,omitempty"`
	ChildID     uuid.UUID  `db:"child_id" json:"child_id"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedBy   uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Item maps to the routine_item table: the template one appointment
// series is stamped from.
type Item struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	RoutineID       uuid.UUID         `db:"routine_id" json:"routine_id"`
	Title           string            `db:"title" json:"title"`
	Description     *string           `db:"description" json:"description,omitempty"`
	Periodicity     Periodicity       `db:"periodicity" json:"periodicity"`
	Weekday         *int16            `db:"weekday" json:"weekday,omitempty"`
	StartTime       *civil.TimeOfDay  `db:"start_time" json:"start_time,omitempty"`
	EndTime         *civil.TimeOfDay  `db:"end_time" json:"end_time,omitempty"`
	DurationSeconds *int64            `db:"duration_seconds" json:"duration_seconds,omitempty"`
	ProfessionalID  *uuid.UUID        `db:"professional_id" json:"professional_id,omitempty"`
	ClinicID        *uuid.UUID        `db:"clinic_id" json:"clinic_id,omitempty"`
	CreatedBy       uuid.UUID         `db:"created_by" json:"created_by"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// Validate checks the item's own invariants.
func (it *Item) Validate() error {
	if it.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !it.Periodicity.Valid() {
		return fmt.Errorf("invalid periodicity: %s", it.Periodicity)
	}
	if it.Weekday != nil && (*it.Weekday < 0 || *it.Weekday > 6) {
		return fmt.Errorf("weekday must be between 0 (Monday) and 6 (Sunday)")
	}
	if it.StartTime != nil && it.EndTime != nil && *it.EndTime <= *it.StartTime {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

// Duration returns the cached duration when present, otherwise derives
// it from the item's clock times.
func (it *Item) Duration() (time.Duration, bool) {
	if it.DurationSeconds != nil {
		return time.Duration(*it.DurationSeconds) * time.Second, true
	}
	return civil.Elapsed(it.StartTime, it.EndTime)
}
