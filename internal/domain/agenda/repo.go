package agenda

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	CreateBatch(ctx context.Context, appts []*Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetAttendance(ctx context.Context, id uuid.UUID, confirmed bool) error

	// ListByChildBetween returns the child's appointments with
	// from <= date <= to, ordered by date, start time, end time, title.
	ListByChildBetween(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	ListByChild(ctx context.Context, childID uuid.UUID, q string, limit, offset int) ([]*Appointment, int, error)

	// Provenance operations used by the routine expansion engine.
	DatesByOriginItem(ctx context.Context, itemID uuid.UUID) (map[time.Time]bool, error)
	DeleteByOriginItem(ctx context.Context, itemID uuid.UUID, from *time.Time) (int64, error)
}
