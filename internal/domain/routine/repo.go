package routine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

type RoutineRepository interface {
	Create(ctx context.Context, rt *Routine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Routine, error)
	Update(ctx context.Context, rt *Routine) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByChild(ctx context.Context, childID uuid.UUID, limit, offset int) ([]*Routine, int, error)
}

type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRoutine(ctx context.Context, routineID uuid.UUID) ([]*Item, error)
}

// AppointmentStore is the slice of the agenda storage the expansion
// engine needs: batch creation, provenance-scoped queries and deletes.
type AppointmentStore interface {
	CreateGenerated(ctx context.Context, appts []*GeneratedAppointment) error
	DatesByOriginItem(ctx context.Context, itemID uuid.UUID) (map[time.Time]bool, error)
	DeleteByOriginItem(ctx context.Context, itemID uuid.UUID, from *time.Time) (int64, error)
}

// GeneratedAppointment carries everything the agenda side needs to
// materialize one occurrence of an item.
type GeneratedAppointment struct {
	Title           string
	Description     *string
	Type            string
	Date            time.Time
	StartTime       *civil.TimeOfDay
	EndTime         *civil.TimeOfDay
	DurationSeconds *int64
	ProfessionalID  *uuid.UUID
	ClinicID        *uuid.UUID
	ChildID         uuid.UUID
	CreatedBy       uuid.UUID
	OriginItemID    uuid.UUID
}
