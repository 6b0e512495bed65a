package clinic

import (
	"context"

	"github.com/google/uuid"
)

type ClinicRepository interface {
	Create(ctx context.Context, cl *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	Update(ctx context.Context, cl *Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q string, limit, offset int) ([]*Clinic, int, error)
}

type ProfessionalRepository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id uuid.UUID) (*Professional, error)
	Update(ctx context.Context, p *Professional) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q string, limit, offset int) ([]*Professional, int, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Professional, int, error)
}
