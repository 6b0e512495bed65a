package family

import (
	"context"

	"github.com/google/uuid"
)

type ChildRepository interface {
	Create(ctx context.Context, ch *Child) error
	GetByID(ctx context.Context, id uuid.UUID) (*Child, error)
	Update(ctx context.Context, ch *Child) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, q string, limit, offset int) ([]*Child, int, error)
}
