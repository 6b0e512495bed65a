package family

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when an actor touches a child registered by
// someone else.
var ErrNotOwner = errors.New("child does not belong to this user")

type Service struct {
	children ChildRepository
}

func NewService(children ChildRepository) *Service {
	return &Service{children: children}
}

func (s *Service) CreateChild(ctx context.Context, ch *Child, actor uuid.UUID) error {
	if ch.Name == "" {
		return fmt.Errorf("name is required")
	}
	if ch.Condition == "" {
		return fmt.Errorf("condition is required")
	}
	if ch.BirthDate.IsZero() {
		return fmt.Errorf("birth_date is required")
	}
	ch.OwnerID = actor
	return s.children.Create(ctx, ch)
}

// GetChild fetches a child, enforcing ownership unless the actor is an admin.
func (s *Service) GetChild(ctx context.Context, id, actor uuid.UUID, admin bool) (*Child, error) {
	ch, err := s.children.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && ch.OwnerID != actor {
		return nil, ErrNotOwner
	}
	return ch, nil
}

func (s *Service) UpdateChild(ctx context.Context, ch *Child, actor uuid.UUID, admin bool) error {
	existing, err := s.GetChild(ctx, ch.ID, actor, admin)
	if err != nil {
		return err
	}
	if ch.Name == "" {
		return fmt.Errorf("name is required")
	}
	if ch.Condition == "" {
		return fmt.Errorf("condition is required")
	}
	if ch.BirthDate.IsZero() {
		ch.BirthDate = existing.BirthDate
	}
	ch.OwnerID = existing.OwnerID
	return s.children.Update(ctx, ch)
}

func (s *Service) DeleteChild(ctx context.Context, id, actor uuid.UUID, admin bool) error {
	if _, err := s.GetChild(ctx, id, actor, admin); err != nil {
		return err
	}
	return s.children.Delete(ctx, id)
}

func (s *Service) ListChildren(ctx context.Context, owner uuid.UUID, q string, limit, offset int) ([]*Child, int, error) {
	return s.children.ListByOwner(ctx, owner, q, limit, offset)
}
