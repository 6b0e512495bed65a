package clinic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	clinics       ClinicRepository
	professionals ProfessionalRepository
}

func NewService(clinics ClinicRepository, professionals ProfessionalRepository) *Service {
	return &Service{clinics: clinics, professionals: professionals}
}

// -- Clinic --

func (s *Service) CreateClinic(ctx context.Context, cl *Clinic, actor uuid.UUID) error {
	if cl.Name == "" {
		return fmt.Errorf("name is required")
	}
	cl.CreatedBy = actor
	return s.clinics.Create(ctx, cl)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, cl *Clinic) error {
	if cl.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.clinics.Update(ctx, cl)
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return s.clinics.Delete(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, q string, limit, offset int) ([]*Clinic, int, error) {
	return s.clinics.List(ctx, q, limit, offset)
}

// -- Professional --

func (s *Service) CreateProfessional(ctx context.Context, p *Professional, actor uuid.UUID) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Type == "" {
		p.Type = TypeOutro
	}
	if !p.Type.Valid() {
		return fmt.Errorf("invalid professional type: %s", p.Type)
	}
	p.CreatedBy = actor
	return s.professionals.Create(ctx, p)
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return s.professionals.GetByID(ctx, id)
}

func (s *Service) UpdateProfessional(ctx context.Context, p *Professional) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !p.Type.Valid() {
		return fmt.Errorf("invalid professional type: %s", p.Type)
	}
	return s.professionals.Update(ctx, p)
}

func (s *Service) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	return s.professionals.Delete(ctx, id)
}

func (s *Service) ListProfessionals(ctx context.Context, q string, limit, offset int) ([]*Professional, int, error) {
	return s.professionals.List(ctx, q, limit, offset)
}

func (s *Service) ListProfessionalsByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Professional, int, error) {
	return s.professionals.ListByClinic(ctx, clinicID, limit, offset)
}
