package clinic

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockClinicRepo struct {
	clinics map[uuid.UUID]*Clinic
}

func newMockClinicRepo() *mockClinicRepo {
	return &mockClinicRepo{clinics: make(map[uuid.UUID]*Clinic)}
}

func (m *mockClinicRepo) Create(_ context.Context, cl *Clinic) error {
	cl.ID = uuid.New()
	cl.CreatedAt = time.Now()
	cl.UpdatedAt = time.Now()
	m.clinics[cl.ID] = cl
	return nil
}

func (m *mockClinicRepo) GetByID(_ context.Context, id uuid.UUID) (*Clinic, error) {
	cl, ok := m.clinics[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return cl, nil
}

func (m *mockClinicRepo) Update(_ context.Context, cl *Clinic) error {
	m.clinics[cl.ID] = cl
	return nil
}

func (m *mockClinicRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.clinics, id)
	return nil
}

func (m *mockClinicRepo) List(_ context.Context, q string, limit, offset int) ([]*Clinic, int, error) {
	var result []*Clinic
	for _, cl := range m.clinics {
		if q == "" || strings.Contains(strings.ToLower(cl.Name), strings.ToLower(q)) {
			result = append(result, cl)
		}
	}
	return result, len(result), nil
}

type mockProfessionalRepo struct {
	pros map[uuid.UUID]*Professional
}

func newMockProfessionalRepo() *mockProfessionalRepo {
	return &mockProfessionalRepo{pros: make(map[uuid.UUID]*Professional)}
}

func (m *mockProfessionalRepo) Create(_ context.Context, p *Professional) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.pros[p.ID] = p
	return nil
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, id uuid.UUID) (*Professional, error) {
	p, ok := m.pros[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockProfessionalRepo) Update(_ context.Context, p *Professional) error {
	m.pros[p.ID] = p
	return nil
}

func (m *mockProfessionalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.pros, id)
	return nil
}

func (m *mockProfessionalRepo) List(_ context.Context, q string, limit, offset int) ([]*Professional, int, error) {
	var result []*Professional
	for _, p := range m.pros {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockProfessionalRepo) ListByClinic(_ context.Context, clinicID uuid.UUID, limit, offset int) ([]*Professional, int, error) {
	var result []*Professional
	for _, p := range m.pros {
		if p.ClinicID != nil && *p.ClinicID == clinicID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockClinicRepo(), newMockProfessionalRepo())
}

// -- Tests --

func TestCreateClinic(t *testing.T) {
	svc := newTestService()
	actor := uuid.New()

	cl := &Clinic{Name: "Clínica Crescer"}
	if err := svc.CreateClinic(context.Background(), cl, actor); err != nil {
		t.Fatalf("create clinic: %v", err)
	}
	if cl.ID == uuid.Nil {
		t.Error("expected clinic id to be set")
	}
	if cl.CreatedBy != actor {
		t.Errorf("expected created_by %s, got %s", actor, cl.CreatedBy)
	}
}

func TestCreateClinic_RequiresName(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateClinic(context.Background(), &Clinic{}, uuid.New()); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreateProfessional_DefaultsType(t *testing.T) {
	svc := newTestService()
	p := &Professional{Name: "Ana Souza"}
	if err := svc.CreateProfessional(context.Background(), p, uuid.New()); err != nil {
		t.Fatalf("create professional: %v", err)
	}
	if p.Type != TypeOutro {
		t.Errorf("expected default type %s, got %s", TypeOutro, p.Type)
	}
}

func TestCreateProfessional_RejectsUnknownType(t *testing.T) {
	svc := newTestService()
	p := &Professional{Name: "Ana Souza", Type: "dentista"}
	if err := svc.CreateProfessional(context.Background(), p, uuid.New()); err == nil {
		t.Error("expected error for unknown professional type")
	}
}

func TestListProfessionalsByClinic(t *testing.T) {
	svc := newTestService()
	actor := uuid.New()

	cl := &Clinic{Name: "Clínica Crescer"}
	if err := svc.CreateClinic(context.Background(), cl, actor); err != nil {
		t.Fatalf("create clinic: %v", err)
	}

	p1 := &Professional{Name: "Ana", Type: TypeFonoaudiologo, ClinicID: &cl.ID}
	p2 := &Professional{Name: "Bia", Type: TypePsicologo}
	for _, p := range []*Professional{p1, p2} {
		if err := svc.CreateProfessional(context.Background(), p, actor); err != nil {
			t.Fatalf("create professional: %v", err)
		}
	}

	items, total, err := svc.ListProfessionalsByClinic(context.Background(), cl.ID, 20, 0)
	if err != nil {
		t.Fatalf("list by clinic: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 professional at clinic, got %d", total)
	}
	if items[0].Name != "Ana" {
		t.Errorf("expected Ana, got %s", items[0].Name)
	}
}

func TestProfessionalTypeLabel(t *testing.T) {
	if got := TypeFonoaudiologo.Label(); got != "Fonoaudiólogo(a)" {
		t.Errorf("unexpected label: %s", got)
	}
	if got := ProfessionalType("desconhecido").Label(); got != "desconhecido" {
		t.Errorf("expected raw fallback, got %s", got)
	}
}
