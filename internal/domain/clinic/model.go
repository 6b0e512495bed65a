package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Clinic maps to the clinic table.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfessionalType is the kind of therapy professional.
type ProfessionalType string

const (
	TypeFonoaudiologo        ProfessionalType = "fonoaudiologo"
	TypePsicologo            ProfessionalType = "psicologo"
	TypeTerapeutaOcupacional ProfessionalType = "terapeuta_ocupacional"
	TypeFisioterapeuta       ProfessionalType = "fisioterapeuta"
	TypePsicopedagogo        ProfessionalType = "psicopedagogo"
	TypeOutro                ProfessionalType = "outro"
)

var professionalTypeLabels = map[ProfessionalType]string{
	TypeFonoaudiologo:        "Fonoaudiólogo(a)",
	TypePsicologo:            "Psicólogo(a)",
	TypeTerapeutaOcupacional: "Terapeuta Ocupacional",
	TypeFisioterapeuta:       "Fisioterapeuta",
	TypePsicopedagogo:        "Psicopedagogo(a)",
	TypeOutro:                "Outro",
}

// Valid reports whether t is a known professional type.
func (t ProfessionalType) Valid() bool {
	_, ok := professionalTypeLabels[t]
	return ok
}

// Label returns the human-readable label for the type.
// Unknown types fall back to the raw value.
func (t ProfessionalType) Label() string {
	if l, ok := professionalTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Professional maps to the professional table.
type Professional struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Type      ProfessionalType `db:"type" json:"type"`
	Specialty *string          `db:"specialty" json:"specialty,omitempty"`
	Phone     *string          `db:"phone" json:"phone,omitempty"`
	Email     *string          `db:"email" json:"email,omitempty"`
	ClinicID  *uuid.UUID       `db:"clinic_id" json:"clinic_id,omitempty"`
	CreatedBy uuid.UUID        `db:"created_by" json:"created_by"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
