package family

import (
	"time"

	"github.com/google/uuid"
)

// Child maps to the child table. Each child belongs to the user who
// registered it; listings are always scoped to that owner.
type Child struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Condition    string    `db:"condition" json:"condition"`
	BirthDate    time.Time `db:"birth_date" json:"birth_date"`
	ContactPhone *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	OwnerID      uuid.UUID `db:"owner_id" json:"owner_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Age returns the child's age in whole years at the given reference date.
func (c *Child) Age(at time.Time) int {
	years := at.Year() - c.BirthDate.Year()
	if at.Month() < c.BirthDate.Month() ||
		(at.Month() == c.BirthDate.Month() && at.Day() < c.BirthDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
