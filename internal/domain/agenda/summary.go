package agenda

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

const (
	noClinicLabel       = "Sem clínica"
	noProfessionalLabel = "Sem profissional"
)

// DurationEntry is one row of a grouped duration total.
type DurationEntry struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
	Display string `json:"display"`
}

// Summary is the read-side reduction of one child's appointments over a
// period, typically a calendar month.
type Summary struct {
	Total              int             `json:"total"`
	Attended           int             `json:"attended"`
	Missed             int             `json:"missed"`
	Pending            int             `json:"pending"`
	ByClinic           []DurationEntry `json:"by_clinic"`
	ByProfessionalType []DurationEntry `json:"by_professional_type"`
}

// Summarize reduces the appointments to attendance counts and duration
// totals grouped by clinic name and professional-type label. Unresolved
// references fall under sentinel labels. Pure function.
func Summarize(today time.Time, appts []*Appointment, clinicNames, professionalTypes map[uuid.UUID]string) *Summary {
	today = civil.DateOf(today)
	s := &Summary{Total: len(appts)}

	byClinic := make(map[string]int64)
	byType := make(map[string]int64)

	for _, a := range appts {
		switch {
		case a.AttendanceConfirmed:
			s.Attended++
		case civil.DateOf(a.Date).Before(today):
			s.Missed++
		default:
			s.Pending++
		}

		dur, ok := a.Duration()
		if !ok {
			continue
		}
		sec := int64(dur / time.Second)

		clinicLabel := noClinicLabel
		if a.ClinicID != nil {
			if name, ok := clinicNames[*a.ClinicID]; ok {
				clinicLabel = name
			}
		}
		byClinic[clinicLabel] += sec

		typeLabel := noProfessionalLabel
		if a.ProfessionalID != nil {
			if label, ok := professionalTypes[*a.ProfessionalID]; ok {
				typeLabel = label
			}
		}
		byType[typeLabel] += sec
	}

	s.ByClinic = sortedEntries(byClinic)
	s.ByProfessionalType = sortedEntries(byType)
	return s
}

func sortedEntries(totals map[string]int64) []DurationEntry {
	entries := make([]DurationEntry, 0, len(totals))
	for label, sec := range totals {
		entries = append(entries, DurationEntry{Label: label, Seconds: sec, Display: FormatDuration(sec)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Seconds != entries[j].Seconds {
			return entries[i].Seconds > entries[j].Seconds
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// FormatDuration renders seconds as a compact human string: "2h30",
// "1h", "45min".
func FormatDuration(seconds int64) string {
	minutes := seconds / 60
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%02d", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dmin", m)
	}
}
