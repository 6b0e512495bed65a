package agenda

import (
	"time"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

// WeekGrid is a 7-day, Monday-anchored schedule grid with hourly slots.
// Cells is keyed by weekday index (0=Monday..6=Sunday), then by slot
// hour. Within a cell the input order is preserved.
type WeekGrid struct {
	Monday time.Time                     `json:"monday"`
	Days   [7]time.Time                  `json:"days"`
	Hours  []int                         `json:"hours"`
	Cells  map[int]map[int][]*Appointment `json:"cells"`
}

// BuildWeekGrid buckets the given appointments into the week containing
// ref. Slots cover [startHour, endHour); an appointment with no start
// time lands in the first slot, and one starting outside the slot range
// is left off the grid. Pure function, no storage access.
func BuildWeekGrid(ref time.Time, appts []*Appointment, startHour, endHour int) *WeekGrid {
	monday := civil.MondayOf(ref)

	g := &WeekGrid{
		Monday: monday,
		Cells:  make(map[int]map[int][]*Appointment, 7),
	}
	for h := startHour; h < endHour; h++ {
		g.Hours = append(g.Hours, h)
	}
	for d := 0; d < 7; d++ {
		g.Days[d] = monday.AddDate(0, 0, d)
		g.Cells[d] = make(map[int][]*Appointment)
	}

	for _, a := range appts {
		date := civil.DateOf(a.Date)
		if date.Before(monday) || !date.Before(monday.AddDate(0, 0, 7)) {
			continue
		}
		day := civil.WeekdayIndex(date.Weekday())

		hour := startHour
		if a.StartTime != nil {
			hour = a.StartTime.Hour()
		}
		if hour < startHour || hour >= endHour {
			continue
		}
		g.Cells[day][hour] = append(g.Cells[day][hour], a)
	}
	return g
}
