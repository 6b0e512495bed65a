package routine

import (
	"time"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

// Rule generates the occurrence dates of a routine item as a lazy,
// finite sequence. Start and End are inclusive civil dates; Weekday
// anchors the weekly kinds (0=Monday..6=Sunday). A rule never errors:
// an inverted range is simply empty.
type Rule struct {
	Start       time.Time
	End         time.Time
	Periodicity Periodicity
	Weekday     int

	cur     time.Time
	started bool
	done    bool
}

// Next returns the next date in the sequence. The second return is
// false once the sequence is exhausted.
func (r *Rule) Next() (time.Time, bool) {
	if r.done {
		return time.Time{}, false
	}
	if !r.started {
		r.cur = r.first()
		r.started = true
	} else {
		r.cur = r.advance(r.cur)
	}
	if r.cur.IsZero() || r.cur.After(civil.DateOf(r.End)) {
		r.done = true
		return time.Time{}, false
	}
	if r.Periodicity == Once {
		r.done = true
	}
	return r.cur, true
}

// Reset rewinds the rule so the sequence can be consumed again.
func (r *Rule) Reset() {
	r.started = false
	r.done = false
	r.cur = time.Time{}
}

// Dates drains the rule and returns every date it produces.
func (r *Rule) Dates() []time.Time {
	r.Reset()
	var out []time.Time
	for d, ok := r.Next(); ok; d, ok = r.Next() {
		out = append(out, d)
	}
	return out
}

func (r *Rule) first() time.Time {
	start := civil.DateOf(r.Start)
	if !r.Periodicity.NeedsWeekday() {
		return start
	}
	// Earliest date >= start landing on the target weekday.
	offset := (r.Weekday - civil.WeekdayIndex(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

func (r *Rule) advance(cur time.Time) time.Time {
	switch r.Periodicity {
	case Daily:
		return cur.AddDate(0, 0, 1)
	case Weekly:
		return cur.AddDate(0, 0, 7)
	case Biweekly:
		return cur.AddDate(0, 0, 14)
	case Monthly:
		return addMonthClamped(cur)
	case Yearly:
		return addYearClamped(cur)
	}
	// once has no successor
	return time.Time{}
}

// addMonthClamped moves one calendar month forward, clamping the day to
// the destination month's last day. The anchor is the current date, so a
// day lost to a short month stays lost (Jan 31 -> Feb 29 -> Mar 29).
func addMonthClamped(d time.Time) time.Time {
	year, month, day := d.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	if last := civil.LastDayOfMonth(year, month); day > last {
		day = last
	}
	return civil.Date(year, month, day)
}

// addYearClamped moves one calendar year forward, clamping Feb 29 to
// Feb 28 on non-leap years.
func addYearClamped(d time.Time) time.Time {
	year, month, day := d.Date()
	year++
	if last := civil.LastDayOfMonth(year, month); day > last {
		day = last
	}
	return civil.Date(year, month, day)
}
