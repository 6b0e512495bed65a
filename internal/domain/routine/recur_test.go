package routine

import (
	"testing"
	"time"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

func dates(t *testing.T, r *Rule) []time.Time {
	t.Helper()
	return r.Dates()
}

func TestRuleOnce(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.March, 5),
		End:         civil.Date(2024, time.March, 31),
		Periodicity: Once,
	}
	got := dates(t, r)
	if len(got) != 1 || !got[0].Equal(civil.Date(2024, time.March, 5)) {
		t.Fatalf("expected single date 2024-03-05, got %v", got)
	}
}

func TestRuleOnce_StartAfterEnd(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.April, 1),
		End:         civil.Date(2024, time.March, 31),
		Periodicity: Once,
	}
	if got := dates(t, r); len(got) != 0 {
		t.Fatalf("expected empty sequence, got %v", got)
	}
}

func TestRuleDaily(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.March, 1),
		End:         civil.Date(2024, time.March, 5),
		Periodicity: Daily,
	}
	got := dates(t, r)
	if len(got) != 5 {
		t.Fatalf("expected 5 dates, got %d", len(got))
	}
	for i, d := range got {
		want := civil.Date(2024, time.March, 1+i)
		if !d.Equal(want) {
			t.Errorf("date %d: expected %s, got %s", i, want.Format("2006-01-02"), d.Format("2006-01-02"))
		}
	}
}

func TestRuleWeekly(t *testing.T) {
	// 2024-01-10 is a Wednesday; target Wednesday (index 2).
	r := &Rule{
		Start:       civil.Date(2024, time.January, 10),
		End:         civil.Date(2024, time.February, 7),
		Periodicity: Weekly,
		Weekday:     2,
	}
	got := dates(t, r)
	want := []time.Time{
		civil.Date(2024, time.January, 10),
		civil.Date(2024, time.January, 17),
		civil.Date(2024, time.January, 24),
		civil.Date(2024, time.January, 31),
		civil.Date(2024, time.February, 7),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d: expected %s, got %s", i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
		}
		if civil.WeekdayIndex(got[i].Weekday()) != 2 {
			t.Errorf("date %d not a Wednesday: %s", i, got[i].Weekday())
		}
	}
}

func TestRuleWeekly_AnchorsForward(t *testing.T) {
	// Start Wednesday 2024-01-10, target Friday (index 4): first hit is the 12th.
	r := &Rule{
		Start:       civil.Date(2024, time.January, 10),
		End:         civil.Date(2024, time.January, 31),
		Periodicity: Weekly,
		Weekday:     4,
	}
	got := dates(t, r)
	if len(got) == 0 || !got[0].Equal(civil.Date(2024, time.January, 12)) {
		t.Fatalf("expected first occurrence 2024-01-12, got %v", got)
	}
}

func TestRuleBiweekly(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.January, 10),
		End:         civil.Date(2024, time.February, 10),
		Periodicity: Biweekly,
		Weekday:     2,
	}
	got := dates(t, r)
	want := []time.Time{
		civil.Date(2024, time.January, 10),
		civil.Date(2024, time.January, 24),
		civil.Date(2024, time.February, 7),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d: expected %s, got %s", i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
		}
	}
}

func TestRuleMonthly_ClampNeverRecovers(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.January, 31),
		End:         civil.Date(2024, time.April, 30),
		Periodicity: Monthly,
	}
	got := dates(t, r)
	want := []time.Time{
		civil.Date(2024, time.January, 31),
		civil.Date(2024, time.February, 29),
		civil.Date(2024, time.March, 29),
		civil.Date(2024, time.April, 29),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d: expected %s, got %s", i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
		}
	}
}

func TestRuleYearly(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.February, 29),
		End:         civil.Date(2026, time.December, 31),
		Periodicity: Yearly,
	}
	got := dates(t, r)
	want := []time.Time{
		civil.Date(2024, time.February, 29),
		civil.Date(2025, time.February, 28),
		civil.Date(2026, time.February, 28),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d: expected %s, got %s", i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
		}
	}
}

func TestRuleReset(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.March, 1),
		End:         civil.Date(2024, time.March, 3),
		Periodicity: Daily,
	}
	first := r.Dates()
	second := r.Dates()
	if len(first) != len(second) {
		t.Fatalf("restarted sequence differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("date %d differs after reset", i)
		}
	}
}

func TestRuleLazyNext(t *testing.T) {
	r := &Rule{
		Start:       civil.Date(2024, time.March, 1),
		End:         civil.Date(2024, time.March, 2),
		Periodicity: Daily,
	}
	d1, ok := r.Next()
	if !ok || !d1.Equal(civil.Date(2024, time.March, 1)) {
		t.Fatalf("first Next: got %v %v", d1, ok)
	}
	d2, ok := r.Next()
	if !ok || !d2.Equal(civil.Date(2024, time.March, 2)) {
		t.Fatalf("second Next: got %v %v", d2, ok)
	}
	if _, ok := r.Next(); ok {
		t.Error("expected exhausted sequence")
	}
	if _, ok := r.Next(); ok {
		t.Error("Next after exhaustion must stay false")
	}
}

func TestRuleInvertedRangeIsEmpty(t *testing.T) {
	for _, p := range []Periodicity{Once, Daily, Weekly, Biweekly, Monthly, Yearly} {
		r := &Rule{
			Start:       civil.Date(2024, time.June, 10),
			End:         civil.Date(2024, time.June, 1),
			Periodicity: p,
			Weekday:     0,
		}
		if got := r.Dates(); len(got) != 0 {
			t.Errorf("%s: expected empty sequence for inverted range, got %v", p, got)
		}
	}
}
