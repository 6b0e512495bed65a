package civil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour() != 9 || tod.Minute() != 30 {
		t.Errorf("expected 09:30, got %s", tod)
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, s := range []string{"25:00", "12:75", "abc", ""} {
		if _, err := ParseTimeOfDay(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	tod := NewTimeOfDay(8, 5)
	if tod.String() != "08:05" {
		t.Errorf("expected 08:05, got %s", tod)
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	tod := NewTimeOfDay(14, 45)
	data, err := json.Marshal(tod)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"14:45"` {
		t.Errorf("unexpected JSON %s", data)
	}
	var back TimeOfDay
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != tod {
		t.Errorf("round trip mismatch: %s != %s", back, tod)
	}
}

func TestElapsed(t *testing.T) {
	start := NewTimeOfDay(9, 0)
	end := NewTimeOfDay(10, 30)
	d, ok := Elapsed(&start, &end)
	if !ok {
		t.Fatal("expected a duration")
	}
	if d != 90*time.Minute {
		t.Errorf("expected 90m, got %s", d)
	}
}

func TestElapsed_MissingEither(t *testing.T) {
	start := NewTimeOfDay(9, 0)
	if _, ok := Elapsed(&start, nil); ok {
		t.Error("expected no duration with nil end")
	}
	if _, ok := Elapsed(nil, &start); ok {
		t.Error("expected no duration with nil start")
	}
	if _, ok := Elapsed(nil, nil); ok {
		t.Error("expected no duration with both nil")
	}
}

func TestElapsed_DoesNotValidateOrdering(t *testing.T) {
	start := NewTimeOfDay(10, 0)
	end := NewTimeOfDay(9, 0)
	d, ok := Elapsed(&start, &end)
	if !ok {
		t.Fatal("expected a duration")
	}
	if d != -time.Hour {
		t.Errorf("expected -1h, got %s", d)
	}
}

func TestWeekdayIndex(t *testing.T) {
	if WeekdayIndex(time.Monday) != 0 {
		t.Error("Monday should map to 0")
	}
	if WeekdayIndex(time.Sunday) != 6 {
		t.Error("Sunday should map to 6")
	}
	if WeekdayIndex(time.Wednesday) != 2 {
		t.Error("Wednesday should map to 2")
	}
}

func TestMondayOf(t *testing.T) {
	// 2024-01-10 is a Wednesday; its Monday is 2024-01-08.
	got := MondayOf(Date(2024, time.January, 10))
	if !got.Equal(Date(2024, time.January, 8)) {
		t.Errorf("expected 2024-01-08, got %s", got.Format("2006-01-02"))
	}
	// A Monday maps to itself.
	got = MondayOf(Date(2024, time.January, 8))
	if !got.Equal(Date(2024, time.January, 8)) {
		t.Errorf("expected 2024-01-08, got %s", got.Format("2006-01-02"))
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if LastDayOfMonth(2024, time.February) != 29 {
		t.Error("Feb 2024 has 29 days")
	}
	if LastDayOfMonth(2023, time.February) != 28 {
		t.Error("Feb 2023 has 28 days")
	}
	if LastDayOfMonth(2024, time.January) != 31 {
		t.Error("Jan has 31 days")
	}
}
