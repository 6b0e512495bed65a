package routine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

// -- Mock Repositories --

type mockRoutineRepo struct {
	routines map[uuid.UUID]*Routine
}

func newMockRoutineRepo() *mockRoutineRepo {
	return &mockRoutineRepo{routines: make(map[uuid.UUID]*Routine)}
}

func (m *mockRoutineRepo) Create(_ context.Context, rt *Routine) error {
	rt.ID = uuid.New()
	rt.CreatedAt = time.Now()
	rt.UpdatedAt = time.Now()
	m.routines[rt.ID] = rt
	return nil
}

func (m *mockRoutineRepo) GetByID(_ context.Context, id uuid.UUID) (*Routine, error) {
	rt, ok := m.routines[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return rt, nil
}

func (m *mockRoutineRepo) Update(_ context.Context, rt *Routine) error {
	m.routines[rt.ID] = rt
	return nil
}

func (m *mockRoutineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.routines, id)
	return nil
}

func (m *mockRoutineRepo) ListByChild(_ context.Context, childID uuid.UUID, limit, offset int) ([]*Routine, int, error) {
	var result []*Routine
	for _, rt := range m.routines {
		if rt.ChildID == childID {
			result = append(result, rt)
		}
	}
	return result, len(result), nil
}

type mockItemRepo struct {
	items map[uuid.UUID]*Item
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: make(map[uuid.UUID]*Item)}
}

func (m *mockItemRepo) Create(_ context.Context, it *Item) error {
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	it.UpdatedAt = time.Now()
	m.items[it.ID] = it
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return it, nil
}

func (m *mockItemRepo) Update(_ context.Context, it *Item) error {
	m.items[it.ID] = it
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockItemRepo) ListByRoutine(_ context.Context, routineID uuid.UUID) ([]*Item, error) {
	var result []*Item
	for _, it := range m.items {
		if it.RoutineID == routineID {
			result = append(result, it)
		}
	}
	return result, nil
}

type mockAppointmentStore struct {
	appts     []*GeneratedAppointment
	deleteErr error
}

func (m *mockAppointmentStore) CreateGenerated(_ context.Context, batch []*GeneratedAppointment) error {
	m.appts = append(m.appts, batch...)
	return nil
}

func (m *mockAppointmentStore) DatesByOriginItem(_ context.Context, itemID uuid.UUID) (map[time.Time]bool, error) {
	dates := make(map[time.Time]bool)
	for _, a := range m.appts {
		if a.OriginItemID == itemID {
			dates[a.Date] = true
		}
	}
	return dates, nil
}

func (m *mockAppointmentStore) DeleteByOriginItem(_ context.Context, itemID uuid.UUID, from *time.Time) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []*GeneratedAppointment
	var deleted int64
	for _, a := range m.appts {
		if a.OriginItemID == itemID && (from == nil || !a.Date.Before(*from)) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.appts = kept
	return deleted, nil
}

func (m *mockAppointmentStore) countFor(itemID uuid.UUID) int {
	n := 0
	for _, a := range m.appts {
		if a.OriginItemID == itemID {
			n++
		}
	}
	return n
}

// -- Fixture --

type fixture struct {
	svc     *Service
	store   *mockAppointmentStore
	items   *mockItemRepo
	routine *Routine
}

func newFixture(t *testing.T, today time.Time, start time.Time, end *time.Time) *fixture {
	t.Helper()
	routines := newMockRoutineRepo()
	items := newMockItemRepo()
	store := &mockAppointmentStore{}
	svc := NewService(routines, items, store, nil, 30, "sessao", zerolog.Nop())
	svc.now = func() time.Time { return today }

	rt := &Routine{ChildID: uuid.New(), StartDate: start, EndDate: end, CreatedBy: uuid.New()}
	if err := routines.Create(context.Background(), rt); err != nil {
		t.Fatalf("create routine: %v", err)
	}
	return &fixture{svc: svc, store: store, items: items, routine: rt}
}

func timePtr(h, m int) *civil.TimeOfDay {
	t := civil.NewTimeOfDay(h, m)
	return &t
}

func weekdayPtr(wd int16) *int16 { return &wd }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := civil.Date(y, m, d)
	return &t
}

// -- Expansion Tests --

func TestExpand_WeeklyWindow(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
		StartTime:   timePtr(9, 0),
		EndTime:     timePtr(10, 0),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Created != 4 {
		t.Fatalf("expected 4 appointments, got %d", res.Created)
	}

	wantDates := []time.Time{
		civil.Date(2024, time.January, 10),
		civil.Date(2024, time.January, 17),
		civil.Date(2024, time.January, 24),
		civil.Date(2024, time.January, 31),
	}
	for i, a := range f.store.appts {
		if !a.Date.Equal(wantDates[i]) {
			t.Errorf("appointment %d: expected %s, got %s", i, wantDates[i].Format("2006-01-02"), a.Date.Format("2006-01-02"))
		}
		if a.OriginItemID != it.ID {
			t.Errorf("appointment %d: provenance not set", i)
		}
		if a.ChildID != f.routine.ChildID {
			t.Errorf("appointment %d: child not copied from routine", i)
		}
		if a.Type != "sessao" {
			t.Errorf("appointment %d: expected default type, got %s", i, a.Type)
		}
		if a.DurationSeconds == nil || *a.DurationSeconds != 3600 {
			t.Errorf("appointment %d: expected 3600s duration, got %v", i, a.DurationSeconds)
		}
	}
}

func TestExpand_ClampsStartToToday(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 15),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
		StartTime:   timePtr(9, 0),
		EndTime:     timePtr(10, 0),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Created != 3 {
		t.Errorf("expected 3 appointments after clamping, got %d", res.Created)
	}
	if !res.From.Equal(civil.Date(2024, time.January, 15)) {
		t.Errorf("expected window start at today, got %s", res.From.Format("2006-01-02"))
	}
	if len(f.store.appts) > 0 && !f.store.appts[0].Date.Equal(civil.Date(2024, time.January, 17)) {
		t.Errorf("expected first date 2024-01-17, got %s", f.store.appts[0].Date.Format("2006-01-02"))
	}
}

func TestExpand_Retroactive(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 15),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{Retroactive: true})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Created != 4 {
		t.Errorf("expected 4 appointments including past ones, got %d", res.Created)
	}
}

func TestExpand_DefaultHorizon(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.March, 1),
		civil.Date(2024, time.March, 1),
		nil)

	it := &Item{RoutineID: f.routine.ID, Title: "Exercícios", Periodicity: Daily}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	// start through start+30 inclusive
	if res.Created != 31 {
		t.Errorf("expected 31 daily appointments over the default horizon, got %d", res.Created)
	}
}

func TestExpand_WeekdayFallback(t *testing.T) {
	// 2024-03-04 is a Monday; item has no weekday stored.
	f := newFixture(t,
		civil.Date(2024, time.March, 4),
		civil.Date(2024, time.March, 4),
		datePtr(2024, time.March, 18))

	it := &Item{RoutineID: f.routine.ID, Title: "Psicoterapia", Periodicity: Weekly}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Created != 3 {
		t.Fatalf("expected 3 Mondays, got %d", res.Created)
	}
	for _, a := range f.store.appts {
		if a.Date.Weekday() != time.Monday {
			t.Errorf("expected Monday, got %s", a.Date.Weekday())
		}
	}
}

func TestExpand_DuplicateGuard(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if _, err := f.svc.Expand(context.Background(), it, ExpandOptions{}); err != nil {
		t.Fatalf("first expand: %v", err)
	}
	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{})
	if err != nil {
		t.Fatalf("second expand: %v", err)
	}
	if res.Created != 0 || res.Skipped != 4 {
		t.Errorf("expected 0 created / 4 skipped on re-run, got %d / %d", res.Created, res.Skipped)
	}
	if got := f.store.countFor(it.ID); got != 4 {
		t.Errorf("expected 4 rows total, got %d", got)
	}
}

func TestExpand_AllowDuplicateExpansion(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	opts := ExpandOptions{AllowDuplicateExpansion: true}
	if _, err := f.svc.Expand(context.Background(), it, opts); err != nil {
		t.Fatalf("first expand: %v", err)
	}
	res, err := f.svc.Expand(context.Background(), it, opts)
	if err != nil {
		t.Fatalf("second expand: %v", err)
	}
	if res.Created != 4 {
		t.Errorf("expected 4 created on duplicate re-run, got %d", res.Created)
	}
	if got := f.store.countFor(it.ID); got != 8 {
		t.Errorf("expected 8 rows after double expansion, got %d", got)
	}
}

func TestExpand_Once(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.May, 1),
		civil.Date(2024, time.May, 6),
		datePtr(2024, time.May, 31))

	it := &Item{RoutineID: f.routine.ID, Title: "Avaliação", Periodicity: Once}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}
	res, err := f.svc.Expand(context.Background(), it, ExpandOptions{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("expected single appointment, got %d", res.Created)
	}
}

// -- Resync Tests --

func TestResync_KeepPast(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := f.svc.Expand(context.Background(), it, ExpandOptions{}); err != nil {
		t.Fatalf("expand: %v", err)
	}

	// Move today past the first two occurrences; only the future two
	// should be deleted and regenerated.
	f.svc.now = func() time.Time { return civil.Date(2024, time.January, 20) }

	res, err := f.svc.Resync(context.Background(), it, true, ExpandOptions{})
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if res.Deleted != 2 {
		t.Errorf("expected 2 future rows deleted, got %d", res.Deleted)
	}
	if res.Created != 2 {
		t.Errorf("expected 2 rows recreated, got %d", res.Created)
	}
	if got := f.store.countFor(it.ID); got != 4 {
		t.Errorf("expected 4 rows after resync, got %d", got)
	}
}

func TestResync_DropPast(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		Weekday:     weekdayPtr(2),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := f.svc.Expand(context.Background(), it, ExpandOptions{}); err != nil {
		t.Fatalf("expand: %v", err)
	}

	f.svc.now = func() time.Time { return civil.Date(2024, time.January, 20) }

	res, err := f.svc.Resync(context.Background(), it, false, ExpandOptions{})
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if res.Deleted != 4 {
		t.Errorf("expected all 4 rows deleted, got %d", res.Deleted)
	}
	// Window now starts at today, so only the future occurrences return.
	if got := f.store.countFor(it.ID); got != 2 {
		t.Errorf("expected 2 rows after full resync, got %d", got)
	}
}

// -- Bulk Creation Tests --

func TestBulkCreateItems(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	created, skipped, err := f.svc.BulkCreateItems(context.Background(), f.routine.ID, BulkItemParams{
		Title:     "Terapia Ocupacional",
		Weekdays:  []int16{0, 2, 4},
		StartTime: timePtr(14, 0),
		EndTime:   timePtr(15, 30),
	}, uuid.New())
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 3 || len(skipped) != 0 {
		t.Fatalf("expected 3 created / 0 skipped, got %d / %d", len(created), len(skipped))
	}
	for _, it := range created {
		if it.Periodicity != Weekly {
			t.Errorf("expected weekly periodicity, got %s", it.Periodicity)
		}
		if it.DurationSeconds == nil || *it.DurationSeconds != 5400 {
			t.Errorf("expected 5400s cached duration, got %v", it.DurationSeconds)
		}
	}
}

func TestBulkCreateItems_SkipsTwins(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	params := BulkItemParams{
		Title:     "Terapia Ocupacional",
		Weekdays:  []int16{0, 2},
		StartTime: timePtr(14, 0),
		EndTime:   timePtr(15, 30),
	}
	if _, _, err := f.svc.BulkCreateItems(context.Background(), f.routine.ID, params, uuid.New()); err != nil {
		t.Fatalf("first bulk create: %v", err)
	}

	params.Weekdays = []int16{0, 2, 4}
	created, skipped, err := f.svc.BulkCreateItems(context.Background(), f.routine.ID, params, uuid.New())
	if err != nil {
		t.Fatalf("second bulk create: %v", err)
	}
	if len(created) != 1 {
		t.Errorf("expected only Friday created, got %d items", len(created))
	}
	if len(skipped) != 2 {
		t.Errorf("expected Monday and Wednesday skipped, got %v", skipped)
	}
}

func TestBulkCreateItems_SkipsRepeatedWeekday(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	params := BulkItemParams{
		Title:     "Fonoaudiologia",
		Weekdays:  []int16{2, 2},
		StartTime: timePtr(9, 0),
		EndTime:   timePtr(10, 0),
	}
	created, skipped, err := f.svc.BulkCreateItems(context.Background(), f.routine.ID, params, uuid.New())
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 1 {
		t.Errorf("expected a single Wednesday item, got %d", len(created))
	}
	if len(skipped) != 1 || skipped[0] != 2 {
		t.Errorf("expected the repeat reported as skipped, got %v", skipped)
	}

	items, err := f.items.ListByRoutine(context.Background(), f.routine.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item in the routine, got %d", len(items))
	}
}

func TestBulkCreateItems_Validation(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		nil)

	cases := []struct {
		name   string
		params BulkItemParams
	}{
		{"missing title", BulkItemParams{Weekdays: []int16{0}, StartTime: timePtr(9, 0), EndTime: timePtr(10, 0)}},
		{"missing times", BulkItemParams{Title: "x", Weekdays: []int16{0}}},
		{"end before start", BulkItemParams{Title: "x", Weekdays: []int16{0}, StartTime: timePtr(10, 0), EndTime: timePtr(9, 0)}},
		{"empty weekdays", BulkItemParams{Title: "x", StartTime: timePtr(9, 0), EndTime: timePtr(10, 0)}},
		{"weekday out of range", BulkItemParams{Title: "x", Weekdays: []int16{7}, StartTime: timePtr(9, 0), EndTime: timePtr(10, 0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := f.svc.BulkCreateItems(context.Background(), f.routine.ID, tc.params, uuid.New()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// -- Deletion Tests --

func TestDeleteItem_CleanupFailureAborts(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		datePtr(2024, time.January, 31))

	it := &Item{RoutineID: f.routine.ID, Title: "Fonoaudiologia", Periodicity: Weekly, Weekday: weekdayPtr(2)}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}

	f.store.deleteErr = fmt.Errorf("storage down")
	if err := f.svc.DeleteItem(context.Background(), it.ID); err == nil {
		t.Fatal("expected delete to fail when cleanup fails")
	}
	if _, err := f.items.GetByID(context.Background(), it.ID); err != nil {
		t.Error("item must survive a failed cleanup")
	}
}

func TestCreateItem_RejectsInvertedTimes(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		nil)

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		StartTime:   timePtr(10, 0),
		EndTime:     timePtr(9, 0),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err == nil {
		t.Error("expected error for end before start")
	}
}

func TestCreateItem_CachesDuration(t *testing.T) {
	f := newFixture(t,
		civil.Date(2024, time.January, 1),
		civil.Date(2024, time.January, 10),
		nil)

	it := &Item{
		RoutineID:   f.routine.ID,
		Title:       "Fonoaudiologia",
		Periodicity: Weekly,
		StartTime:   timePtr(9, 0),
		EndTime:     timePtr(9, 45),
	}
	if err := f.svc.CreateItem(context.Background(), it, uuid.New()); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if it.DurationSeconds == nil || *it.DurationSeconds != 2700 {
		t.Errorf("expected 2700s cached, got %v", it.DurationSeconds)
	}
}
