package routine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/thiagohfagundes/therapytrack/internal/platform/db"
	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

// ExpandOptions tunes one expansion run. The zero value gives the
// standard behavior: start clamped to today, the configured horizon,
// and the duplicate guard on.
type ExpandOptions struct {
	// HorizonDays bounds the window when the routine has no end date.
	// Zero means the service default.
	HorizonDays int
	// Retroactive generates occurrences before today instead of
	// clamping the window's start.
	Retroactive bool
	// AllowDuplicateExpansion disables the duplicate guard, so a
	// re-run materializes every date again.
	AllowDuplicateExpansion bool
}

// ExpandResult reports what one expansion run did.
type ExpandResult struct {
	Created int       `json:"created"`
	Skipped int       `json:"skipped"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// ResyncResult reports a delete-then-expand run.
type ResyncResult struct {
	Deleted int64     `json:"deleted"`
	Created int       `json:"created"`
	Skipped int       `json:"skipped"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// BulkItemParams is one multi-weekday submission, fanned out into one
// item per selected weekday.
type BulkItemParams struct {
	Title          string           `json:"title"`
	Description    *string          `json:"description,omitempty"`
	Periodicity    Periodicity      `json:"periodicity"`
	Weekdays       []int16          `json:"weekdays"`
	StartTime      *civil.TimeOfDay `json:"start_time"`
	EndTime        *civil.TimeOfDay `json:"end_time"`
	ProfessionalID *uuid.UUID       `json:"professional_id,omitempty"`
	ClinicID       *uuid.UUID       `json:"clinic_id,omitempty"`
}

type Service struct {
	routines RoutineRepository
	items    ItemRepository
	appts    AppointmentStore
	pool     *pgxpool.Pool

	horizonDays int
	defaultType string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewService wires the expansion engine. pool may be nil in tests, in
// which case operations run without transactional guarantees.
func NewService(routines RoutineRepository, items ItemRepository, appts AppointmentStore, pool *pgxpool.Pool, horizonDays int, defaultType string, logger zerolog.Logger) *Service {
	return &Service{
		routines:    routines,
		items:       items,
		appts:       appts,
		pool:        pool,
		horizonDays: horizonDays,
		defaultType: defaultType,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.RunInTx(ctx, s.pool, fn)
}

// -- Routine CRUD --

func (s *Service) CreateRoutine(ctx context.Context, rt *Routine, actor uuid.UUID) error {
	if rt.ChildID == uuid.Nil {
		return fmt.Errorf("child_id is required")
	}
	if rt.StartDate.IsZero() {
		rt.StartDate = civil.DateOf(s.now())
	} else {
		rt.StartDate = civil.DateOf(rt.StartDate)
	}
	if rt.EndDate != nil {
		end := civil.DateOf(*rt.EndDate)
		if end.Before(rt.StartDate) {
			return fmt.Errorf("end date must not be before start date")
		}
		rt.EndDate = &end
	}
	rt.CreatedBy = actor
	return s.routines.Create(ctx, rt)
}

func (s *Service) GetRoutine(ctx context.Context, id uuid.UUID) (*Routine, error) {
	return s.routines.GetByID(ctx, id)
}

func (s *Service) UpdateRoutine(ctx context.Context, rt *Routine) error {
	if rt.EndDate != nil && rt.EndDate.Before(rt.StartDate) {
		return fmt.Errorf("end date must not be before start date")
	}
	return s.routines.Update(ctx, rt)
}

func (s *Service) DeleteRoutine(ctx context.Context, id uuid.UUID) error {
	// Items cascade in the schema; their future appointments are
	// cleaned up first so no orphan occurrences survive the routine.
	return s.inTx(ctx, func(ctx context.Context) error {
		items, err := s.items.ListByRoutine(ctx, id)
		if err != nil {
			return err
		}
		today := civil.DateOf(s.now())
		for _, it := range items {
			if _, err := s.appts.DeleteByOriginItem(ctx, it.ID, &today); err != nil {
				return fmt.Errorf("clean up item %s: %w", it.ID, err)
			}
		}
		return s.routines.Delete(ctx, id)
	})
}

func (s *Service) ListRoutinesByChild(ctx context.Context, childID uuid.UUID, limit, offset int) ([]*Routine, int, error) {
	return s.routines.ListByChild(ctx, childID, limit, offset)
}

// -- Item CRUD --

func (s *Service) CreateItem(ctx context.Context, it *Item, actor uuid.UUID) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if _, err := s.routines.GetByID(ctx, it.RoutineID); err != nil {
		return fmt.Errorf("routine not found")
	}
	cacheDuration(it)
	it.CreatedBy = actor
	return s.items.Create(ctx, it)
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.items.GetByID(ctx, id)
}

// UpdateItem persists the edit and resyncs the item's future
// occurrences so the agenda reflects the new schedule.
func (s *Service) UpdateItem(ctx context.Context, it *Item) (*ResyncResult, error) {
	if err := it.Validate(); err != nil {
		return nil, err
	}
	it.DurationSeconds = nil
	cacheDuration(it)

	var res *ResyncResult
	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.items.Update(ctx, it); err != nil {
			return err
		}
		var err error
		res, err = s.Resync(ctx, it, true, ExpandOptions{})
		return err
	})
	return res, err
}

// DeleteItem removes the item's future appointments, then the item
// itself. A cleanup failure aborts the delete.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		today := civil.DateOf(s.now())
		if _, err := s.appts.DeleteByOriginItem(ctx, id, &today); err != nil {
			return fmt.Errorf("remove generated appointments: %w", err)
		}
		return s.items.Delete(ctx, id)
	})
}

func (s *Service) ListItems(ctx context.Context, routineID uuid.UUID) ([]*Item, error) {
	return s.items.ListByRoutine(ctx, routineID)
}

// -- Expansion --

// Expand materializes one appointment per occurrence of the item inside
// the effective window. The whole run commits or rolls back as a unit.
func (s *Service) Expand(ctx context.Context, it *Item, opts ExpandOptions) (*ExpandResult, error) {
	rt, err := s.routines.GetByID(ctx, it.RoutineID)
	if err != nil {
		return nil, fmt.Errorf("routine not found")
	}

	today := civil.DateOf(s.now())
	start := civil.DateOf(rt.StartDate)
	if !opts.Retroactive && today.After(start) {
		start = today
	}

	horizon := opts.HorizonDays
	if horizon <= 0 {
		horizon = s.horizonDays
	}
	var end time.Time
	if rt.EndDate != nil {
		end = civil.DateOf(*rt.EndDate)
	} else {
		end = start.AddDate(0, 0, horizon)
	}

	weekday := civil.WeekdayIndex(start.Weekday())
	if it.Periodicity.NeedsWeekday() && it.Weekday != nil {
		weekday = int(*it.Weekday)
	}

	var durSec *int64
	if d, ok := it.Duration(); ok {
		sec := int64(d / time.Second)
		durSec = &sec
	}

	rule := &Rule{Start: start, End: end, Periodicity: it.Periodicity, Weekday: weekday}
	res := &ExpandResult{From: start, To: end}

	err = s.inTx(ctx, func(ctx context.Context) error {
		existing := map[time.Time]bool{}
		if !opts.AllowDuplicateExpansion {
			var err error
			existing, err = s.appts.DatesByOriginItem(ctx, it.ID)
			if err != nil {
				return err
			}
		}

		var batch []*GeneratedAppointment
		for date, ok := rule.Next(); ok; date, ok = rule.Next() {
			if existing[date] {
				res.Skipped++
				continue
			}
			batch = append(batch, &GeneratedAppointment{
				Title:           it.Title,
				Description:     it.Description,
				Type:            s.defaultType,
				Date:            date,
				StartTime:       it.StartTime,
				EndTime:         it.EndTime,
				DurationSeconds: durSec,
				ProfessionalID:  it.ProfessionalID,
				ClinicID:        it.ClinicID,
				ChildID:         rt.ChildID,
				CreatedBy:       it.CreatedBy,
				OriginItemID:    it.ID,
			})
		}
		if len(batch) == 0 {
			return nil
		}
		if err := s.appts.CreateGenerated(ctx, batch); err != nil {
			return err
		}
		res.Created = len(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("item_id", it.ID.String()).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("routine item expanded")
	return res, nil
}

// Resync deletes the item's generated appointments (future ones only
// when keepPast) and expands again, as a single transaction.
func (s *Service) Resync(ctx context.Context, it *Item, keepPast bool, opts ExpandOptions) (*ResyncResult, error) {
	res := &ResyncResult{}
	err := s.inTx(ctx, func(ctx context.Context) error {
		var from *time.Time
		if keepPast {
			today := civil.DateOf(s.now())
			from = &today
		}
		deleted, err := s.appts.DeleteByOriginItem(ctx, it.ID, from)
		if err != nil {
			return err
		}
		res.Deleted = deleted

		exp, err := s.Expand(ctx, it, opts)
		if err != nil {
			return err
		}
		res.Created = exp.Created
		res.Skipped = exp.Skipped
		res.From = exp.From
		res.To = exp.To
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// BulkCreateItems fans one submission into an item per weekday,
// skipping weekdays that already have an identical schedule in the
// routine or repeat within the submission. Expansion is the caller's
// job.
func (s *Service) BulkCreateItems(ctx context.Context, routineID uuid.UUID, params BulkItemParams, actor uuid.UUID) ([]*Item, []int16, error) {
	if params.Title == "" {
		return nil, nil, fmt.Errorf("title is required")
	}
	if params.StartTime == nil || params.EndTime == nil {
		return nil, nil, fmt.Errorf("start and end times are required")
	}
	if *params.EndTime <= *params.StartTime {
		return nil, nil, fmt.Errorf("end time must be after start time")
	}
	if len(params.Weekdays) == 0 {
		return nil, nil, fmt.Errorf("select at least one weekday")
	}
	for _, wd := range params.Weekdays {
		if wd < 0 || wd > 6 {
			return nil, nil, fmt.Errorf("weekday must be between 0 (Monday) and 6 (Sunday)")
		}
	}
	periodicity := params.Periodicity
	if periodicity == "" {
		periodicity = Weekly
	}
	if !periodicity.Valid() {
		return nil, nil, fmt.Errorf("invalid periodicity: %s", periodicity)
	}

	if _, err := s.routines.GetByID(ctx, routineID); err != nil {
		return nil, nil, fmt.Errorf("routine not found")
	}

	dur, _ := civil.Elapsed(params.StartTime, params.EndTime)
	durSec := int64(dur / time.Second)

	var created []*Item
	var skipped []int16
	err := s.inTx(ctx, func(ctx context.Context) error {
		existing, err := s.items.ListByRoutine(ctx, routineID)
		if err != nil {
			return err
		}
		twins := make(map[int16]bool)
		for _, it := range existing {
			if it.Weekday == nil || it.StartTime == nil || it.EndTime == nil {
				continue
			}
			if *it.StartTime == *params.StartTime && *it.EndTime == *params.EndTime {
				twins[*it.Weekday] = true
			}
		}

		for _, wd := range params.Weekdays {
			if twins[wd] {
				skipped = append(skipped, wd)
				continue
			}
			weekday := wd
			sec := durSec
			it := &Item{
				RoutineID:       routineID,
				Title:           params.Title,
				Description:     params.Description,
				Periodicity:     periodicity,
				Weekday:         &weekday,
				StartTime:       params.StartTime,
				EndTime:         params.EndTime,
				DurationSeconds: &sec,
				ProfessionalID:  params.ProfessionalID,
				ClinicID:        params.ClinicID,
				CreatedBy:       actor,
			}
			if err := s.items.Create(ctx, it); err != nil {
				return err
			}
			twins[wd] = true
			created = append(created, it)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, skipped, nil
}

// cacheDuration fills the cached duration from the clock times when
// both are present.
func cacheDuration(it *Item) {
	if it.DurationSeconds != nil {
		return
	}
	if d, ok := civil.Elapsed(it.StartTime, it.EndTime); ok {
		sec := int64(d / time.Second)
		it.DurationSeconds = &sec
	}
}
