package agenda

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

var errBothTimesRequired = errors.New("start and end times are required")

// Directory resolves clinic and professional references to display
// labels for the period aggregator.
type Directory interface {
	ClinicNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	ProfessionalTypeLabels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type Service struct {
	appts AppointmentRepository
	dir   Directory

	gridStartHour int
	gridEndHour   int
	defaultType   string
	now           func() time.Time
}

func NewService(appts AppointmentRepository, dir Directory, gridStartHour, gridEndHour int, defaultType string) *Service {
	return &Service{
		appts:         appts,
		dir:           dir,
		gridStartHour: gridStartHour,
		gridEndHour:   gridEndHour,
		defaultType:   defaultType,
		now:           time.Now,
	}
}

// -- Appointment CRUD --

// CreateAppointment registers a manual appointment. Both clock times
// are required and the duration is derived from them.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment, actor uuid.UUID) error {
	if a.Type == "" {
		a.Type = s.defaultType
	}
	if err := a.Validate(); err != nil {
		return err
	}
	dur, ok := civil.Elapsed(a.StartTime, a.EndTime)
	if !ok {
		return errBothTimesRequired
	}
	sec := int64(dur / time.Second)
	a.DurationSeconds = &sec
	a.Date = civil.DateOf(a.Date)
	a.CreatedBy = actor
	a.AttendanceConfirmed = false
	a.OriginItemID = nil
	return s.appts.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if dur, ok := civil.Elapsed(a.StartTime, a.EndTime); ok {
		sec := int64(dur / time.Second)
		a.DurationSeconds = &sec
	}
	a.Date = civil.DateOf(a.Date)
	return s.appts.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appts.Delete(ctx, id)
}

func (s *Service) SetAttendance(ctx context.Context, id uuid.UUID, confirmed bool) error {
	return s.appts.SetAttendance(ctx, id, confirmed)
}

func (s *Service) ListByChild(ctx context.Context, childID uuid.UUID, q string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByChild(ctx, childID, q, limit, offset)
}

// -- Read-side views --

// WeekGrid renders a child's week around ref as the hourly grid.
func (s *Service) WeekGrid(ctx context.Context, childID uuid.UUID, ref time.Time) (*WeekGrid, error) {
	monday := civil.MondayOf(ref)
	appts, err := s.appts.ListByChildBetween(ctx, childID, monday, monday.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	return BuildWeekGrid(ref, appts, s.gridStartHour, s.gridEndHour), nil
}

// MonthSummary aggregates a child's calendar month.
func (s *Service) MonthSummary(ctx context.Context, childID uuid.UUID, year int, month time.Month) (*Summary, error) {
	from := civil.Date(year, month, 1)
	to := civil.Date(year, month, civil.LastDayOfMonth(year, month))
	appts, err := s.appts.ListByChildBetween(ctx, childID, from, to)
	if err != nil {
		return nil, err
	}

	var clinicIDs, proIDs []uuid.UUID
	seenClinic := map[uuid.UUID]bool{}
	seenPro := map[uuid.UUID]bool{}
	for _, a := range appts {
		if a.ClinicID != nil && !seenClinic[*a.ClinicID] {
			seenClinic[*a.ClinicID] = true
			clinicIDs = append(clinicIDs, *a.ClinicID)
		}
		if a.ProfessionalID != nil && !seenPro[*a.ProfessionalID] {
			seenPro[*a.ProfessionalID] = true
			proIDs = append(proIDs, *a.ProfessionalID)
		}
	}

	clinicNames, err := s.dir.ClinicNames(ctx, clinicIDs)
	if err != nil {
		return nil, err
	}
	typeLabels, err := s.dir.ProfessionalTypeLabels(ctx, proIDs)
	if err != nil {
		return nil, err
	}

	return Summarize(s.now(), appts, clinicNames, typeLabels), nil
}
