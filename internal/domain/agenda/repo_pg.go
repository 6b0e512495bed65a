package agenda

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiagohfagundes/therapytrack/internal/platform/db"
	"github.com/thiagohfagundes/therapytrack/pkg/civil"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFor(ctx, r.pool)
}

const apptCols = `id, title, description, type, date, start_time, end_time, duration_seconds,
	professional_id, clinic_id, child_id, notes, attendance_confirmed, created_by, origin_item_id,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Type, &a.Date, &a.StartTime, &a.EndTime,
		&a.DurationSeconds, &a.ProfessionalID, &a.ClinicID, &a.ChildID, &a.Notes,
		&a.AttendanceConfirmed, &a.CreatedBy, &a.OriginItemID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Date = civil.DateOf(a.Date)
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (id, title, description, type, date, start_time, end_time,
			duration_seconds, professional_id, clinic_id, child_id, notes, attendance_confirmed,
			created_by, origin_item_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Description, a.Type, a.Date, a.StartTime, a.EndTime,
		a.DurationSeconds, a.ProfessionalID, a.ClinicID, a.ChildID, a.Notes, a.AttendanceConfirmed,
		a.CreatedBy, a.OriginItemID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) CreateBatch(ctx context.Context, appts []*Appointment) error {
	for _, a := range appts {
		if err := r.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET title=$2, description=$3, type=$4, date=$5, start_time=$6,
			end_time=$7, duration_seconds=$8, professional_id=$9, clinic_id=$10, notes=$11,
			attendance_confirmed=$12, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Title, a.Description, a.Type, a.Date, a.StartTime, a.EndTime,
		a.DurationSeconds, a.ProfessionalID, a.ClinicID, a.Notes, a.AttendanceConfirmed)
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *appointmentRepoPG) SetAttendance(ctx context.Context, id uuid.UUID, confirmed bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE appointment SET attendance_confirmed=$2, updated_at=NOW() WHERE id = $1`, id, confirmed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepoPG) ListByChildBetween(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE child_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time NULLS FIRST, end_time NULLS FIRST, title`,
		childID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) ListByChild(ctx context.Context, childID uuid.UUID, q string, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE child_id = $1`
	args := []interface{}{childID}
	if q != "" {
		where += ` AND (title ILIKE $2 OR type ILIKE $2 OR notes ILIKE $2)`
		args = append(args, "%"+q+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + ` FROM appointment` + where + ` ORDER BY date DESC, start_time NULLS FIRST`
	if q != "" {
		query += ` LIMIT $3 OFFSET $4`
	} else {
		query += ` LIMIT $2 OFFSET $3`
	}
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *appointmentRepoPG) DatesByOriginItem(ctx context.Context, itemID uuid.UUID) (map[time.Time]bool, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT date FROM appointment WHERE origin_item_id = $1`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dates := make(map[time.Time]bool)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates[civil.DateOf(d)] = true
	}
	return dates, rows.Err()
}

func (r *appointmentRepoPG) DeleteByOriginItem(ctx context.Context, itemID uuid.UUID, from *time.Time) (int64, error) {
	if from != nil {
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE origin_item_id = $1 AND date >= $2`, itemID, *from)
		return tag.RowsAffected(), err
	}
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE origin_item_id = $1`, itemID)
	return tag.RowsAffected(), err
}
