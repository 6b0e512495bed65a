package routine

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiagohfagundes/therapytrack/internal/platform/db"
)

// =========== Routine Repository ===========

type routineRepoPG struct{ pool *pgxpool.Pool }

func NewRoutineRepoPG(pool *pgxpool.Pool) RoutineRepository { return &routineRepoPG{pool: pool} }

func (r *routineRepoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFor(ctx, r.pool)
}

const routineCols = `id, name, description, child_id, start_date, end_date, created_by, created_at, updated_at`

func scanRoutine(row pgx.Row) (*Routine, error) {
	var rt Routine
	err := row.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.ChildID, &rt.StartDate, &rt.EndDate,
		&rt.CreatedBy, &rt.CreatedAt, &rt.UpdatedAt)
	return &rt, err
}

func (r *routineRepoPG) Create(ctx context.Context, rt *Routine) error {
	rt.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO routine (id, name, description, child_id, start_date, end_date, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		rt.ID, rt.Name, rt.Description, rt.ChildID, rt.StartDate, rt.EndDate, rt.CreatedBy).
		Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

func (r *routineRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Routine, error) {
	return scanRoutine(r.conn(ctx).QueryRow(ctx, `SELECT `+routineCols+` FROM routine WHERE id = $1`, id))
}

func (r *routineRepoPG) Update(ctx context.Context, rt *Routine) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE routine SET name=$2, description=$3, start_date=$4, end_date=$5, updated_at=NOW()
		WHERE id = $1`,
		rt.ID, rt.Name, rt.Description, rt.StartDate, rt.EndDate)
	return err
}

func (r *routineRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM routine WHERE id = $1`, id)
	return err
}

func (r *routineRepoPG) ListByChild(ctx context.Context, childID uuid.UUID, limit, offset int) ([]*Routine, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM routine WHERE child_id = $1`, childID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+routineCols+` FROM routine WHERE child_id = $1 ORDER BY start_date DESC LIMIT $2 OFFSET $3`, childID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Routine
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rt)
	}
	return items, total, rows.Err()
}

// =========== Item Repository ===========

type itemRepoPG struct{ pool *pgxpool.Pool }

func NewItemRepoPG(pool *pgxpool.Pool) ItemRepository { return &itemRepoPG{pool: pool} }

func (r *itemRepoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFor(ctx, r.pool)
}

const itemCols = `id, routine_id, title, description, periodicity, weekday, start_time, end_time,
	duration_seconds, professional_id, clinic_id, created_by, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.RoutineID, &it.Title, &it.Description, &it.Periodicity, &it.Weekday,
		&it.StartTime, &it.EndTime, &it.DurationSeconds, &it.ProfessionalID, &it.ClinicID,
		&it.CreatedBy, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *itemRepoPG) Create(ctx context.Context, it *Item) error {
	it.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO routine_item (id, routine_id, title, description, periodicity, weekday,
			start_time, end_time, duration_seconds, professional_id, clinic_id, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		it.ID, it.RoutineID, it.Title, it.Description, it.Periodicity, it.Weekday,
		it.StartTime, it.EndTime, it.DurationSeconds, it.ProfessionalID, it.ClinicID, it.CreatedBy).
		Scan(&it.CreatedAt, &it.UpdatedAt)
}

func (r *itemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+itemCols+` FROM routine_item WHERE id = $1`, id))
}

func (r *itemRepoPG) Update(ctx context.Context, it *Item) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE routine_item SET title=$2, description=$3, periodicity=$4, weekday=$5,
			start_time=$6, end_time=$7, duration_seconds=$8, professional_id=$9, clinic_id=$10,
			updated_at=NOW()
		WHERE id = $1`,
		it.ID, it.Title, it.Description, it.Periodicity, it.Weekday,
		it.StartTime, it.EndTime, it.DurationSeconds, it.ProfessionalID, it.ClinicID)
	return err
}

func (r *itemRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM routine_item WHERE id = $1`, id)
	return err
}

func (r *itemRepoPG) ListByRoutine(ctx context.Context, routineID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM routine_item WHERE routine_id = $1 ORDER BY weekday NULLS LAST, start_time NULLS LAST, title`, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
