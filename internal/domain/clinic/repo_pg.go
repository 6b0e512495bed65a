package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiagohfagundes/therapytrack/internal/platform/db"
)

// =========== Clinic Repository ===========

type clinicRepoPG struct{ pool *pgxpool.Pool }

func NewClinicRepoPG(pool *pgxpool.Pool) ClinicRepository { return &clinicRepoPG{pool: pool} }

func (r *clinicRepoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFor(ctx, r.pool)
}

const clinicCols = `id, name, address, phone, created_by, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var cl Clinic
	err := row.Scan(&cl.ID, &cl.Name, &cl.Address, &cl.Phone, &cl.CreatedBy, &cl.CreatedAt, &cl.UpdatedAt)
	return &cl, err
}

func (r *clinicRepoPG) Create(ctx context.Context, cl *Clinic) error {
	cl.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinic (id, name, address, phone, created_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		cl.ID, cl.Name, cl.Address, cl.Phone, cl.CreatedBy).Scan(&cl.CreatedAt, &cl.UpdatedAt)
}

func (r *clinicRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return scanClinic(r.conn(ctx).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinic WHERE id = $1`, id))
}

func (r *clinicRepoPG) Update(ctx context.Context, cl *Clinic) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinic SET name=$2, address=$3, phone=$4, updated_at=NOW()
		WHERE id = $1`,
		cl.ID, cl.Name, cl.Address, cl.Phone)
	return err
}

func (r *clinicRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM clinic WHERE id = $1`, id)
	return err
}

func (r *clinicRepoPG) List(ctx context.Context, q string, limit, offset int) ([]*Clinic, int, error) {
	where := ``
	var args []interface{}
	if q != "" {
		where = ` WHERE name ILIKE $1 OR address ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+q+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM clinic`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + clinicCols + ` FROM clinic` + where + ` ORDER BY name`
	if q != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		cl, err := scanClinic(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cl)
	}
	return items, total, rows.Err()
}

// =========== Professional Repository ===========

type professionalRepoPG struct{ pool *pgxpool.Pool }

func NewProfessionalRepoPG(pool *pgxpool.Pool) ProfessionalRepository {
	return &professionalRepoPG{pool: pool}
}

func (r *professionalRepoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFor(ctx, r.pool)
}

const professionalCols = `id, name, type, specialty, phone, email, clinic_id, created_by, created_at, updated_at`

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Specialty, &p.Phone, &p.Email,
		&p.ClinicID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *professionalRepoPG) Create(ctx context.Context, p *Professional) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO professional (id, name, type, specialty, phone, email, clinic_id, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Type, p.Specialty, p.Phone, p.Email, p.ClinicID, p.CreatedBy).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *professionalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return scanProfessional(r.conn(ctx).QueryRow(ctx, `SELECT `+professionalCols+` FROM professional WHERE id = $1`, id))
}

func (r *professionalRepoPG) Update(ctx context.Context, p *Professional) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE professional SET name=$2, type=$3, specialty=$4, phone=$5, email=$6, clinic_id=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Type, p.Specialty, p.Phone, p.Email, p.ClinicID)
	return err
}

func (r *professionalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM professional WHERE id = $1`, id)
	return err
}

func (r *professionalRepoPG) List(ctx context.Context, q string, limit, offset int) ([]*Professional, int, error) {
	where := ``
	var args []interface{}
	if q != "" {
		where = ` WHERE name ILIKE $1 OR specialty ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+q+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM professional`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + professionalCols + ` FROM professional` + where + ` ORDER BY name`
	if q != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *professionalRepoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Professional, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM professional WHERE clinic_id = $1`, clinicID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+professionalCols+` FROM professional WHERE clinic_id = $1 ORDER BY name LIMIT $2 OFFSET $3`, clinicID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
