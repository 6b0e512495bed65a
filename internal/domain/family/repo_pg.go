package family

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiagohfagundes/therapytrack/internal/platform/db"
)

type childRepoPG struct{ pool *pgxpool.Pool }

func NewChildRepoPG(pool *pgxpool.Pool) ChildRepository { return &childRepoPG{pool: pool} }

func (r *childRepoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFor(ctx, r.pool)
}

const childCols = `id, name, condition, birth_date, contact_phone, owner_id, created_at, updated_at`

func scanChild(row pgx.Row) (*Child, error) {
	var ch Child
	err := row.Scan(&ch.ID, &ch.Name, &ch.Condition, &ch.BirthDate, &ch.ContactPhone,
		&ch.OwnerID, &ch.CreatedAt, &ch.UpdatedAt)
	return &ch, err
}

func (r *childRepoPG) Create(ctx context.Context, ch *Child) error {
	ch.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO child (id, name, condition, birth_date, contact_phone, owner_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		ch.ID, ch.Name, ch.Condition, ch.BirthDate, ch.ContactPhone, ch.OwnerID).
		Scan(&ch.CreatedAt, &ch.UpdatedAt)
}

func (r *childRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Child, error) {
	return scanChild(r.conn(ctx).QueryRow(ctx, `SELECT `+childCols+` FROM child WHERE id = $1`, id))
}

func (r *childRepoPG) Update(ctx context.Context, ch *Child) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE child SET name=$2, condition=$3, birth_date=$4, contact_phone=$5, updated_at=NOW()
		WHERE id = $1`,
		ch.ID, ch.Name, ch.Condition, ch.BirthDate, ch.ContactPhone)
	return err
}

func (r *childRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM child WHERE id = $1`, id)
	return err
}

func (r *childRepoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID, q string, limit, offset int) ([]*Child, int, error) {
	where := ` WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if q != "" {
		where += ` AND (name ILIKE $2 OR condition ILIKE $2 OR contact_phone ILIKE $2)`
		args = append(args, "%"+q+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM child`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + childCols + ` FROM child` + where + ` ORDER BY name`
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
	var items []*Child
	for rows.Next() {
		ch, err := scanChild(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ch)
	}
	return items, total, rows.Err()
}
