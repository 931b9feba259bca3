package lookups

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error)
	Get(ctx context.Context, id uuid.UUID) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db   *pgxpool.Pool
	kind Kind
}

// NewRepository binds a repository to the table of kind.
func NewRepository(db *pgxpool.Pool, kind Kind) Repository {
	return &repository{db: db, kind: kind}
}

const itemColumns = `id, name, description, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	var where shared.Where
	if filters.Search != "" {
		where.Add("name ILIKE ?", "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.kind.Table+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, shared.MapError(r.kind.Entity, err)
	}

	query := `SELECT ` + itemColumns + ` FROM ` + r.kind.Table + where.SQL() + ` ORDER BY name ASC`
	args := where.Args
	if filters.Limit > 0 {
		n := where.Next()
		query += ` LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
		args = append(args, filters.Limit, filters.Offset())
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapError(r.kind.Entity, err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM `+r.kind.Table+` WHERE id = $1`, id))
	return it, shared.MapError(r.kind.Entity, err)
}

func (r *repository) Create(ctx context.Context, it Item) (Item, error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	out, err := scanItem(r.db.QueryRow(ctx, `INSERT INTO `+r.kind.Table+` (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW()) RETURNING `+itemColumns, it.ID, it.Name, it.Description))
	return out, shared.MapError(r.kind.Entity, err)
}

func (r *repository) Update(ctx context.Context, it Item) (Item, error) {
	out, err := scanItem(r.db.QueryRow(ctx, `UPDATE `+r.kind.Table+` SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1 RETURNING `+itemColumns, it.ID, it.Name, it.Description))
	return out, shared.MapError(r.kind.Entity, err)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM `+r.kind.Table+` WHERE id = $1`, id)
	if err != nil {
		return shared.MapError(r.kind.Entity, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError(r.kind.Entity, pgx.ErrNoRows)
	}
	return nil
}
