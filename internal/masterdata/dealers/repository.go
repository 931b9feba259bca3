package dealers

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Dealer, int, error)
	Get(ctx context.Context, id uuid.UUID) (Dealer, error)
	Create(ctx context.Context, dealer Dealer) (Dealer, error)
	Update(ctx context.Context, dealer Dealer) (Dealer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const dealerColumns = `id, name, contact_person, email, phone, address, status, logo, created_at, updated_at`

func scanDealer(row pgx.Row) (Dealer, error) {
	var d Dealer
	err := row.Scan(&d.ID, &d.Name, &d.ContactPerson, &d.Email, &d.Phone, &d.Address, &d.Status, &d.Logo, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Dealer, int, error) {
	var where shared.Where
	if filters.Search != "" {
		s := "%" + filters.Search + "%"
		where.Add("(name ILIKE ? OR contact_person ILIKE ? OR email ILIKE ?)", s, s, s)
	}
	if filters.Status != "" {
		where.Add("status = ?", filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM dealers`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, shared.MapError("dealer", err)
	}

	query := `SELECT ` + dealerColumns + ` FROM dealers` + where.SQL() + ` ORDER BY name ASC`
	args := where.Args
	if filters.Limit > 0 {
		n := where.Next()
		query += ` LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
		args = append(args, filters.Limit, filters.Offset())
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapError("dealer", err)
	}
	defer rows.Close()

	var out []Dealer
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Dealer, error) {
	d, err := scanDealer(r.db.QueryRow(ctx, `SELECT `+dealerColumns+` FROM dealers WHERE id = $1`, id))
	return d, shared.MapError("dealer", err)
}

func (r *repository) Create(ctx context.Context, d Dealer) (Dealer, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	out, err := scanDealer(r.db.QueryRow(ctx, `
		INSERT INTO dealers (id, name, contact_person, email, phone, address, status, logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING `+dealerColumns,
		d.ID, d.Name, d.ContactPerson, d.Email, d.Phone, d.Address, d.Status, d.Logo))
	return out, shared.MapError("dealer", err)
}

func (r *repository) Update(ctx context.Context, d Dealer) (Dealer, error) {
	out, err := scanDealer(r.db.QueryRow(ctx, `
		UPDATE dealers SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6,
			status = $7, logo = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+dealerColumns,
		d.ID, d.Name, d.ContactPerson, d.Email, d.Phone, d.Address, d.Status, d.Logo))
	return out, shared.MapError("dealer", err)
}

// Delete leaves quotations owned by the dealer untouched.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dealers WHERE id = $1`, id)
	if err != nil {
		return shared.MapError("dealer", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError("dealer", pgx.ErrNoRows)
	}
	return nil
}
