package companies

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/db"
)

type Repository interface {
	// Get returns the profile and false when none has been saved yet.
	Get(ctx context.Context) (Company, bool, error)
	Save(ctx context.Context, c Company) (Company, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, address, phone, email, website, tax_number, logo, created_at, updated_at`

func scan(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Website, &c.TaxNumber, &c.Logo, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) Get(ctx context.Context) (Company, bool, error) {
	c, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM companies ORDER BY created_at ASC LIMIT 1`))
	if db.IsNoRows(err) {
		return Company{}, false, nil
	}
	if err != nil {
		return Company{}, false, shared.MapError("company", err)
	}
	return c, true, nil
}

// Save upserts on id; a zero id inserts the first row.
func (r *repository) Save(ctx context.Context, c Company) (Company, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	out, err := scan(r.db.QueryRow(ctx, `
		INSERT INTO companies (id, name, address, phone, email, website, tax_number, logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
			email = EXCLUDED.email, website = EXCLUDED.website, tax_number = EXCLUDED.tax_number,
			logo = EXCLUDED.logo, updated_at = NOW()
		RETURNING `+columns,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.Website, c.TaxNumber, c.Logo))
	return out, shared.MapError("company", err)
}
