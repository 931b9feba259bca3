package brands

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Brand, int, error)
	Get(ctx context.Context, id uuid.UUID) (Brand, error)
	Create(ctx context.Context, brand Brand) (Brand, error)
	Update(ctx context.Context, brand Brand) (Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetProductOrder(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error)
	SaveProductOrder(ctx context.Context, brandID uuid.UUID, productIDs []uuid.UUID) (ProductOrder, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const brandColumns = `id, name, description, status, logo, created_at, updated_at`

func scanBrand(row interface{ Scan(...any) error }) (Brand, error) {
	var b Brand
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Status, &b.Logo, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Brand, int, error) {
	var where shared.Where
	if filters.Search != "" {
		where.Add("name ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		where.Add("status = ?", filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM brands`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, shared.MapError("brand", err)
	}

	query := `SELECT ` + brandColumns + ` FROM brands` + where.SQL() + ` ORDER BY name ASC`
	args := where.Args
	if filters.Limit > 0 {
		n := where.Next()
		query += ` LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapError("brand", err)
	}
	defer rows.Close()

	var out []Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Brand, error) {
	b, err := scanBrand(r.db.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	return b, shared.MapError("brand", err)
}

func (r *repository) Create(ctx context.Context, brand Brand) (Brand, error) {
	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}
	b, err := scanBrand(r.db.QueryRow(ctx, `
		INSERT INTO brands (id, name, description, status, logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+brandColumns,
		brand.ID, brand.Name, brand.Description, brand.Status, brand.Logo))
	return b, shared.MapError("brand", err)
}

func (r *repository) Update(ctx context.Context, brand Brand) (Brand, error) {
	b, err := scanBrand(r.db.QueryRow(ctx, `
		UPDATE brands SET name = $2, description = $3, status = $4, logo = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+brandColumns,
		brand.ID, brand.Name, brand.Description, brand.Status, brand.Logo))
	return b, shared.MapError("brand", err)
}

// Delete leaves products referencing the brand untouched.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return shared.MapError("brand", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError("brand", pgx.ErrNoRows)
	}
	_, err = r.db.Exec(ctx, `DELETE FROM brand_product_orders WHERE brand_id = $1`, id)
	return shared.MapError("brand product order", err)
}

func (r *repository) GetProductOrder(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT product_ids FROM brand_product_orders WHERE brand_id = $1`, brandID).Scan(&ids)
	if err != nil {
		if db.IsNoRows(err) {
			return []uuid.UUID{}, nil
		}
		return nil, shared.MapError("brand product order", err)
	}
	return ids, nil
}

func (r *repository) SaveProductOrder(ctx context.Context, brandID uuid.UUID, productIDs []uuid.UUID) (ProductOrder, error) {
	order := ProductOrder{BrandID: brandID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO brand_product_orders (brand_id, product_ids, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (brand_id) DO UPDATE SET product_ids = EXCLUDED.product_ids, updated_at = NOW()
		RETURNING product_ids, updated_at`, brandID, productIDs).Scan(&order.ProductIDs, &order.UpdatedAt)
	return order, shared.MapError("brand product order", err)
}
