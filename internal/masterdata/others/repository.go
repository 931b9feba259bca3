package others

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

type Repository interface {
	ListBrands(ctx context.Context, filters shared.ListFilters) ([]OtherBrand, int, error)
	GetBrand(ctx context.Context, id uuid.UUID) (OtherBrand, error)
	CreateBrand(ctx context.Context, b OtherBrand) (OtherBrand, error)
	UpdateBrand(ctx context.Context, b OtherBrand) (OtherBrand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, filters shared.ListFilters) ([]OtherProduct, int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (OtherProduct, error)
	CreateProduct(ctx context.Context, p OtherProduct) (OtherProduct, error)
	UpdateProduct(ctx context.Context, p OtherProduct) (OtherProduct, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func paginate(query string, where *shared.Where, filters shared.ListFilters) (string, []any) {
	args := where.Args
	if filters.Limit > 0 {
		n := where.Next()
		query += ` LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
		args = append(args, filters.Limit, filters.Offset())
	}
	return query, args
}

// ============================================================================
// OTHER BRANDS
// ============================================================================

const brandColumns = `id, name, description, status, logo, created_at, updated_at`

func scanBrand(row pgx.Row) (OtherBrand, error) {
	var b OtherBrand
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Status, &b.Logo, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) ListBrands(ctx context.Context, filters shared.ListFilters) ([]OtherBrand, int, error) {
	var where shared.Where
	if filters.Search != "" {
		where.Add("name ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		where.Add("status = ?", filters.Status)
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM other_brands`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, shared.MapError("other brand", err)
	}
	query, args := paginate(`SELECT `+brandColumns+` FROM other_brands`+where.SQL()+` ORDER BY name ASC`, &where, filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapError("other brand", err)
	}
	defer rows.Close()
	var out []OtherBrand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repository) GetBrand(ctx context.Context, id uuid.UUID) (OtherBrand, error) {
	b, err := scanBrand(r.db.QueryRow(ctx, `SELECT `+brandColumns+` FROM other_brands WHERE id = $1`, id))
	return b, shared.MapError("other brand", err)
}

func (r *repository) CreateBrand(ctx context.Context, b OtherBrand) (OtherBrand, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	out, err := scanBrand(r.db.QueryRow(ctx, `
		INSERT INTO other_brands (id, name, description, status, logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING `+brandColumns,
		b.ID, b.Name, b.Description, b.Status, b.Logo))
	return out, shared.MapError("other brand", err)
}

func (r *repository) UpdateBrand(ctx context.Context, b OtherBrand) (OtherBrand, error) {
	out, err := scanBrand(r.db.QueryRow(ctx, `
		UPDATE other_brands SET name = $2, description = $3, status = $4, logo = $5, updated_at = NOW()
		WHERE id = $1 RETURNING `+brandColumns,
		b.ID, b.Name, b.Description, b.Status, b.Logo))
	return out, shared.MapError("other brand", err)
}

func (r *repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM other_brands WHERE id = $1`, id)
	if err != nil {
		return shared.MapError("other brand", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError("other brand", pgx.ErrNoRows)
	}
	return nil
}

// ============================================================================
// OTHER PRODUCTS
// ============================================================================

const productColumns = `p.id, p.name, p.other_brand_id, b.name, p.description, p.price, p.image, p.created_at, p.updated_at`

const productFrom = ` FROM other_products p LEFT JOIN other_brands b ON b.id = p.other_brand_id`

func scanProduct(row pgx.Row) (OtherProduct, error) {
	var p OtherProduct
	err := row.Scan(&p.ID, &p.Name, &p.OtherBrandID, &p.OtherBrandName, &p.Description, &p.Price, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) ListProducts(ctx context.Context, filters shared.ListFilters) ([]OtherProduct, int, error) {
	var where shared.Where
	if filters.Search != "" {
		where.Add("p.name ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.BrandID != nil {
		where.Add("p.other_brand_id = ?", *filters.BrandID)
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM other_products p`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, shared.MapError("other product", err)
	}
	query, args := paginate(`SELECT `+productColumns+productFrom+where.SQL()+` ORDER BY p.name ASC`, &where, filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapError("other product", err)
	}
	defer rows.Close()
	var out []OtherProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) GetProduct(ctx context.Context, id uuid.UUID) (OtherProduct, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id))
	return p, shared.MapError("other product", err)
}

func (r *repository) CreateProduct(ctx context.Context, p OtherProduct) (OtherProduct, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO other_products (id, name, other_brand_id, description, price, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		p.ID, p.Name, p.OtherBrandID, p.Description, p.Price, p.Image)
	if err != nil {
		return OtherProduct{}, shared.MapError("other product", err)
	}
	return r.GetProduct(ctx, p.ID)
}

func (r *repository) UpdateProduct(ctx context.Context, p OtherProduct) (OtherProduct, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE other_products SET name = $2, other_brand_id = $3, description = $4, price = $5, image = $6, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.OtherBrandID, p.Description, p.Price, p.Image)
	if err != nil {
		return OtherProduct{}, shared.MapError("other product", err)
	}
	if tag.RowsAffected() == 0 {
		return OtherProduct{}, shared.MapError("other product", pgx.ErrNoRows)
	}
	return r.GetProduct(ctx, p.ID)
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM other_products WHERE id = $1`, id)
	if err != nil {
		return shared.MapError("other product", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError("other product", pgx.ErrNoRows)
	}
	return nil
}
