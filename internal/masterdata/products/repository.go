package products

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	ListPriceChanges(ctx context.Context, productID uuid.UUID) ([]PriceChange, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository is available inside WithTx.
type TxRepository interface {
	Ledger
	GetForUpdate(ctx context.Context, id uuid.UUID) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{q: tx})
	})
}

const productColumns = `p.id, p.name, p.sku, p.brand_id, b.name, p.category_id, p.function_id, p.description,
	p.price, p.is_por, p.price_history, p.images, p.main_image, p.status, p.created_at, p.updated_at`

const productFrom = ` FROM products p LEFT JOIN brands b ON b.id = p.brand_id`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.BrandID, &p.BrandName, &p.CategoryID, &p.FunctionID, &p.Description,
		&p.Price, &p.IsPOR, &p.PriceHistory, &p.Images, &p.MainImage, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if p.PriceHistory == nil {
		p.PriceHistory = []PricePoint{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	var where shared.Where
	if filters.Search != "" {
		s := "%" + filters.Search + "%"
		where.Add("(p.name ILIKE ? OR p.sku ILIKE ?)", s, s)
	}
	if filters.BrandID != nil {
		where.Add("p.brand_id = ?", *filters.BrandID)
	}
	if filters.CategoryID != nil {
		where.Add("p.category_id = ?", *filters.CategoryID)
	}
	if filters.FunctionID != nil {
		where.Add("p.function_id = ?", *filters.FunctionID)
	}
	if filters.Status != "" {
		where.Add("p.status = ?", filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, shared.MapError("product", err)
	}

	query := `SELECT ` + productColumns + productFrom + where.SQL() + ` ORDER BY p.name ASC, p.id ASC`
	args := where.Args
	if filters.Limit > 0 {
		n := where.Next()
		query += ` LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapError("product", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id))
	return p, shared.MapError("product", err)
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, sku, brand_id, category_id, function_id, description, price, is_por,
			price_history, images, main_image, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)`,
		p.ID, p.Name, p.SKU, p.BrandID, p.CategoryID, p.FunctionID, p.Description, p.Price, p.IsPOR,
		p.PriceHistory, p.Images, p.MainImage, p.Status, p.CreatedAt)
	if err != nil {
		return Product{}, shared.MapError("product", err)
	}
	return r.Get(ctx, p.ID)
}

// ListPriceChanges returns the ledger newest-effective first.
func (r *repository) ListPriceChanges(ctx context.Context, productID uuid.UUID) ([]PriceChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, price, is_por, note, effective_from, effective_to, created_at
		FROM price_changes WHERE product_id = $1
		ORDER BY effective_from DESC, created_at DESC`, productID)
	if err != nil {
		return nil, shared.MapError("price change", err)
	}
	defer rows.Close()

	out := []PriceChange{}
	for rows.Next() {
		var c PriceChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Price, &c.IsPOR, &c.Note, &c.EffectiveFrom, &c.EffectiveTo, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type txRepository struct {
	q db.DBTX
}

func (t *txRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(t.q.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1 FOR UPDATE OF p`, id))
	return p, shared.MapError("product", err)
}

func (t *txRepository) Update(ctx context.Context, p Product) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE products SET name = $2, sku = $3, brand_id = $4, category_id = $5, function_id = $6,
			description = $7, price = $8, is_por = $9, price_history = $10, images = $11, main_image = $12,
			status = $13, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.SKU, p.BrandID, p.CategoryID, p.FunctionID, p.Description, p.Price, p.IsPOR,
		p.PriceHistory, p.Images, p.MainImage, p.Status)
	if err != nil {
		return shared.MapError("product", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError("product", pgx.ErrNoRows)
	}
	return nil
}

func (t *txRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return shared.MapError("product", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.MapError("product", pgx.ErrNoRows)
	}
	_, err = t.q.Exec(ctx, `DELETE FROM price_changes WHERE product_id = $1`, id)
	return shared.MapError("price change", err)
}

// CloseOpenPriceChange ends the most recent open row of the product.
func (t *txRepository) CloseOpenPriceChange(ctx context.Context, productID uuid.UUID, at time.Time) error {
	_, err := t.q.Exec(ctx, `
		UPDATE price_changes SET effective_to = $2, updated_at = NOW()
		WHERE id = (
			SELECT id FROM price_changes
			WHERE product_id = $1 AND effective_to IS NULL
			ORDER BY effective_from DESC
			LIMIT 1
		)`, productID, at)
	return shared.MapError("price change", err)
}

func (t *txRepository) InsertPriceChange(ctx context.Context, c PriceChange) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO price_changes (id, product_id, price, is_por, note, effective_from, effective_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, NOW(), NOW())`,
		c.ID, c.ProductID, c.Price, c.IsPOR, c.Note, c.EffectiveFrom)
	return shared.MapError("price change", err)
}
