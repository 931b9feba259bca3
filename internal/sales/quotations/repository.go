package quotations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/platform/db"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/sales/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error)
	Create(ctx context.Context, q Quotation) (uuid.UUID, error)
	Update(ctx context.Context, q Quotation) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return fmt.Errorf("quotation: %w", httpx.ErrNotFound)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("quotation number already exists: %w", httpx.ErrDuplicate)
	default:
		return err
	}
}

const columns = `id, quotation_number, dealer_id, client_id, template_id, client, status,
	areas, items, subtotal, tax, discount, total, valid_until, notes, created_at, updated_at`

func scan(row pgx.Row) (Quotation, error) {
	var q Quotation
	err := row.Scan(&q.ID, &q.QuotationNumber, &q.DealerID, &q.ClientID, &q.TemplateID, &q.Client, &q.Status,
		&q.Areas, &q.Items, &q.Subtotal, &q.Tax, &q.Discount, &q.Total, &q.ValidUntil, &q.Notes, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

// documents keeps NOT NULL jsonb columns from receiving SQL NULL for nil slices.
func documents(q Quotation) ([]shared.Area, []shared.Item) {
	areas, items := q.Areas, q.Items
	if areas == nil {
		areas = []shared.Area{}
	}
	for i := range areas {
		if areas[i].Items == nil {
			areas[i].Items = []shared.Item{}
		}
	}
	if items == nil {
		items = []shared.Item{}
	}
	return areas, items
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	q, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &q, nil
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	var conditions []string
	var args []any
	if req.DealerID != nil {
		args = append(args, *req.DealerID)
		conditions = append(conditions, fmt.Sprintf("dealer_id = $%d", len(args)))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(quotation_number ILIKE $%d OR client->>'name' ILIKE $%d)", len(args), len(args)))
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM quotations "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM quotations %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		columns, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		q, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (uuid.UUID, error) {
	id := uuid.New()
	areas, items := documents(q)
	_, err := r.db.Exec(ctx, `
		INSERT INTO quotations (id, quotation_number, dealer_id, client_id, template_id, client, status,
			areas, items, subtotal, tax, discount, total, valid_until, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`, id, q.QuotationNumber, q.DealerID, q.ClientID, q.TemplateID, q.Client, q.Status,
		areas, items, q.Subtotal, q.Tax, q.Discount, q.Total, q.ValidUntil, q.Notes)
	if err != nil {
		return uuid.Nil, mapError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, q Quotation) error {
	areas, items := documents(q)
	tag, err := r.db.Exec(ctx, `
		UPDATE quotations SET
			quotation_number = $2, dealer_id = $3, client_id = $4, template_id = $5, client = $6, status = $7,
			areas = $8, items = $9, subtotal = $10, tax = $11, discount = $12, total = $13,
			valid_until = $14, notes = $15, updated_at = NOW()
		WHERE id = $1
	`, q.ID, q.QuotationNumber, q.DealerID, q.ClientID, q.TemplateID, q.Client, q.Status,
		areas, items, q.Subtotal, q.Tax, q.Discount, q.Total, q.ValidUntil, q.Notes)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

// GenerateNumber allocates the next QT-YYYYMM-NNNN number for date's month.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, "QT", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%s-%04d", period, seq), nil
}
