package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/platform/db"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]Client, int, error)
	Create(ctx context.Context, client Client) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

// updatable lists the columns Update accepts, in SET order.
var updatable = []string{"name", "email", "phone", "address", "notes"}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return fmt.Errorf("client: %w", httpx.ErrNotFound)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("client already exists: %w", httpx.ErrDuplicate)
	default:
		return err
	}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	var c Client
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, address, notes, created_at, updated_at
		FROM clients WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	var args []any
	whereClause := ""
	if req.Search != "" {
		whereClause = "WHERE (name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)"
		args = append(args, "%"+req.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM clients "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, address, notes, created_at, updated_at
		FROM clients
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Client) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO clients (id, name, email, phone, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, id, c.Name, c.Email, c.Phone, c.Address, c.Notes)
	if err != nil {
		return uuid.Nil, mapError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	for _, col := range updatable {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	tag, err := r.db.Exec(ctx, "UPDATE clients SET "+strings.Join(sets, ", ")+" WHERE id = $1", args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}
