package templates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/platform/db"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context, search string, limit, offset int) ([]Template, int, error)
	Create(ctx context.Context, t Template) (uuid.UUID, error)
	Update(ctx context.Context, t Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return fmt.Errorf("quotation template: %w", httpx.ErrNotFound)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("quotation template already exists: %w", httpx.ErrDuplicate)
	default:
		return err
	}
}

const columns = `id, name, cover, proposal_note, closing_note, about_us, created_at, updated_at`

func scan(row pgx.Row) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Name, &t.Cover, &t.ProposalNote, &t.ClosingNote, &t.AboutUs, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	t, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM quotation_templates WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Template, int, error) {
	var args []any
	whereClause := ""
	if search != "" {
		whereClause = " WHERE name ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotation_templates`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT `+columns+` FROM quotation_templates%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Template
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, t Template) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO quotation_templates (id, name, cover, proposal_note, closing_note, about_us, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, id, t.Name, t.Cover, t.ProposalNote, t.ClosingNote, t.AboutUs)
	if err != nil {
		return uuid.Nil, mapError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, t Template) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quotation_templates
		SET name = $2, cover = $3, proposal_note = $4, closing_note = $5, about_us = $6, updated_at = NOW()
		WHERE id = $1
	`, t.ID, t.Name, t.Cover, t.ProposalNote, t.ClosingNote, t.AboutUs)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotation_templates WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}
