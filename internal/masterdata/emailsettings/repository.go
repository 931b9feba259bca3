package emailsettings

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/db"
)

type Repository interface {
	Get(ctx context.Context) (Setting, bool, error)
	Save(ctx context.Context, s Setting) (Setting, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, smtp_host, smtp_port, username, password, from_name, from_email, secure, created_at, updated_at`

func scan(row pgx.Row) (Setting, error) {
	var s Setting
	err := row.Scan(&s.ID, &s.SMTPHost, &s.SMTPPort, &s.Username, &s.Password, &s.FromName, &s.FromEmail, &s.Secure, &s.CreatedAt, &s.UpdatedAt)
	s.HasPassword = s.Password != ""
	return s, err
}

func (r *repository) Get(ctx context.Context) (Setting, bool, error) {
	s, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM email_settings ORDER BY created_at ASC LIMIT 1`))
	if db.IsNoRows(err) {
		return Setting{SMTPPort: DefaultPort, Secure: true}, false, nil
	}
	if err != nil {
		return Setting{}, false, shared.MapError("email settings", err)
	}
	return s, true, nil
}

func (r *repository) Save(ctx context.Context, s Setting) (Setting, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	out, err := scan(r.db.QueryRow(ctx, `
		INSERT INTO email_settings (id, smtp_host, smtp_port, username, password, from_name, from_email, secure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			smtp_host = EXCLUDED.smtp_host, smtp_port = EXCLUDED.smtp_port, username = EXCLUDED.username,
			password = EXCLUDED.password, from_name = EXCLUDED.from_name, from_email = EXCLUDED.from_email,
			secure = EXCLUDED.secure, updated_at = NOW()
		RETURNING `+columns,
		s.ID, s.SMTPHost, s.SMTPPort, s.Username, s.Password, s.FromName, s.FromEmail, s.Secure))
	return out, shared.MapError("email settings", err)
}
