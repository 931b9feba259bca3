package emailsettings

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context) (Setting, error) {
	st, _, err := s.repo.Get(ctx)
	return st, err
}

func (s *Service) Save(ctx context.Context, in SettingInput) (Setting, error) {
	existing, _, err := s.repo.Get(ctx)
	if err != nil {
		return Setting{}, err
	}
	next := existing
	if err := in.apply(&next); err != nil {
		return Setting{}, err
	}
	if err := validate(next); err != nil {
		return Setting{}, err
	}
	saved, err := s.repo.Save(ctx, next)
	if err != nil {
		return Setting{}, err
	}
	s.logger.Info("email settings saved", slog.String("host", saved.SMTPHost), slog.Int("port", saved.SMTPPort))
	return saved, nil
}
