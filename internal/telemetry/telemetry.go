package telemetry

import (
	"context"

	"github.com/matthewwall/weewx-l7/internal/errors"
	"github.com/matthewwall/weewx-l7/internal/logger"
	"github.com/matthewwall/weewx-l7/internal/station"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation used when archiving is disabled
type noopArchiver struct{}

func NewService(cfg Config) (Archiver, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Record archiving disabled, using no-op archiver")
		return &noopArchiver{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Record archive initialized")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, rec *station.Record) error {
	errFactory := errors.New()

	if rec == nil {
		return errFactory.New(ErrInvalidRecord)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, rec); err != nil {
			return errFactory.Wrap(ErrArchiveFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}
	return nil
}

func (*noopArchiver) Record(_ context.Context, _ *station.Record) error {
	return nil
}

func (*noopArchiver) Close() error {
	return nil
}
