package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/matthewwall/weewx-l7/internal/errors"
	"github.com/matthewwall/weewx-l7/internal/logger"
	"github.com/matthewwall/weewx-l7/internal/station"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, rec *station.Record) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing record archive at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, rec *station.Record) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO records (timestamp, units, field, value)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(timestamp, field) DO UPDATE SET
            units = excluded.units,
            value = excluded.value
    `)
	if err != nil {
		tx.Rollback()
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer stmt.Close()

	ts := rec.DateTime.Unix()
	for field, value := range rec.Values {
		if _, err := stmt.ExecContext(ctx, ts, rec.Units.String(), field, value); err != nil {
			tx.Rollback()
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
