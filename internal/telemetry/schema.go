package telemetry

import (
	"database/sql"

	"github.com/matthewwall/weewx-l7/internal/errors"
)

// initSchema initializes the record archive schema. Records are sparse,
// so each field is stored as its own row rather than as a wide column
// per measurement.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS records (
            timestamp INTEGER NOT NULL,
            units TEXT NOT NULL,
            field TEXT NOT NULL,
            value REAL NOT NULL,
            PRIMARY KEY (timestamp, field)
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}
