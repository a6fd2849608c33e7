package postgres

import (
	"database/sql"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}
