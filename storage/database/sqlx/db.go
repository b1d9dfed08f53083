package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Wrap hands an opened connection to sqlx with the Postgres bind variant.
func Wrap(db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, "postgres")
}

// trapNoRowsErr swaps sql.ErrNoRows for the domain's own not-found error.
func trapNoRowsErr(err, domainErr error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return domainErr
	}
	return err
}

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == pqUniqueViolation
}
