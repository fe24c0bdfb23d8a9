package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolationError reports whether err carries a postgres unique
// violation (error code 23505). Inserting a duplicate goal surfaces as
// one; the handler maps it to 409.
func IsUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
