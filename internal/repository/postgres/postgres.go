package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/markod/fitlink/internal/repository"
)

const (
	codeUniqueViolation  = "23505"
	codePermissionDenied = "42501"
)

// mapError translates driver errors into repository sentinels where the
// caller needs to distinguish them.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codePermissionDenied:
			return fmt.Errorf("%w: %s", repository.ErrPermissionDenied, pgErr.Message)
		case codeUniqueViolation:
			switch pgErr.ConstraintName {
			case "partner_requests_unique_pair":
				return repository.ErrDuplicateRequest
			case "partnerships_unique_pair":
				return repository.ErrDuplicatePartnership
			}
		}
	}
	return err
}
