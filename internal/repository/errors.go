package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jnst/race-registration/internal/model"
)

const uniqueViolation = "23505"

// mapError translates driver errors into model sentinels. notFound is returned for
// pgx.ErrNoRows.
func mapError(err, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", model.ErrDuplicate, pgErr.ConstraintName)
	}

	return err
}
