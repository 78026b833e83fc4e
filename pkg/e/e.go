// Package e defines the error taxonomy shared by services and handlers.
// Services wrap storage errors onto one of the sentinels below; the HTTP
// layer maps sentinels to response codes.
package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDeadline     = errors.New("deadline exceeded")
	ErrCanceled     = errors.New("context canceled")
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

// WrapError normalizes a raw storage error onto the taxonomy. Unique and
// check violations become Conflict/InvalidInput, missing rows become
// NotFound, anything unrecognized is Internal.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrConflict)
		case "23503", "23514":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrInternal)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
