package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateShortCode is returned when an insert hits the unique short code index.
	ErrDuplicateShortCode = errors.New("short code already exists")
	// ErrDuplicateEmail is returned when an insert hits the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")
)

// uniqueViolation is the SQLSTATE Postgres reports for unique index conflicts.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
