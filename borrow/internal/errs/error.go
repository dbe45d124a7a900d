package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("studentid and bookid are required, at most 64 characters")

	ErrNotFound        = errors.New("not found")
	ErrStudentNotFound = fmt.Errorf("student %w", ErrNotFound)
	ErrBookNotFound    = fmt.Errorf("book %w", ErrNotFound)

	// ErrCapacityExceeded is a soft rejection: the student holds the maximum number of books.
	ErrCapacityExceeded = errors.New("borrow limit reached")

	// ErrConflict means the pair is already in the ledger; callers treat it as success.
	ErrConflict = errors.New("book already borrowed by student")
)

// IsDrop reports whether a consumed message failing with err can never succeed on
// redelivery and must be acknowledged.
func IsDrop(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCapacityExceeded)
}
