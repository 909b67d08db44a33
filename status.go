package kvtable

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get and Del when the requested key has no
// entry in the table.
var ErrNotFound = errors.New("kvtable: not found")

// ErrInvalidOperation is returned for API misuse: operating on a closed
// table, double-open, double-close, a put whose on-disk size would exceed
// Options.MaxFileSize, or a duplicate key discovered across segments on
// load.
var ErrInvalidOperation = errors.New("kvtable: invalid operation")

// ErrIO is the sentinel wrapped by every I/O failure returned from this
// package. Callers match it with errors.Is(err, kvtable.ErrIO).
var ErrIO = errors.New("kvtable: io error")

// ioErrorf wraps err as an I/O error carrying the given operation context.
// The result satisfies errors.Is(result, ErrIO) and errors.Is(result, err).
func ioErrorf(op string, err error) error {
	return fmt.Errorf("kvtable: %s: %w: %w", op, ErrIO, err)
}

func ioErrorString(op, msg string) error {
	return fmt.Errorf("kvtable: %s: %w: %s", op, ErrIO, msg)
}

func invalidOperationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}
