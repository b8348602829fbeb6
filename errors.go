package bipbuffer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpace indicates that not a single element can be reserved until data is decommitted.
	ErrNoSpace = errors.New("bipbuffer: no space")

	// ErrNoReservation indicates a commit without an outstanding reservation.
	ErrNoReservation = errors.New("bipbuffer: no active reservation")

	// ErrNoData indicates that there is no committed data to read.
	ErrNoData = errors.New("bipbuffer: no readable data")

	// ErrInvalidLength indicates a negative length argument.
	ErrInvalidLength = errors.New("bipbuffer: negative length")

	// ErrOutOfOrder indicates a pipe block released before an older one.
	ErrOutOfOrder = errors.New("bipbuffer: block released out of order")

	// ErrBadRead indicates an io.Reader that returned a count outside [0, len(p)].
	ErrBadRead = errors.New("bipbuffer: reader returned invalid count")

	// ErrClosed indicates a pipe operation after Close.
	ErrClosed = errors.New("bipbuffer: pipe closed")
)

// InvariantError describes a broken layout found by Validate.
type InvariantError struct {
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bipbuffer: invariant %q violated: %s", e.Invariant, e.Detail)
}
