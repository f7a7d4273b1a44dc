package beamscene

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerate is matched by every *DegenerateInputError via errors.Is.
	ErrDegenerate = errors.New("degenerate beam input")

	ErrNonFinite    = errors.New("coordinate is not finite")
	ErrInvalidScale = errors.New("beam scale must be positive and finite")
)

// DegenerateInputError is returned when a beam start coincides with the
// focus. The segment would have no direction and zero length.
type DegenerateInputError struct {
	ID    string
	Start Point3
	Focus Point3
}

func (e *DegenerateInputError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("beam %q: start %v coincides with focus %v", e.ID, e.Start, e.Focus)
	}
	return fmt.Sprintf("beam start %v coincides with focus %v", e.Start, e.Focus)
}

func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerate
}

// PathError reports which element of a beam path failed.
type PathError struct {
	Index int
	ID    string
	Err   error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("beam path element %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
