package recomb

import (
	"github.com/pkg/errors"

	"github.com/crillab/dpx/px"
)

var (
	// ErrInvalidInput is the cause of errors due to bad input: parents of different lengths,
	// parents not matching the instance, out of range variables.
	ErrInvalidInput = px.ErrInvalidInput
	// ErrInconsistent is the cause of errors due to a broken decomposition, i.e a bug.
	// It is never caused by the input.
	ErrInconsistent = errors.New("inconsistent decomposition")
	// ErrTooWide is returned when a cluster of the decomposition has more vars than allowed.
	ErrTooWide = errors.New("decomposition too wide")
)

// maxWidth is the largest clique size the DP can encode in a uint64.
const maxWidth = 62

func inconsistent(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInconsistent, format, args...)
}
