package hstack

import(
	"fmt"

	"github.com/pkg/errors"
)

var(
	// ErrTypeMismatch is fatal to the whole batch: the set's input kind
	// is fixed by its first exposure.
	ErrTypeMismatch = errors.New("exposure kind differs from the rest of the set")

	// ErrSizeMismatch is fatal too: all exposures of a kind must share
	// one geometry.
	ErrSizeMismatch = errors.New("exposure dimensions differ from the rest of the set")

	// ErrSetErrored: a set that hit a consistency failure refuses
	// further mutation until ClearError or Reset.
	ErrSetErrored = errors.New("exposure set is in an error state")
)

// A LoadFailure is non-fatal: the failing exposure is dropped and its
// siblings keep loading.
type LoadFailure struct {
	Path string
	Err  error
}

func (f LoadFailure)Error() string {
	return fmt.Sprintf("load %s: %v", f.Path, f.Err)
}

func (f LoadFailure)Unwrap() error { return f.Err }

// An AlignmentFailure is fatal to the alignment stage only; the loaded
// set stays intact.
type AlignmentFailure struct {
	ExitCode int
	Err      error
}

func (f AlignmentFailure)Error() string {
	if f.Err != nil {
		return fmt.Sprintf("alignment failed (exit %d): %v", f.ExitCode, f.Err)
	}
	return fmt.Sprintf("alignment failed (exit %d)", f.ExitCode)
}

func (f AlignmentFailure)Unwrap() error { return f.Err }
