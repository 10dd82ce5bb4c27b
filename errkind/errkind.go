// Package errkind defines the error taxonomy shared by the loader, the
// collection store and the splitter.
//
// Callers branch on the kind with errors.Is:
//
//	ErrFormat - raw files malformed or offsets inconsistent with their field.
//	ErrIndex  - a slice or split request references an out-of-range item or class.
//	ErrConfig - caller supplied inconsistent parameters (ratio, sizes, rng).
//	ErrIO     - cache, raw file or archive could not be read, written or fetched.
package errkind

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFormat marks malformed raw files or offsets that disagree with their field.
	ErrFormat = errors.New("format error")
	// ErrIndex marks a reference to an item or class that does not exist.
	ErrIndex = errors.New("index error")
	// ErrConfig marks inconsistent caller-supplied parameters.
	ErrConfig = errors.New("config error")
	// ErrIO marks a cache, raw file or archive that could not be read, written or fetched.
	ErrIO = errors.New("io error")
)

// Formatf returns an ErrFormat carrying a formatted message.
func Formatf(format string, args ...any) error {
	return errors.Wrapf(ErrFormat, format, args...)
}

// Indexf returns an ErrIndex carrying a formatted message.
func Indexf(format string, args ...any) error {
	return errors.Wrapf(ErrIndex, format, args...)
}

// Configf returns an ErrConfig carrying a formatted message.
func Configf(format string, args ...any) error {
	return errors.Wrapf(ErrConfig, format, args...)
}

// IO classifies err as ErrIO while keeping it reachable through errors.Is and
// errors.As, so os.ErrNotExist and friends still match.
func IO(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &kindError{
		kind: ErrIO,
		err:  errors.Wrapf(err, format, args...),
	}
}

// kindError attaches a taxonomy kind to an arbitrary cause.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%v: %v", e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

// Both returns an error matching every kind in kinds. It is used where a
// single failure belongs to two classes, e.g. a split asking for more graphs
// of a class than exist is both an index and a configuration problem.
func Both(msg string, kinds ...error) error {
	return &multiKind{msg: msg, kinds: kinds}
}

type multiKind struct {
	msg   string
	kinds []error
}

func (e *multiKind) Error() string {
	return e.msg
}

func (e *multiKind) Unwrap() []error {
	return e.kinds
}
