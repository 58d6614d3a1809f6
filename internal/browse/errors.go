package browse

import (
	"errors"
	"fmt"

	"github.com/Makepad-fr/breeds/internal/catapi"
)

var (
	// ErrEmptyCatalog is returned when the service answers with no breeds.
	ErrEmptyCatalog = errors.New("breed catalog is empty")
	// ErrStale means a newer request superseded this one; drop the result.
	ErrStale = errors.New("superseded by a newer request")
	// ErrUnknownBreed is returned by FindBreed when nothing matches.
	ErrUnknownBreed = errors.New("unknown breed")
)

// Kind groups failures the way the user experiences them.
type Kind int

const (
	Transport Kind = iota
	Status
	Empty
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Status:
		return "status"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Failure is the error handed to renderers. Op names the user action.
type Failure struct {
	Op   string
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Message is a short line suitable for a status bar.
func (f *Failure) Message() string {
	switch f.Kind {
	case Status:
		return fmt.Sprintf("%s failed: the catalog answered %d", f.Op, catapi.StatusCode(f.Err))
	case Empty:
		return fmt.Sprintf("%s: nothing to show", f.Op)
	default:
		return fmt.Sprintf("%s failed: %v", f.Op, f.Err)
	}
}

// Classify sorts err into a Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrEmptyCatalog):
		return Empty
	case catapi.StatusCode(err) != 0:
		return Status
	default:
		return Transport
	}
}

func fail(op string, err error) error {
	if err == nil || errors.Is(err, ErrStale) {
		return err
	}
	return &Failure{Op: op, Kind: Classify(err), Err: err}
}
