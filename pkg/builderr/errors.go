package builderr

import (
	"errors"
	"fmt"
)

// Kind classifies why a build could not complete. Every kind is terminal.
type Kind int

const (
	Unknown Kind = iota
	UnsupportedPlatform
	InvalidConfig
	SpawnFailure
	CompilationFailure
)

var kindNames = map[Kind]string{
	Unknown:             "unknown",
	UnsupportedPlatform: "unsupported platform",
	InvalidConfig:       "invalid config",
	SpawnFailure:        "spawn failure",
	CompilationFailure:  "compilation failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the structured error returned by the composer, invoker and driver.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and the operation that failed.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is New with a formatted cause.
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
