// Package errors provides the structured error type shared by the tmux
// client, the resolver and the attacher. Each error records the operation
// that failed and a Kind, which is what callers branch on.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.Function".
type Op string

// Kind categorizes an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindExternalTool: the tmux binary is missing or exited unexpectedly.
	KindExternalTool
	// KindSpawn: a required session or window could not be created.
	KindSpawn
	// KindAttribute: a window could not be tagged with its workspace.
	KindAttribute
	KindConfig
	KindIO
	KindLock
)

func (k Kind) String() string {
	switch k {
	case KindExternalTool:
		return "external tool error"
	case KindSpawn:
		return "spawn error"
	case KindAttribute:
		return "attribute error"
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	case KindLock:
		return "lock error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for wsmux.
type Error struct {
	Op      Op
	Kind    Kind
	Err     error
	Context string
}

func (e *Error) Error() string {
	if e.Context != "" {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error from its arguments, matched by type:
// Op, Kind, string (context) and error (cause). Without a cause the
// context string becomes the cause.
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether any *Error in err's chain has the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// GetKind returns the Kind of the outermost *Error in err's chain.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
