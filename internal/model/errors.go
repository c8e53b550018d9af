package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvableType reports a member type that has no mapping and no value treatment.
	ErrUnresolvableType = errors.New("unresolvable type")
	// ErrStructuralAmbiguity reports output that could not be told apart when reading.
	ErrStructuralAmbiguity = errors.New("structural ambiguity")
	// ErrConfiguration reports inconsistent customizations.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant reports a broken internal guarantee.
	ErrInvariant = errors.New("invariant violation")
)

// TypeError carries the class (and member) a fatal condition was found in.
type TypeError struct {
	Kind   error  // one of the sentinel errors above
	Type   string // offending type, if any
	Class  string // class being processed
	Member string // member base name, if any
	Reason string
}

func (e *TypeError) Error() string {
	msg := e.Kind.Error()
	if e.Type != "" {
		msg += fmt.Sprintf(" %s", e.Type)
	}
	if e.Class != "" {
		msg += fmt.Sprintf(" in class %s", e.Class)
	}
	if e.Member != "" {
		msg += fmt.Sprintf(" (member %s)", e.Member)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TypeError) Unwrap() error {
	return e.Kind
}

// Errorf builds a TypeError of the given kind for a class.
func Errorf(kind error, class, member, format string, args ...any) error {
	return &TypeError{Kind: kind, Class: class, Member: member, Reason: fmt.Sprintf(format, args...)}
}
