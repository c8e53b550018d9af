// Package diagnostic collects non-fatal findings of a generation run.
package diagnostic

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Codes used by the generator.
const (
	CodeAmbiguousGeneric   = "ambiguous-generic"
	CodeInterfaceFieldMode = "interface-field-access"
	CodeIgnoredMember      = "ignored-member"
	CodeUntypedCollection  = "untyped-collection"
	CodeAbstractFallback   = "abstract-fallback"
	CodeMultipleInterfaces = "multiple-interfaces"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Class    string
	Member   string
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Class != "" {
		prefix = append(prefix, "["+d.Class+"]")
	}
	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}
	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}
	return msg
}

// Diagnostics is the sink shared by all components of a run. Every entry is
// also written to the logger.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic

	log *slog.Logger
}

// New returns an empty sink logging through l (slog.Default when nil).
func New(l *slog.Logger) *Diagnostics {
	if l == nil {
		l = slog.Default()
	}
	return &Diagnostics{log: l}
}

func (d *Diagnostics) logger() *slog.Logger {
	if d.log == nil {
		return slog.Default()
	}
	return d.log
}

// Warn records a warning.
func (d *Diagnostics) Warn(code, class, member, format string, args ...any) {
	e := Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Class: class, Member: member}
	d.Warnings = append(d.Warnings, e)
	d.logger().With("code", code, "class", class, "member", member).Warn(e.Message)
}

// Info records an informational note.
func (d *Diagnostics) Info(code, class, member, format string, args ...any) {
	e := Diagnostic{Severity: SeverityInfo, Code: code, Message: fmt.Sprintf(format, args...), Class: class, Member: member}
	d.Infos = append(d.Infos, e)
	d.logger().With("code", code, "class", class).Debug(e.Message)
}

// Fail records an error and returns err unchanged, so callers can write
// `return d.Fail(code, err)`.
func (d *Diagnostics) Fail(code string, err error) error {
	if err == nil {
		return nil
	}
	d.Errors = append(d.Errors, Diagnostic{Severity: SeverityError, Code: code, Message: err.Error()})
	d.logger().With("code", code, "error", err).Error("generation failed")
	return err
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Err returns a combined error from all error diagnostics, or nil.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}
	return errors.New(strings.Join(parts, "; "))
}
