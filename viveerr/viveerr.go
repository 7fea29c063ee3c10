// Package viveerr defines the small typed-error taxonomy used across the
// runtime (spec.md §7). Reader-goroutine errors are logged and absorbed;
// open-time and API-misuse errors are returned to the caller wrapped in
// an *Error so callers can distinguish kinds with errors.As.
package viveerr

import "fmt"

// Kind classifies an error without tying callers to a specific message.
type Kind int

const (
	Unknown Kind = iota

	HidIo
	HidTimeout

	ConfigTransport
	ConfigInflate
	ConfigTooLarge
	ConfigJsonSyntax
	ConfigMissingField
	ConfigBadVariant

	BadReportId
	BadReportSize
	BadMagic
	BadSensorId

	InvalidInputName
	NoHmd
)

func (k Kind) String() string {
	switch k {
	case HidIo:
		return "HidIo"
	case HidTimeout:
		return "HidTimeout"
	case ConfigTransport:
		return "ConfigTransport"
	case ConfigInflate:
		return "ConfigInflate"
	case ConfigTooLarge:
		return "ConfigTooLarge"
	case ConfigJsonSyntax:
		return "ConfigJsonSyntax"
	case ConfigMissingField:
		return "ConfigMissingField"
	case ConfigBadVariant:
		return "ConfigBadVariant"
	case BadReportId:
		return "BadReportId"
	case BadReportSize:
		return "BadReportSize"
	case BadMagic:
		return "BadMagic"
	case BadSensorId:
		return "BadSensorId"
	case InvalidInputName:
		return "InvalidInputName"
	case NoHmd:
		return "NoHmd"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind, the operation that produced it, and an optional
// underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error. cause may be nil.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	} else {
		return false
	}
	return e.Kind == kind
}
