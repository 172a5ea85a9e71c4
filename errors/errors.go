package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the host/guest bridge the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // module compilation and validation
	PhaseHost     Phase = "host"     // host function registration
	PhaseMemory   Phase = "memory"   // guest memory access
	PhaseDecode   Phase = "decode"   // guest-supplied text
	PhaseFrame    Phase = "frame"    // frame construction and encoding
	PhaseRuntime  Phase = "runtime"  // guest calls
	PhaseTerminal Phase = "terminal" // terminal I/O
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedModule Kind = "malformed_module"
	KindMissingImport   Kind = "missing_import"
	KindMissingExport   Kind = "missing_export"
	KindInstantiation   Kind = "instantiation"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindSizeMismatch    Kind = "size_mismatch"
	KindInvalidInput    Kind = "invalid_input"
	KindIO              Kind = "io"
)

// Error is the structured error type used throughout the host
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by phase and kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// New creates a structured error
func New(phase Phase, kind Kind, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Convenience constructors for the bridge's error taxonomy

// MalformedModule creates a fatal module-loading error
func MalformedModule(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMalformedModule,
		Detail: "compile module",
		Cause:  cause,
	}
}

// MissingExport reports a required guest export that is absent or mis-typed
func MissingExport(name, detail string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("export %q %s", name, detail),
	}
}

// Instantiation reports a failure to instantiate a module
func Instantiation(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate %s", what),
		Cause:  cause,
	}
}

// OutOfBounds reports a guest-supplied region that exceeds memory
func OutOfBounds(offset, length, size uint32) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("region [%d, %d) exceeds memory size %d", offset, uint64(offset)+uint64(length), size),
	}
}

// InvalidUTF8 reports non-text bytes where text was expected
func InvalidUTF8(length int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("%d bytes are not valid UTF-8", length),
	}
}

// SizeMismatch reports a frame buffer with the wrong byte count
func SizeMismatch(got, want int) *Error {
	return &Error{
		Phase:  PhaseFrame,
		Kind:   KindSizeMismatch,
		Detail: fmt.Sprintf("frame is %d bytes, want exactly %d", got, want),
	}
}

// GuestCall reports a trapped or failed guest entry point
func GuestCall(fn string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("call %s", fn),
		Cause:  cause,
	}
}

// Terminal reports a fatal terminal I/O failure
func Terminal(cause error) *Error {
	return &Error{
		Phase: PhaseTerminal,
		Kind:  KindIO,
		Cause: cause,
	}
}
