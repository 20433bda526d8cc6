package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Op indicates which primitive the error came from
type Op string

const (
	OpThread    Op = "thread"    // thread spawn/terminate
	OpMutex     Op = "mutex"     // recursive mutex
	OpSemaphore Op = "semaphore" // counting semaphore
	OpTimer     Op = "timer"     // kernel and fine-grained timers
	OpClock     Op = "clock"     // time base and sleeps
	OpHandle    Op = "handle"    // handle table lookups
)

// Kind categorizes the error. Every kind maps to exactly one Status.
type Kind string

const (
	KindInvalidArgument        Kind = "invalid_argument"
	KindNoMemory               Kind = "no_memory"
	KindGenericFailure         Kind = "generic_failure"
	KindResourceError          Kind = "resource_error"
	KindTimeout                Kind = "timeout"
	KindParameterError         Kind = "parameter_error"
	KindPriorityDenied         Kind = "priority_denied"
	KindNoFineGrainedTimerLeft Kind = "no_fine_grained_timer_left"
)

// Sentinels for errors.Is. They carry no Op, so they match any error of
// the same Kind.
var (
	ErrInvalidArgument        = &Error{Kind: KindInvalidArgument}
	ErrNoMemory               = &Error{Kind: KindNoMemory}
	ErrGenericFailure         = &Error{Kind: KindGenericFailure}
	ErrResourceError          = &Error{Kind: KindResourceError}
	ErrTimeout                = &Error{Kind: KindTimeout}
	ErrParameterError         = &Error{Kind: KindParameterError}
	ErrPriorityDenied         = &Error{Kind: KindPriorityDenied}
	ErrNoFineGrainedTimerLeft = &Error{Kind: KindNoFineGrainedTimerLeft}
)

// Error is the structured error type returned by every primitive
type Error struct {
	Value  any
	Cause  error
	Op     Op
	Kind   Kind
	Detail string
	Handle uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Op))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " (handle %d)", e.Handle)
	}

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

// Is reports whether target matches this error.
// A target without an Op matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" {
		return e.Kind == t.Kind
	}
	return e.Op == t.Op && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Handle sets the handle the operation was invoked on
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an invalid argument error
func InvalidArgument(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// NullHandle creates the error returned for a zero or released handle
func NullHandle(op Op, kind Kind) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: "null or released handle",
	}
}

// Timeout creates a timeout error for a wait of the given length
func Timeout(op Op, millis uint32) *Error {
	return &Error{
		Op:     op,
		Kind:   KindTimeout,
		Detail: fmt.Sprintf("deadline of %dms passed", millis),
		Value:  millis,
	}
}

// GenericFailure wraps an unexpected host failure
func GenericFailure(op Op, detail string, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindGenericFailure,
		Detail: detail,
		Cause:  cause,
	}
}

// ResourceError creates a resource error, typically for a double release
// or a busy object
func ResourceError(op Op, detail string, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindResourceError,
		Detail: detail,
		Cause:  cause,
	}
}

// ParameterError creates an error for an object the host no longer
// recognizes as valid
func ParameterError(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindParameterError,
		Detail: detail,
	}
}

// PriorityDenied creates an error for a host priority the caller lacks
// privilege for
func PriorityDenied(priority int, cause error) *Error {
	return &Error{
		Op:     OpThread,
		Kind:   KindPriorityDenied,
		Detail: fmt.Sprintf("host rejected priority %d", priority),
		Value:  priority,
		Cause:  cause,
	}
}

// NoFineGrainedTimerLeft creates the error for an occupied fine-grained slot
func NoFineGrainedTimerLeft(intervalMs uint32) *Error {
	return &Error{
		Op:     OpTimer,
		Kind:   KindNoFineGrainedTimerLeft,
		Detail: fmt.Sprintf("fine-grained slot occupied, cannot start %dms periodic timer", intervalMs),
		Value:  intervalMs,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(op Op, kind Kind, cause error, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindGenericFailure for foreign errors. A nil error has no kind.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindGenericFailure, true
}
