package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // plan compilation from a Go type
	PhaseEncode  Phase = "encode"  // Go value to bytes
	PhaseDecode  Phase = "decode"  // bytes to Go value
	PhaseSchema  Phase = "schema"  // container construction and checks
	PhaseFrame   Phase = "frame"   // outer framing
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedEOF       Kind = "unexpected_eof"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindInvalidData         Kind = "invalid_data"
	KindInvalidInput        Kind = "invalid_input"
	KindTrailingData        Kind = "trailing_data"
	KindSchemaMismatch      Kind = "schema_mismatch"
	KindRedefinition        Kind = "redefinition"
	KindUnsupported         Kind = "unsupported"
	KindOverflow            Kind = "overflow"
	KindNotPointer          Kind = "not_pointer"
)

// Error is the structured error returned by every codec layer.
// Offset is the cursor position at which a decode failed, or -1.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Offset >= 0 && e.Phase == PhaseDecode {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}
	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}
	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Is matches on Kind. The phase is compared only when the target sets one,
// so the kind-only sentinels match errors from any layer.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Offset sets the cursor position
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
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

// Sentinels for errors.Is; they carry no phase so they match any layer.
var (
	ErrUnexpectedEOF       = &Error{Kind: KindUnexpectedEOF, Offset: -1}
	ErrInvalidDiscriminant = &Error{Kind: KindInvalidDiscriminant, Offset: -1}
	ErrInvalidData         = &Error{Kind: KindInvalidData, Offset: -1}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Offset: -1}
	ErrTrailingData        = &Error{Kind: KindTrailingData, Offset: -1}
	ErrSchemaMismatch      = &Error{Kind: KindSchemaMismatch, Offset: -1}
	ErrRedefinition        = &Error{Kind: KindRedefinition, Offset: -1}
	ErrUnsupported         = &Error{Kind: KindUnsupported, Offset: -1}
	ErrOverflow            = &Error{Kind: KindOverflow, Offset: -1}
	ErrNotPointer          = &Error{Kind: KindNotPointer, Offset: -1}
)

// Convenience constructors for common error patterns

// UnexpectedEOF reports that need bytes were required at off but fewer remained.
func UnexpectedEOF(off, need, remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnexpectedEOF,
		Offset: off,
		Detail: fmt.Sprintf("unexpected end of input: need %d bytes, %d remaining", need, remaining),
	}
}

// InvalidDiscriminant reports a tag byte outside the valid set of what.
func InvalidDiscriminant(off int, what string, tag byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidDiscriminant,
		Offset: off,
		Value:  tag,
		Detail: fmt.Sprintf("invalid %s discriminant %d", what, tag),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, off int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	kind := KindInvalidData
	if phase == PhaseEncode {
		kind = KindInvalidInput
	}
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: off,
		Detail: fmt.Sprintf("string is not valid UTF-8 (%d bytes, prefix %x)", len(data), preview),
	}
}

// NaN reports a NaN float, which the format does not represent.
func NaN(phase Phase, off int) *Error {
	kind := KindInvalidData
	if phase == PhaseEncode {
		kind = KindInvalidInput
	}
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: off,
		Detail: "NaN is not a valid float value",
	}
}

// TrailingData reports bytes left after a strict decode.
func TrailingData(off, n int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingData,
		Offset: off,
		Detail: fmt.Sprintf("unexpected %d bytes after deserialized data", n),
	}
}

// Unsupported creates an unsupported type error
func Unsupported(phase Phase, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		GoType: goType,
		Detail: detail,
		Offset: -1,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf(detail, args...),
		Offset: -1,
	}
}

// Wrap wraps an existing error with context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Cause:  cause,
		Detail: detail,
		Offset: -1,
	}
}
