package tarnerr

import (
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	// Front-end errors.
	TypeSyntax ErrorType = "SyntaxError"

	// Structural errors from the Environment.
	TypeDuplicateName ErrorType = "DuplicateName"
	TypeNotFound      ErrorType = "NotFound"

	// Well-formedness errors from the inductive validator.
	TypeIllFormed             ErrorType = "IllFormed"
	TypeNonPositiveOccurrence ErrorType = "NonPositiveOccurrence"

	// Typing errors from the checker.
	TypeMismatch          ErrorType = "TypeMismatch"
	TypeNotAFunction      ErrorType = "NotAFunction"
	TypeNotAPiOrInductive ErrorType = "NotAPiOrInductive"
	TypeCoverage          ErrorType = "CoverageError"
	TypeMotiveRequired    ErrorType = "MotiveRequired"

	// Liveness: the reduction step budget ran out.
	TypeBudgetExceeded ErrorType = "BudgetExceeded"

	// Import/loader errors.
	TypeImport ErrorType = "ImportError"
)

// TarnError is the interface for all tarn-related errors.
type TarnError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for tarn errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	BaseError
	Path   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// WithFile records the source file the error came from.
func (e *SyntaxError) WithFile(path string) *SyntaxError {
	if e.Path == "" {
		e.Path = path
	}
	return e
}

// CheckError represents an error raised while validating or type-checking a
// declaration. Decl names the enclosing declaration when known; Line/Column
// point into the surface source and are 1-based. The detail fields carry the
// structured payload for the kinds that have one.
type CheckError struct {
	BaseError
	Decl     string
	FilePath string
	Line     int
	Column   int

	// TypeMismatch and NotAFunction.
	Expected string
	Inferred string

	// CoverageError: constructor names without a branch.
	Missing []string

	// NotFound and DuplicateName.
	Name string
}

func (e *CheckError) Error() string {
	var loc string
	if e.Line > 0 {
		if e.FilePath != "" {
			loc = fmt.Sprintf("%s:%d:%d ", e.FilePath, e.Line, e.Column)
		} else {
			loc = fmt.Sprintf("line %d:%d ", e.Line, e.Column)
		}
	}
	if e.Decl != "" {
		return fmt.Sprintf("[%s] %sin %s: %s", e.ErrType, loc, e.Decl, e.Msg)
	}
	return fmt.Sprintf("[%s] %s%s", e.ErrType, loc, e.Msg)
}

// WithPos attaches a 1-based source position.
func (e *CheckError) WithPos(line, column int) *CheckError {
	if e.Line == 0 {
		e.Line = line
		e.Column = column
	}
	return e
}

// WithDecl records the enclosing declaration's name.
func (e *CheckError) WithDecl(name string) *CheckError {
	if e.Decl == "" {
		e.Decl = name
	}
	return e
}

// WithFile records the source file the declaration came from.
func (e *CheckError) WithFile(path string) *CheckError {
	if e.FilePath == "" {
		e.FilePath = path
	}
	return e
}

// MultiError collects multiple tarn errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if te, ok := m.Errors[0].(TarnError); ok {
			return te.Type()
		}
	}
	return "MultiError"
}

// AttachFile records path on err, and on every error inside a
// MultiError, when the error can carry a file and has none yet.
func AttachFile(err error, path string) error {
	switch e := err.(type) {
	case *SyntaxError:
		e.WithFile(path)
	case *CheckError:
		e.WithFile(path)
	case *MultiError:
		for _, sub := range e.Errors {
			AttachFile(sub, path)
		}
	}
	return err
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Line:   line,
		Column: column,
	}
}

func newCheckError(kind ErrorType, msg string) *CheckError {
	return &CheckError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: kind,
		},
	}
}

// NewDuplicateName reports a second declaration of an existing name.
func NewDuplicateName(name string) *CheckError {
	e := newCheckError(TypeDuplicateName, fmt.Sprintf("name %q is already declared", name))
	e.Name = name
	return e
}

// NewNotFound reports a reference to an undeclared name.
func NewNotFound(name string) *CheckError {
	e := newCheckError(TypeNotFound, fmt.Sprintf("unknown name %q", name))
	e.Name = name
	return e
}

// NewIllFormed reports a declaration rejected by the validator.
func NewIllFormed(msg string) *CheckError {
	return newCheckError(TypeIllFormed, msg)
}

// NewNonPositiveOccurrence reports an inductive occurring in a negative
// position of one of its constructor argument types.
func NewNonPositiveOccurrence(ind, ctor string) *CheckError {
	return newCheckError(TypeNonPositiveOccurrence,
		fmt.Sprintf("constructor %s mentions %s in a non-positive position", ctor, ind))
}

// NewTypeMismatch reports a failed conversion between the expected and the
// inferred type. Both sides are pre-rendered by the caller.
func NewTypeMismatch(expected, inferred string) *CheckError {
	e := newCheckError(TypeMismatch, fmt.Sprintf("expected %s, found %s", expected, inferred))
	e.Expected = expected
	e.Inferred = inferred
	return e
}

// NewNotAFunction reports an application whose head is not of Pi type.
func NewNotAFunction(actualType string) *CheckError {
	e := newCheckError(TypeNotAFunction, fmt.Sprintf("cannot apply a value of type %s", actualType))
	e.Inferred = actualType
	return e
}

// NewNotAPiOrInductive reports a term used where a Pi type or an inductive
// family was required (match scrutinees, binder annotations).
func NewNotAPiOrInductive(actualType string) *CheckError {
	e := newCheckError(TypeNotAPiOrInductive, fmt.Sprintf("expected a function or inductive type, found %s", actualType))
	e.Inferred = actualType
	return e
}

// NewCoverageError reports a match with missing constructor branches.
func NewCoverageError(missing []string) *CheckError {
	e := newCheckError(TypeCoverage, fmt.Sprintf("match does not cover: %s", strings.Join(missing, ", ")))
	e.Missing = missing
	return e
}

// NewMotiveRequired reports a dependent match whose motive could not be
// inferred from the expected type.
func NewMotiveRequired() *CheckError {
	return newCheckError(TypeMotiveRequired, "cannot infer the match motive; supply one with 'as'")
}

// NewBudgetExceeded reports that normalization ran out of reduction steps.
func NewBudgetExceeded(steps int) *CheckError {
	return newCheckError(TypeBudgetExceeded, fmt.Sprintf("normalization exceeded the %d-step budget", steps))
}

// NewImportError reports a failure while resolving or loading an import.
func NewImportError(msg string) *CheckError {
	return newCheckError(TypeImport, msg)
}
