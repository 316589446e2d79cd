package tarnerr_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarn-lang/tarn/tarnerr"
)

func TestSyntaxError(t *testing.T) {
	err := tarnerr.NewSyntaxError(10, 5, "unexpected token")
	assert.Equal(t, tarnerr.TypeSyntax, err.Type())
	assert.Equal(t, 10, err.Line)
	assert.Equal(t, 5, err.Column)
	assert.Equal(t, "[SyntaxError] line 10:5 unexpected token", err.Error())
}

func TestSyntaxErrorWithFile(t *testing.T) {
	err := tarnerr.NewSyntaxError(2, 7, "unexpected token").WithFile("nat.tarn")
	assert.Equal(t, "nat.tarn", err.Path)
	assert.Equal(t, "[SyntaxError] nat.tarn:2:7 unexpected token", err.Error())

	// A later WithFile must not overwrite the first.
	err.WithFile("other.tarn")
	assert.Equal(t, "nat.tarn", err.Path)
}

func TestTypeMismatch(t *testing.T) {
	err := tarnerr.NewTypeMismatch("Nat", "Bool")
	assert.Equal(t, tarnerr.TypeMismatch, err.Type())
	assert.Equal(t, "Nat", err.Expected)
	assert.Equal(t, "Bool", err.Inferred)
	assert.Contains(t, err.Error(), "[TypeMismatch]")
	assert.Contains(t, err.Error(), "Nat")
	assert.Contains(t, err.Error(), "Bool")
}

func TestCheckErrorPosition(t *testing.T) {
	err := tarnerr.NewNotFound("plus").WithPos(3, 9).WithDecl("double").WithFile("nat.tarn")
	assert.Equal(t, tarnerr.TypeNotFound, err.Type())
	assert.Equal(t, "plus", err.Name)
	assert.Equal(t, "[NotFound] nat.tarn:3:9 in double: unknown name \"plus\"", err.Error())

	// Position, declaration and file are set-once.
	err.WithPos(8, 8)
	err.WithDecl("other")
	err.WithFile("other.tarn")
	assert.Equal(t, 3, err.Line)
	assert.Equal(t, "double", err.Decl)
	assert.Equal(t, "nat.tarn", err.FilePath)
}

func TestCoverageError(t *testing.T) {
	err := tarnerr.NewCoverageError([]string{"S", "Z"})
	assert.Equal(t, tarnerr.TypeCoverage, err.Type())
	assert.Equal(t, []string{"S", "Z"}, err.Missing)
	assert.Contains(t, err.Error(), "S")
	assert.Contains(t, err.Error(), "Z")
}

func TestBudgetExceeded(t *testing.T) {
	err := tarnerr.NewBudgetExceeded(100)
	assert.Equal(t, tarnerr.TypeBudgetExceeded, err.Type())
	assert.Contains(t, err.Error(), "100")
}

func TestNonPositiveOccurrence(t *testing.T) {
	err := tarnerr.NewNonPositiveOccurrence("Bad", "Mk")
	assert.Equal(t, tarnerr.TypeNonPositiveOccurrence, err.Type())
	assert.Contains(t, err.Error(), "Bad")
	assert.Contains(t, err.Error(), "Mk")
}

func TestMultiError(t *testing.T) {
	e1 := tarnerr.NewSyntaxError(1, 1, "error 1")
	e2 := tarnerr.NewSyntaxError(2, 2, "error 2")
	multi := &tarnerr.MultiError{Errors: []error{e1, e2}}

	assert.Equal(t, tarnerr.TypeSyntax, multi.Type())
	errMsg := multi.Error()
	assert.Contains(t, errMsg, "2 error(s) occurred:")
	assert.Contains(t, errMsg, "- [SyntaxError] line 1:1 error 1")
	assert.Contains(t, errMsg, "- [SyntaxError] line 2:2 error 2")
}

func TestMultiErrorMixed(t *testing.T) {
	e1 := tarnerr.NewNotFound("x")
	e2 := tarnerr.NewSyntaxError(1, 1, "syntax error")
	multi := &tarnerr.MultiError{Errors: []error{e1, e2}}

	assert.Equal(t, tarnerr.TypeNotFound, multi.Type())
}

func TestMultiErrorEmpty(t *testing.T) {
	multi := &tarnerr.MultiError{Errors: []error{}}
	assert.Equal(t, tarnerr.ErrorType("MultiError"), multi.Type())
	assert.True(t, strings.HasPrefix(multi.Error(), "0 error(s) occurred:"))
}

func TestAttachFile(t *testing.T) {
	syn := tarnerr.NewSyntaxError(1, 1, "bad")
	chk := tarnerr.NewDuplicateName("Nat").WithPos(4, 1)
	multi := &tarnerr.MultiError{Errors: []error{syn, chk}}

	tarnerr.AttachFile(multi, "a.tarn")
	assert.Equal(t, "a.tarn", syn.Path)
	assert.Equal(t, "a.tarn", chk.FilePath)

	// Errors that already carry a file keep it.
	tarnerr.AttachFile(multi, "b.tarn")
	assert.Equal(t, "a.tarn", syn.Path)
	assert.Equal(t, "a.tarn", chk.FilePath)
}
