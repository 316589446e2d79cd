package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/internal/kernel"
	"github.com/tarn-lang/tarn/internal/parser"
	"github.com/tarn-lang/tarn/tarnerr"
)

const arithSrc = natSrc + `
def two : Nat := S (S Z)

def mul (a b : Nat) : Nat :=
  match a with
  | Z => Z
  | S n => add b (mul n b)
  end

def pred (n : Nat) : Nat :=
  match n with
  | Z => Z
  | S m => m
  end
`

// elabSrc parses and elaborates a standalone expression.
func elabSrc(t *testing.T, env *kernel.Environment, src string) (core.Term, core.Term) {
	t.Helper()
	e, err := parser.ParseExpr(src)
	require.NoError(t, err)
	tm, ty, err := kernel.CheckExpr(env, e, 0)
	require.NoError(t, err)
	return tm, ty
}

func evalSrc(t *testing.T, env *kernel.Environment, src string) core.Term {
	t.Helper()
	tm, _ := elabSrc(t, env, src)
	nf, err := kernel.Normalize(env, tm, 0)
	require.NoError(t, err)
	return nf
}

func TestNormalize(t *testing.T) {
	env := mustCheck(t, arithSrc)

	tests := []struct {
		expr string
		want string
	}{
		{"add Z Z", "Z"},
		{"add (S (S Z)) (S Z)", "S (S (S Z))"},
		{"mul two two", "S (S (S (S Z)))"},
		{"pred (S (S Z))", "S Z"},
		{"pred Z", "Z"},
		{"two", "S (S Z)"},
		{"fun (x : Nat) => add Z x", "fun (x : Nat) => x"},
		{"add two", "fun (b : Nat) => S (S b)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, evalSrc(t, env, tt.expr).String())
		})
	}
}

func TestWhnfStopsAtConstructorHead(t *testing.T) {
	env := mustCheck(t, arithSrc)

	tests := []struct {
		expr string
		want string
	}{
		{"two", "S (S Z)"},
		{"add (S Z) (S Z)", "S (add Z (S Z))"},
		{"S (add Z Z)", "S (add Z Z)"},
		{"fun (x : Nat) => add Z x", "fun (x : Nat) => add Z x"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			tm, _ := elabSrc(t, env, tt.expr)
			w, err := kernel.Whnf(env, tm, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	env := mustCheck(t, arithSrc)

	for _, expr := range []string{"mul two two", "fun (x : Nat) => add x two", "pred"} {
		nf := evalSrc(t, env, expr)
		again, err := kernel.Normalize(env, nf, 0)
		require.NoError(t, err)
		assert.True(t, core.AlphaEq(nf, again), "normalize(%s) must be a fixed point", expr)
	}
}

func TestNormalizePreservesType(t *testing.T) {
	env := mustCheck(t, arithSrc)

	exprs := []string{
		"add two two",
		"add two",
		"pred",
		"fun (x : Nat) => add x two",
		"forall (A : Type), A",
	}

	// The normal form of a well-typed term inhabits the original type.
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			tm, ty := elabSrc(t, env, expr)
			nf, err := kernel.Normalize(env, tm, 0)
			require.NoError(t, err)

			_, nty := elabSrc(t, env, nf.String())
			ok, err := kernel.Convertible(env, ty, nty, 0)
			require.NoError(t, err)
			assert.True(t, ok, "normalizing %s must not change its type", expr)
		})
	}
}

func TestStuckMatchKeepsBranchesFolded(t *testing.T) {
	env := mustCheck(t, arithSrc+"\nextern ax : Nat")

	// The scrutinee is an axiom, so the match cannot pick a branch. The
	// bodies stay as written: two is not unfolded inside them.
	nf := evalSrc(t, env, "add ax two")
	assert.Equal(t, "match ax with | Z => two | S n => S (add n two) end", nf.String())
}

func TestConvertible(t *testing.T) {
	env := mustCheck(t, arithSrc)

	tests := []struct {
		a, b string
		want bool
	}{
		{"two", "S (S Z)", true},
		{"add Z Z", "Z", true},
		{"mul two two", "add two two", true},
		{"fun (x : Nat) => x", "fun (y : Nat) => y", true},
		{"S Z", "Z", false},
		{"S", "pred", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" ~ "+tt.b, func(t *testing.T) {
			at, _ := elabSrc(t, env, tt.a)
			bt, _ := elabSrc(t, env, tt.b)

			got, err := kernel.Convertible(env, at, bt, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			sym, err := kernel.Convertible(env, bt, at, 0)
			require.NoError(t, err)
			assert.Equal(t, got, sym, "conversion must be symmetric")
		})
	}
}

func TestNormalizeBudget(t *testing.T) {
	env := mustCheck(t, arithSrc+"\ndef spin : Nat := spin")

	tm, _ := elabSrc(t, env, "spin")
	_, err := kernel.Normalize(env, tm, 32)
	require.Error(t, err)

	var ce *tarnerr.CheckError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, tarnerr.TypeBudgetExceeded, ce.Type())
	assert.EqualError(t, ce, "[BudgetExceeded] normalization exceeded the 32-step budget")

	_, err = kernel.Whnf(env, tm, 32)
	require.Error(t, err, "head reduction alone also diverges on spin")

	// A non-positive limit selects the default budget rather than zero
	// steps.
	finite, _ := elabSrc(t, env, "mul two two")
	_, err = kernel.Normalize(env, finite, 0)
	assert.NoError(t, err)
}

func TestCheckExprTypes(t *testing.T) {
	env := mustCheck(t, arithSrc)

	tests := []struct {
		expr string
		want string
	}{
		{"add", "Nat -> Nat -> Nat"},
		{"add two", "Nat -> Nat"},
		{"S", "Nat -> Nat"},
		{"Z", "Nat"},
		{"Nat", "Type"},
		{"Type", "Type 1"},
		{"Type 2", "Type 3"},
		{"fun (x : Nat) => x", "Nat -> Nat"},
		{"forall (A : Type), A", "Type 1"},
		{"let k : Nat := two in add k k", "Nat"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, ty := elabSrc(t, env, tt.expr)
			assert.Equal(t, tt.want, ty.String())
		})
	}
}
