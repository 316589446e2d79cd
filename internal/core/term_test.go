package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphaEq(t *testing.T) {
	nat := &Ind{Name: "Nat"}

	tests := []struct {
		name string
		a, b Term
		want bool
	}{
		{
			name: "display names are ignored",
			a:    &Lambda{Name: "x", Ty: nat, Body: &Var{Index: 0, Name: "x"}},
			b:    &Lambda{Name: "y", Ty: nat, Body: &Var{Index: 0, Name: "y"}},
			want: true,
		},
		{
			name: "indices are compared",
			a:    &Var{Index: 0},
			b:    &Var{Index: 1},
			want: false,
		},
		{
			name: "sorts compare by level",
			a:    &Sort{Level: 1},
			b:    &Sort{Level: 2},
			want: false,
		},
		{
			name: "constants compare by name",
			a:    &Const{Name: "add"},
			b:    &Const{Name: "mul"},
			want: false,
		},
		{
			name: "matches compare branch arity not binder names",
			a: &Match{Ind: "Nat", Scrut: &Var{Index: 0}, Motive: nat,
				Branches: []Branch{{Ctor: "S", Names: []string{"a"}, Body: &Var{Index: 0}}}},
			b: &Match{Ind: "Nat", Scrut: &Var{Index: 0}, Motive: nat,
				Branches: []Branch{{Ctor: "S", Names: []string{"b"}, Body: &Var{Index: 0}}}},
			want: true,
		},
		{
			name: "different constructors differ",
			a:    &Ctor{Ind: "Nat", Name: "Z"},
			b:    &Ctor{Ind: "Nat", Name: "S"},
			want: false,
		},
		{
			name: "pi structure",
			a:    &Pi{Name: "x", Ty: nat, Body: nat},
			b:    &Pi{Name: "", Ty: nat, Body: nat},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlphaEq(tt.a, tt.b))
		})
	}
}

func TestApplySpine(t *testing.T) {
	f := &Const{Name: "f"}
	a := &Ctor{Ind: "Nat", Name: "Z"}
	b := &Const{Name: "two"}

	applied := Apply(f, a, b)
	head, args := Spine(applied)
	assert.Same(t, f, head)
	require.Len(t, args, 2)
	assert.Same(t, a, args[0])
	assert.Same(t, b, args[1])

	// No arguments: Apply is the identity, Spine returns an empty spine.
	assert.Same(t, f, Apply(f))
	head, args = Spine(f)
	assert.Same(t, f, head)
	assert.Empty(t, args)
}

func TestTelescope(t *testing.T) {
	nat := &Ind{Name: "Nat"}
	tele := Telescope{
		{Name: "A", Ty: &Sort{}},
		{Name: "x", Ty: &Var{Index: 0}},
	}

	pi := PiAll(tele, nat)
	outer, ok := pi.(*Pi)
	require.True(t, ok)
	assert.Equal(t, "A", outer.Name)
	inner, ok := outer.Body.(*Pi)
	require.True(t, ok)
	assert.Equal(t, "x", inner.Name)
	assert.True(t, AlphaEq(nat, inner.Body))

	lam := LambdaAll(tele, &Var{Index: 0})
	outerL, ok := lam.(*Lambda)
	require.True(t, ok)
	_, ok = outerL.Body.(*Lambda)
	require.True(t, ok)

	// Vars lists the telescope's own variables, outermost first.
	vars := tele.Vars()
	require.Len(t, vars, 2)
	assert.Equal(t, 1, vars[0].(*Var).Index)
	assert.Equal(t, 0, vars[1].(*Var).Index)

	// Empty telescope wraps nothing.
	assert.True(t, AlphaEq(nat, PiAll(nil, nat)))
	assert.True(t, AlphaEq(nat, LambdaAll(Telescope{}, nat)))
}
