package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func v(i int) *Var { return &Var{Index: i} }

func TestShift(t *testing.T) {
	tests := []struct {
		name string
		d    int
		in   Term
		want Term
	}{
		{
			name: "free variable moves",
			d:    2,
			in:   v(0),
			want: v(2),
		},
		{
			name: "bound variable stays put",
			d:    1,
			in:   &Lambda{Name: "x", Ty: &Sort{}, Body: v(0)},
			want: &Lambda{Name: "x", Ty: &Sort{}, Body: v(0)},
		},
		{
			name: "free variable under a binder moves",
			d:    1,
			in:   &Lambda{Name: "x", Ty: &Sort{}, Body: &App{Fn: v(0), Arg: v(1)}},
			want: &Lambda{Name: "x", Ty: &Sort{}, Body: &App{Fn: v(0), Arg: v(2)}},
		},
		{
			name: "constants are untouched",
			d:    5,
			in:   &App{Fn: &Const{Name: "add"}, Arg: &Ctor{Ind: "Nat", Name: "Z"}},
			want: &App{Fn: &Const{Name: "add"}, Arg: &Ctor{Ind: "Nat", Name: "Z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, AlphaEq(tt.want, Shift(tt.d, tt.in)))
		})
	}
}

func TestShiftAboveCutoff(t *testing.T) {
	// Indices below the cutoff are left alone.
	in := &App{Fn: v(0), Arg: v(3)}
	got := ShiftAbove(10, 2, in)
	assert.True(t, AlphaEq(&App{Fn: v(0), Arg: v(13)}, got))
}

func TestSubst(t *testing.T) {
	z := &Ctor{Ind: "Nat", Name: "Z"}

	tests := []struct {
		name string
		j    int
		s    Term
		in   Term
		want Term
	}{
		{
			name: "direct hit",
			j:    0,
			s:    z,
			in:   v(0),
			want: z,
		},
		{
			name: "other indices untouched",
			j:    0,
			s:    z,
			in:   v(1),
			want: v(1),
		},
		{
			name: "hit under a binder",
			j:    0,
			s:    z,
			in:   &Lambda{Name: "x", Ty: &Sort{}, Body: v(1)},
			want: &Lambda{Name: "x", Ty: &Sort{}, Body: z},
		},
		{
			name: "substituted term is shifted across binders",
			j:    0,
			s:    v(2),
			in:   &Lambda{Name: "x", Ty: &Sort{}, Body: v(1)},
			want: &Lambda{Name: "x", Ty: &Sort{}, Body: v(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, AlphaEq(tt.want, Subst(tt.j, tt.s, tt.in)),
				"got %s", Subst(tt.j, tt.s, tt.in))
		})
	}
}

func TestInstantiate(t *testing.T) {
	f := &Const{Name: "f"}

	// (fun x => x f) applied to f: the binder level disappears.
	body := &App{Fn: v(0), Arg: f}
	assert.True(t, AlphaEq(&App{Fn: f, Arg: f}, Instantiate(body, f)))

	// Free variables above the instantiated binder come down one level.
	assert.True(t, AlphaEq(v(0), Instantiate(v(1), f)))

	// The argument is shifted on its way under inner binders.
	inner := &Lambda{Name: "y", Ty: &Sort{}, Body: &App{Fn: v(0), Arg: v(1)}}
	got := Instantiate(inner.Body, v(4))
	assert.True(t, AlphaEq(&App{Fn: v(4), Arg: v(0)}, got), "got %s", got)
}

func TestInstantiateAll(t *testing.T) {
	g := &Const{Name: "g"}
	a := &Ctor{Ind: "Nat", Name: "Z"}
	b := &Const{Name: "two"}

	// body binds two levels: #1 is the first (outermost) binder, #0 the
	// second. args[0] goes to the outermost.
	body := &App{Fn: &App{Fn: g, Arg: v(1)}, Arg: v(0)}
	got := InstantiateAll(body, []Term{a, b})
	assert.True(t, AlphaEq(&App{Fn: &App{Fn: g, Arg: a}, Arg: b}, got), "got %s", got)

	// Free variables above the batch come down len(args) levels.
	assert.True(t, AlphaEq(v(3), InstantiateAll(v(5), []Term{a, b})))

	// Arguments are shifted under binders inside the body.
	under := &Lambda{Name: "x", Ty: &Sort{}, Body: &App{Fn: v(1), Arg: v(0)}}
	got = InstantiateAll(under, []Term{v(7)})
	assert.True(t, AlphaEq(&Lambda{Name: "x", Ty: &Sort{}, Body: &App{Fn: v(8), Arg: v(0)}}, got),
		"got %s", got)

	// No args is the identity.
	assert.Equal(t, body, InstantiateAll(body, nil))
}

func TestOccurs(t *testing.T) {
	assert.True(t, Occurs(0, v(0)))
	assert.False(t, Occurs(0, v(1)))
	assert.True(t, Occurs(0, &Lambda{Name: "x", Ty: &Sort{}, Body: v(1)}))
	assert.False(t, Occurs(0, &Lambda{Name: "x", Ty: &Sort{}, Body: v(0)}))
	assert.True(t, Occurs(2, &Pi{Name: "x", Ty: v(2), Body: &Sort{}}))
}

func TestMapVarsCrossesMatchBranches(t *testing.T) {
	// A branch body sits under one binder per constructor argument.
	m := &Match{
		Ind:    "Nat",
		Scrut:  v(0),
		Motive: &Lambda{Name: "n", Ty: &Ind{Name: "Nat"}, Body: &Ind{Name: "Nat"}},
		Branches: []Branch{
			{Ctor: "Z", Body: v(0)},
			{Ctor: "S", Names: []string{"n"}, Body: &App{Fn: v(1), Arg: v(0)}},
		},
	}

	got := Shift(3, m).(*Match)
	assert.True(t, AlphaEq(v(3), got.Scrut))
	// Z branch binds nothing: its body's var 0 is free and moves.
	assert.True(t, AlphaEq(v(3), got.Branches[0].Body))
	// S branch binds one name: var 0 is bound, var 1 is free.
	assert.True(t, AlphaEq(&App{Fn: v(4), Arg: v(0)}, got.Branches[1].Body))
}
