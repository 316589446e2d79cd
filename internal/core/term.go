// Package core defines the kernel term language and the substitution
// machinery over it. Terms use de Bruijn indices; binder names are kept
// for printing only and never influence equality or substitution.
package core

// Term is a kernel term.
type Term interface {
	String() string
	term()
}

// Var is a bound variable occurrence. Index counts the binders between
// the occurrence and its binder, innermost first. Name is display only.
type Var struct {
	Index int
	Name  string
}

// Sort is the universe Type Level. Type l inhabits Type (l+1).
type Sort struct {
	Level int
}

// Const refers to a global definition or axiom by name.
type Const struct {
	Name string
}

// Ind refers to an inductive family by name.
type Ind struct {
	Name string
}

// Ctor refers to a constructor of an inductive family.
type Ctor struct {
	Ind  string
	Name string
}

// App is the application Fn Arg. Multi-argument application is a spine
// of nested Apps.
type App struct {
	Fn  Term
	Arg Term
}

// Lambda binds one variable of type Ty over Body.
type Lambda struct {
	Name string
	Ty   Term
	Body Term
}

// Pi is the dependent function type forall (Name : Ty), Body. The
// non-dependent arrow A -> B is a Pi whose Body does not use the binder.
type Pi struct {
	Name string
	Ty   Term
	Body Term
}

// Match is an elaborated case analysis over one inductive scrutinee.
// Motive is a function from the scrutinee's type to a universe; the
// type of the whole Match is Motive applied to Scrut.
type Match struct {
	Ind      string
	Scrut    Term
	Motive   Term
	Branches []Branch
}

// Branch handles one constructor. Body binds one variable per entry of
// Names, one for each constructor argument (parameters excluded), first
// argument outermost. Names are display only.
type Branch struct {
	Ctor  string
	Names []string
	Body  Term
}

// NArgs is the number of variables Body binds.
func (b Branch) NArgs() int { return len(b.Names) }

func (*Var) term()    {}
func (*Sort) term()   {}
func (*Const) term()  {}
func (*Ind) term()    {}
func (*Ctor) term()   {}
func (*App) term()    {}
func (*Lambda) term() {}
func (*Pi) term()     {}
func (*Match) term()  {}

// Apply builds the application spine fn a1 ... an.
func Apply(fn Term, args ...Term) Term {
	for _, a := range args {
		fn = &App{Fn: fn, Arg: a}
	}
	return fn
}

// Spine splits nested applications into the head and its arguments in
// application order.
func Spine(t Term) (Term, []Term) {
	var rev []Term
	for {
		app, ok := t.(*App)
		if !ok {
			break
		}
		rev = append(rev, app.Arg)
		t = app.Fn
	}
	args := make([]Term, len(rev))
	for i, a := range rev {
		args[len(rev)-1-i] = a
	}
	return t, args
}

// AlphaEq reports structural equality of two terms. Display names are
// ignored, so this is alpha-equivalence.
func AlphaEq(a, b Term) bool {
	switch ta := a.(type) {
	case *Var:
		tb, ok := b.(*Var)
		return ok && ta.Index == tb.Index
	case *Sort:
		tb, ok := b.(*Sort)
		return ok && ta.Level == tb.Level
	case *Const:
		tb, ok := b.(*Const)
		return ok && ta.Name == tb.Name
	case *Ind:
		tb, ok := b.(*Ind)
		return ok && ta.Name == tb.Name
	case *Ctor:
		tb, ok := b.(*Ctor)
		return ok && ta.Ind == tb.Ind && ta.Name == tb.Name
	case *App:
		tb, ok := b.(*App)
		return ok && AlphaEq(ta.Fn, tb.Fn) && AlphaEq(ta.Arg, tb.Arg)
	case *Lambda:
		tb, ok := b.(*Lambda)
		return ok && AlphaEq(ta.Ty, tb.Ty) && AlphaEq(ta.Body, tb.Body)
	case *Pi:
		tb, ok := b.(*Pi)
		return ok && AlphaEq(ta.Ty, tb.Ty) && AlphaEq(ta.Body, tb.Body)
	case *Match:
		tb, ok := b.(*Match)
		if !ok || ta.Ind != tb.Ind || len(ta.Branches) != len(tb.Branches) {
			return false
		}
		if !AlphaEq(ta.Scrut, tb.Scrut) || !AlphaEq(ta.Motive, tb.Motive) {
			return false
		}
		for i := range ta.Branches {
			ba, bb := ta.Branches[i], tb.Branches[i]
			if ba.Ctor != bb.Ctor || ba.NArgs() != bb.NArgs() || !AlphaEq(ba.Body, bb.Body) {
				return false
			}
		}
		return true
	}
	return false
}

// Binding is one telescope entry.
type Binding struct {
	Name string
	Ty   Term
}

// Telescope is a dependent sequence of bindings; the type of entry i may
// refer to entries before it as bound variables.
type Telescope []Binding

// PiAll folds a telescope into nested Pis around body.
func PiAll(tele Telescope, body Term) Term {
	for i := len(tele) - 1; i >= 0; i-- {
		body = &Pi{Name: tele[i].Name, Ty: tele[i].Ty, Body: body}
	}
	return body
}

// LambdaAll folds a telescope into nested Lambdas around body.
func LambdaAll(tele Telescope, body Term) Term {
	for i := len(tele) - 1; i >= 0; i-- {
		body = &Lambda{Name: tele[i].Name, Ty: tele[i].Ty, Body: body}
	}
	return body
}

// Vars returns the telescope's entries as variable references usable at
// the end of the telescope: entry 0 is the outermost binder, so it has
// the highest index.
func (t Telescope) Vars() []Term {
	out := make([]Term, len(t))
	for i, b := range t {
		out[i] = &Var{Index: len(t) - 1 - i, Name: b.Name}
	}
	return out
}
