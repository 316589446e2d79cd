// Package ast defines the surface syntax tree produced by the parser and
// consumed by the kernel's elaborator. Nodes carry 1-based source positions
// which the kernel passes through into diagnostics unchanged.
package ast

// Span is a source position. The zero Span means "unknown".
type Span struct {
	Line   int
	Column int
}

// Known reports whether the span carries a real position.
func (s Span) Known() bool { return s.Line > 0 }

// File is one parsed source file.
type File struct {
	Module  string // optional module header, "" when absent
	Imports []Import
	Decls   []Decl
	Path    string // where the file was read from, "" for REPL input
}

// Import is a dotted import path: import data.nat -> ["data", "nat"].
type Import struct {
	Path []string
	Span Span
}

// Decl is a top-level declaration.
type Decl interface {
	DeclName() string
	Pos() Span
	decl()
}

// Binder is a single typed binder (x : A). Grouped surface binders
// (x y : A) are expanded by the parser into one Binder per name.
type Binder struct {
	Name string
	Ty   Expr
	Span Span
}

// Inductive is an inductive family declaration:
//
//	inductive Eq (A : Type) (x : A) : A -> Type
//	| Refl : Eq A x x
//	end
//
// Arity is the part after the colon and must elaborate to a (possibly
// empty) index telescope ending in a universe.
type Inductive struct {
	Name   string
	Params []Binder
	Arity  Expr
	Ctors  []Ctor
	Span   Span
}

func (d *Inductive) DeclName() string { return d.Name }
func (d *Inductive) Pos() Span        { return d.Span }
func (d *Inductive) decl()            {}

// Ctor is one constructor declaration inside an inductive.
type Ctor struct {
	Name string
	Ty   Expr
	Span Span
}

// Def is a function or constant definition:
//
//	def add (x : Nat) (y : Nat) : Nat := ...
type Def struct {
	Name   string
	Params []Binder
	Ret    Expr
	Body   Expr
	Span   Span
}

func (d *Def) DeclName() string { return d.Name }
func (d *Def) Pos() Span        { return d.Span }
func (d *Def) decl()            {}

// Axiom is an extern declaration: a name given a type but no body.
type Axiom struct {
	Name string
	Ty   Expr
	Span Span
}

func (d *Axiom) DeclName() string { return d.Name }
func (d *Axiom) Pos() Span        { return d.Span }
func (d *Axiom) decl()            {}

// Expr is a surface expression.
type Expr interface {
	Pos() Span
	expr()
}

// Name is an identifier occurrence; resolution to a local binder or a
// global declaration happens during elaboration.
type Name struct {
	Ident string
	Span  Span
}

func (e *Name) Pos() Span { return e.Span }
func (e *Name) expr()     {}

// App is a single application node; the parser left-associates
// juxtaposition, so f a b becomes App(App(f, a), b).
type App struct {
	Fn   Expr
	Arg  Expr
	Span Span
}

func (e *App) Pos() Span { return e.Span }
func (e *App) expr()     {}

// Lambda is fun (x : A) ... => body. Binders are curried one at a time
// during elaboration.
type Lambda struct {
	Binders []Binder
	Body    Expr
	Span    Span
}

func (e *Lambda) Pos() Span { return e.Span }
func (e *Lambda) expr()     {}

// Pi is forall (x : A) ..., body. The arrow form A -> B parses into a Pi
// with the binder name "_".
type Pi struct {
	Binders []Binder
	Body    Expr
	Span    Span
}

func (e *Pi) Pos() Span { return e.Span }
func (e *Pi) expr()     {}

// Sort is the universe former: Type is level 0, Type 3 is level 3.
type Sort struct {
	Level int
	Span  Span
}

func (e *Sort) Pos() Span { return e.Span }
func (e *Sort) expr()     {}

// Let is let x [: T] := v in body.
type Let struct {
	Name string
	Ty   Expr // nil when the annotation was omitted
	Val  Expr
	Body Expr
	Span Span
}

func (e *Let) Pos() Span { return e.Span }
func (e *Let) expr()     {}

// Match is match scrutinee [as motive] with | C x y => e ... end.
type Match struct {
	Scrutinee Expr
	Motive    Expr // nil when the motive is to be inferred
	Arms      []Arm
	Span      Span
}

func (e *Match) Pos() Span { return e.Span }
func (e *Match) expr()     {}

// Arm is one match branch. Binders name the constructor's arguments in
// order; "_" discards one.
type Arm struct {
	Ctor    string
	Binders []string
	Body    Expr
	Span    Span
}
