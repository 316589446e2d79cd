// Package kernel implements the type-checking core: the global
// environment, reduction, definitional equality, the bidirectional
// elaborator and the inductive family validator.
//
// All checking runs single-threaded against one Environment value.
// CheckProgram never mutates the environment it is given; it works on a
// clone and commits each declaration only after it has fully checked.
package kernel

import (
	"sync"

	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/tarnerr"
)

// InductiveDecl is a checked inductive family.
type InductiveDecl struct {
	Name    string
	Params  core.Telescope // parameter telescope
	Indices core.Telescope // index telescope, under Params
	Level   int            // universe the family inhabits
	Ctors   []*CtorDecl    // declaration order
}

// Ty returns the type of the family's type former:
// forall params indices, Type Level.
func (d *InductiveDecl) Ty() core.Term {
	return core.PiAll(d.Params, core.PiAll(d.Indices, &core.Sort{Level: d.Level}))
}

// NumParams is the number of parameters the family abstracts over.
func (d *InductiveDecl) NumParams() int { return len(d.Params) }

// DeclName implements Declaration.
func (d *InductiveDecl) DeclName() string { return d.Name }

// CtorDecl is a checked constructor. Ty is closed:
// forall params, forall args, Ind params indices.
type CtorDecl struct {
	Name  string
	Ind   string
	NArgs int // argument count, parameters excluded
	Ty    core.Term
}

// DeclName implements Declaration.
func (d *CtorDecl) DeclName() string { return d.Name }

// FunDecl is a checked definition, or an axiom when Body is nil. Body,
// when present, is a closed term of type Ty.
type FunDecl struct {
	Name string
	Ty   core.Term
	Body core.Term
}

// DeclName implements Declaration.
func (d *FunDecl) DeclName() string { return d.Name }

// Declaration is any entry of an Environment.
type Declaration interface {
	DeclName() string
}

// Environment is the global declaration table. All declared names share
// one namespace; a second declaration of any name is rejected with
// DuplicateName and leaves the environment untouched. Lookups may run
// concurrently; declarations take the write lock.
type Environment struct {
	mu    sync.RWMutex
	inds  map[string]*InductiveDecl
	ctors map[string]*CtorDecl
	funs  map[string]*FunDecl
	order []string
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{
		inds:  make(map[string]*InductiveDecl),
		ctors: make(map[string]*CtorDecl),
		funs:  make(map[string]*FunDecl),
	}
}

// Clone returns an independent copy. Declarations themselves are
// immutable once committed and are shared between the copies.
func (e *Environment) Clone() *Environment {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := NewEnvironment()
	for k, v := range e.inds {
		out.inds[k] = v
	}
	for k, v := range e.ctors {
		out.ctors[k] = v
	}
	for k, v := range e.funs {
		out.funs[k] = v
	}
	out.order = append([]string(nil), e.order...)
	return out
}

// Names lists all declared names in declaration order. Constructor
// names follow their family's name.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

// Inductive looks up an inductive family.
func (e *Environment) Inductive(name string) (*InductiveDecl, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.inds[name]
	return d, ok
}

// Constructor looks up a constructor.
func (e *Environment) Constructor(name string) (*CtorDecl, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.ctors[name]
	return d, ok
}

// Function looks up a definition or axiom.
func (e *Environment) Function(name string) (*FunDecl, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.funs[name]
	return d, ok
}

// Lookup finds any declaration by name.
func (e *Environment) Lookup(name string) (Declaration, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if d, ok := e.inds[name]; ok {
		return d, true
	}
	if d, ok := e.ctors[name]; ok {
		return d, true
	}
	if d, ok := e.funs[name]; ok {
		return d, true
	}
	return nil, false
}

// Contains reports whether name is declared, in any namespace role.
func (e *Environment) Contains(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

func (e *Environment) takenLocked(name string) bool {
	if _, ok := e.inds[name]; ok {
		return true
	}
	if _, ok := e.ctors[name]; ok {
		return true
	}
	_, ok := e.funs[name]
	return ok
}

// DeclareInductive registers a family together with all its
// constructors. Every name is checked before anything is inserted, so a
// clash leaves the environment exactly as it was.
func (e *Environment) DeclareInductive(d *InductiveDecl) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := []string{d.Name}
	for _, c := range d.Ctors {
		names = append(names, c.Name)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if e.takenLocked(n) || seen[n] {
			return tarnerr.NewDuplicateName(n)
		}
		seen[n] = true
	}

	e.inds[d.Name] = d
	e.order = append(e.order, d.Name)
	for _, c := range d.Ctors {
		e.ctors[c.Name] = c
		e.order = append(e.order, c.Name)
	}
	return nil
}

// DeclareFunction registers a definition or axiom.
func (e *Environment) DeclareFunction(d *FunDecl) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.takenLocked(d.Name) {
		return tarnerr.NewDuplicateName(d.Name)
	}
	e.funs[d.Name] = d
	e.order = append(e.order, d.Name)
	return nil
}
