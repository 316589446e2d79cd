package kernel

import (
	"fmt"

	"github.com/tarn-lang/tarn/internal/ast"
	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/tarnerr"
)

// elabInductive validates an inductive declaration: parameter and index
// telescopes, the universe it lands in, and every constructor's shape,
// universe and strict positivity. Nothing is registered here; the
// caller commits the returned declaration.
func (ck *checker) elabInductive(d *ast.Inductive) (*InductiveDecl, error) {
	var params core.Telescope
	for _, b := range d.Params {
		tyT, _, err := ck.checkIsType(b.Ty)
		if err != nil {
			return nil, err
		}
		ck.push(b.Name, tyT)
		params = append(params, core.Binding{Name: b.Name, Ty: tyT})
	}
	defer ck.pop(len(params))

	arityT, _, err := ck.checkIsType(d.Arity)
	if err != nil {
		return nil, err
	}
	indices, level, err := ck.splitArity(arityT, d.Arity.Pos())
	if err != nil {
		return nil, err
	}

	// Constructors may mention the family, so they are elaborated in a
	// scratch environment holding the bare type former.
	former := &InductiveDecl{Name: d.Name, Params: params, Indices: indices, Level: level}
	scratch := ck.env.Clone()
	if err := scratch.DeclareInductive(former); err != nil {
		return nil, err
	}
	cck := newChecker(scratch, ck.norm.limit)
	cck.ctx = append(core.Telescope(nil), params...)

	ctors := make([]*CtorDecl, 0, len(d.Ctors))
	for _, c := range d.Ctors {
		ctyT, lvl, err := cck.checkIsType(c.Ty)
		if err != nil {
			return nil, err
		}
		if lvl > level {
			return nil, at(tarnerr.NewIllFormed(fmt.Sprintf(
				"constructor %s lives in a larger universe than %s", c.Name, d.Name)), c.Span)
		}
		nargs, err := cck.validateCtor(d.Name, c, ctyT, len(params))
		if err != nil {
			return nil, err
		}
		ctors = append(ctors, &CtorDecl{
			Name:  c.Name,
			Ind:   d.Name,
			NArgs: nargs,
			Ty:    core.PiAll(params, ctyT),
		})
	}

	return &InductiveDecl{
		Name:    d.Name,
		Params:  params,
		Indices: indices,
		Level:   level,
		Ctors:   ctors,
	}, nil
}

// splitArity decomposes an elaborated arity into its index telescope
// and final universe level.
func (ck *checker) splitArity(t core.Term, pos ast.Span) (core.Telescope, int, error) {
	var tele core.Telescope
	for {
		w, err := ck.norm.whnf(t)
		if err != nil {
			return nil, 0, err
		}
		switch x := w.(type) {
		case *core.Sort:
			return tele, x.Level, nil
		case *core.Pi:
			tele = append(tele, core.Binding{Name: x.Name, Ty: x.Ty})
			t = x.Body
		default:
			return nil, 0, at(tarnerr.NewIllFormed(
				"inductive arity must be a telescope ending in a universe"), pos)
		}
	}
}

// validateCtor checks a constructor's elaborated type: it must be an
// argument telescope targeting the family applied to the parameters
// unchanged, with the family occurring only strictly positively. It
// returns the argument count.
func (cck *checker) validateCtor(indName string, c ast.Ctor, ctyT core.Term, numParams int) (int, error) {
	var args core.Telescope
	t := ctyT
	for {
		w, err := cck.norm.whnf(t)
		if err != nil {
			return 0, err
		}
		pi, ok := w.(*core.Pi)
		if !ok {
			t = w
			break
		}
		args = append(args, core.Binding{Name: pi.Name, Ty: pi.Ty})
		t = pi.Body
	}

	head, rargs := core.Spine(t)
	indR, ok := head.(*core.Ind)
	if !ok || indR.Name != indName {
		return 0, at(tarnerr.NewIllFormed(fmt.Sprintf(
			"constructor %s must construct %s", c.Name, indName)), c.Span)
	}
	if len(rargs) < numParams {
		return 0, at(tarnerr.NewIllFormed(fmt.Sprintf(
			"constructor %s must apply %s to its parameters unchanged", c.Name, indName)), c.Span)
	}
	for i := 0; i < numParams; i++ {
		want := len(args) + numParams - 1 - i
		v, ok := rargs[i].(*core.Var)
		if !ok || v.Index != want {
			return 0, at(tarnerr.NewIllFormed(fmt.Sprintf(
				"constructor %s must apply %s to its parameters unchanged", c.Name, indName)), c.Span)
		}
	}
	for _, idx := range rargs[numParams:] {
		if occursInd(indName, idx) {
			return 0, at(tarnerr.NewNonPositiveOccurrence(indName, c.Name), c.Span)
		}
	}

	for _, a := range args {
		if err := cck.checkPositive(indName, c.Name, a.Ty); err != nil {
			if ce, ok := err.(*tarnerr.CheckError); ok {
				return 0, at(ce, c.Span)
			}
			return 0, err
		}
	}
	return len(args), nil
}

// checkPositive enforces strict positivity for one constructor
// argument type: the family may appear only as the head of the
// argument's final target, applied to terms that do not mention it.
// Definitions are unfolded first so aliases cannot hide an occurrence.
func (cck *checker) checkPositive(ind, ctor string, argTy core.Term) error {
	norm, err := cck.norm.normalize(argTy)
	if err != nil {
		return err
	}
	if !occursInd(ind, norm) {
		return nil
	}
	t := norm
	for {
		pi, ok := t.(*core.Pi)
		if !ok {
			break
		}
		if occursInd(ind, pi.Ty) {
			return tarnerr.NewNonPositiveOccurrence(ind, ctor)
		}
		t = pi.Body
	}
	head, hargs := core.Spine(t)
	if h, ok := head.(*core.Ind); ok && h.Name == ind {
		for _, a := range hargs {
			if occursInd(ind, a) {
				return tarnerr.NewNonPositiveOccurrence(ind, ctor)
			}
		}
		return nil
	}
	return tarnerr.NewNonPositiveOccurrence(ind, ctor)
}

// occursInd reports whether the family name occurs anywhere in t,
// either as the family itself or through one of its constructors.
func occursInd(name string, t core.Term) bool {
	switch tm := t.(type) {
	case *core.Ind:
		return tm.Name == name
	case *core.Ctor:
		return tm.Ind == name
	case *core.App:
		return occursInd(name, tm.Fn) || occursInd(name, tm.Arg)
	case *core.Lambda:
		return occursInd(name, tm.Ty) || occursInd(name, tm.Body)
	case *core.Pi:
		return occursInd(name, tm.Ty) || occursInd(name, tm.Body)
	case *core.Match:
		if tm.Ind == name || occursInd(name, tm.Scrut) || occursInd(name, tm.Motive) {
			return true
		}
		for _, br := range tm.Branches {
			if occursInd(name, br.Body) {
				return true
			}
		}
		return false
	}
	return false
}
