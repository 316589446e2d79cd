package kernel

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"

	"github.com/tarn-lang/tarn/internal/ast"
	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/tarnerr"
)

// elabMatch elaborates a match expression. want is the type the match
// is being checked against, or nil in inference mode; it is only used
// to synthesize a motive when no 'as' annotation was written.
//
// The motive is always a function of the scrutinee alone. Matching on
// an indexed family therefore requires every constructor to target the
// scrutinee's exact indices; anything finer needs an explicit motive
// and, past that, is out of reach of this elimination form.
func (ck *checker) elabMatch(m *ast.Match, want core.Term) (core.Term, core.Term, error) {
	scrut, sTy, err := ck.infer(m.Scrutinee)
	if err != nil {
		return nil, nil, err
	}
	sTyW, err := ck.norm.whnf(sTy)
	if err != nil {
		return nil, nil, err
	}
	head, sArgs := core.Spine(sTyW)
	indRef, ok := head.(*core.Ind)
	if !ok {
		return nil, nil, at(tarnerr.NewNotAPiOrInductive(sTyW.String()), m.Scrutinee.Pos())
	}
	ind, ok := ck.env.Inductive(indRef.Name)
	if !ok {
		return nil, nil, at(tarnerr.NewNotFound(indRef.Name), m.Scrutinee.Pos())
	}
	paramTerms := sArgs[:ind.NumParams()]

	if err := ck.checkCoverage(m, ind); err != nil {
		return nil, nil, err
	}

	motive, err := ck.elabMotive(m, sTyW, want)
	if err != nil {
		return nil, nil, err
	}

	branches := make([]core.Branch, 0, len(m.Arms))
	for _, arm := range m.Arms {
		br, err := ck.elabBranch(arm, ind, paramTerms, sTyW, motive)
		if err != nil {
			return nil, nil, err
		}
		branches = append(branches, br)
	}

	matchTy, err := ck.norm.whnf(&core.App{Fn: motive, Arg: scrut})
	if err != nil {
		return nil, nil, err
	}
	term := &core.Match{Ind: ind.Name, Scrut: scrut, Motive: motive, Branches: branches}
	return term, matchTy, nil
}

// checkCoverage rejects duplicate, foreign, wrong-arity and missing
// branches before any branch body is looked at.
func (ck *checker) checkCoverage(m *ast.Match, ind *InductiveDecl) error {
	seen := set.New[string](len(m.Arms))
	for _, arm := range m.Arms {
		if seen.Contains(arm.Ctor) {
			return at(tarnerr.NewIllFormed(
				fmt.Sprintf("duplicate branch for constructor %s", arm.Ctor)), arm.Span)
		}
		cd, ok := ck.env.Constructor(arm.Ctor)
		if !ok {
			return at(tarnerr.NewNotFound(arm.Ctor), arm.Span)
		}
		if cd.Ind != ind.Name {
			return at(tarnerr.NewIllFormed(
				fmt.Sprintf("constructor %s does not belong to %s", arm.Ctor, ind.Name)), arm.Span)
		}
		if len(arm.Binders) != cd.NArgs {
			return at(tarnerr.NewIllFormed(
				fmt.Sprintf("constructor %s takes %d arguments, branch binds %d",
					arm.Ctor, cd.NArgs, len(arm.Binders))), arm.Span)
		}
		seen.Insert(arm.Ctor)
	}

	required := set.From(lo.Map(ind.Ctors, func(c *CtorDecl, _ int) string { return c.Name }))
	missingSet := required.Difference(seen)
	if missingSet.Empty() {
		return nil
	}
	// Report in declaration order, not arm order.
	missing := lo.FilterMap(ind.Ctors, func(c *CtorDecl, _ int) (string, bool) {
		return c.Name, missingSet.Contains(c.Name)
	})
	return at(tarnerr.NewCoverageError(missing), m.Span)
}

// elabMotive produces the motive function. Priority: an explicit 'as'
// annotation, then the expected type, then the type of the first branch
// body when it does not depend on the branch's binders.
func (ck *checker) elabMotive(m *ast.Match, scrutTy core.Term, want core.Term) (core.Term, error) {
	if m.Motive != nil {
		mot, motTy, err := ck.infer(m.Motive)
		if err != nil {
			return nil, err
		}
		motTyW, err := ck.norm.whnf(motTy)
		if err != nil {
			return nil, err
		}
		pi, ok := motTyW.(*core.Pi)
		if !ok {
			return nil, at(tarnerr.NewNotAPiOrInductive(motTyW.String()), m.Motive.Pos())
		}
		eq, err := ck.norm.convertible(pi.Ty, scrutTy)
		if err != nil {
			return nil, err
		}
		if !eq {
			return nil, at(tarnerr.NewTypeMismatch(scrutTy.String(), pi.Ty.String()), m.Motive.Pos())
		}
		codW, err := ck.norm.whnf(pi.Body)
		if err != nil {
			return nil, err
		}
		if _, ok := codW.(*core.Sort); !ok {
			return nil, at(tarnerr.NewIllFormed(
				fmt.Sprintf("match motive must land in a universe, found %s", codW)), m.Motive.Pos())
		}
		return mot, nil
	}

	if want != nil {
		return &core.Lambda{Name: "_", Ty: scrutTy, Body: core.Shift(1, want)}, nil
	}

	// Inference mode: lift the first branch body's type when it is
	// independent of the branch binders.
	if len(m.Arms) == 0 {
		return nil, at(tarnerr.NewMotiveRequired(), m.Span)
	}
	arm := m.Arms[0]
	cd, _ := ck.env.Constructor(arm.Ctor)
	ind, _ := ck.env.Inductive(cd.Ind)
	_, args := core.Spine(scrutTy)
	n, _, err := ck.pushBranchBinders(arm, cd, args[:ind.NumParams()])
	if err != nil {
		return nil, err
	}
	_, bodyTy, err := ck.infer(arm.Body)
	ck.pop(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if core.Occurs(i, bodyTy) {
			return nil, at(tarnerr.NewMotiveRequired(), m.Span)
		}
	}
	result := core.Shift(1, core.Shift(-n, bodyTy))
	return &core.Lambda{Name: "_", Ty: scrutTy, Body: result}, nil
}

// pushBranchBinders walks the constructor's type, instantiating its
// parameter binders with the match's parameters and pushing one local
// binder per constructor argument. It returns the number of binders
// pushed and the constructed value's own type under them.
func (ck *checker) pushBranchBinders(arm ast.Arm, cd *CtorDecl, paramTerms []core.Term) (int, core.Term, error) {
	ty := cd.Ty
	for _, p := range paramTerms {
		tyW, err := ck.norm.whnf(ty)
		if err != nil {
			return 0, nil, err
		}
		pi, ok := tyW.(*core.Pi)
		if !ok {
			return 0, nil, tarnerr.NewIllFormed(
				fmt.Sprintf("constructor %s is missing a parameter binder", cd.Name))
		}
		ty = core.Instantiate(pi.Body, p)
	}
	pushed := 0
	for i := 0; i < cd.NArgs; i++ {
		tyW, err := ck.norm.whnf(ty)
		if err != nil {
			ck.pop(pushed)
			return 0, nil, err
		}
		pi, ok := tyW.(*core.Pi)
		if !ok {
			ck.pop(pushed)
			return 0, nil, tarnerr.NewIllFormed(
				fmt.Sprintf("constructor %s is missing an argument binder", cd.Name))
		}
		ck.push(arm.Binders[i], pi.Ty)
		pushed++
		ty = pi.Body
	}
	return pushed, ty, nil
}

// elabBranch checks one branch. Under the branch binders, the
// constructor applied to the parameters and binders must target the
// scrutinee's type, and the body is checked against the motive applied
// to that constructor value.
func (ck *checker) elabBranch(arm ast.Arm, ind *InductiveDecl, paramTerms []core.Term, scrutTy, motive core.Term) (core.Branch, error) {
	cd, _ := ck.env.Constructor(arm.Ctor)
	n, resTy, err := ck.pushBranchBinders(arm, cd, paramTerms)
	if err != nil {
		return core.Branch{}, err
	}
	defer ck.pop(n)

	eq, err := ck.norm.convertible(resTy, core.Shift(n, scrutTy))
	if err != nil {
		return core.Branch{}, err
	}
	if !eq {
		return core.Branch{}, at(tarnerr.NewTypeMismatch(scrutTy.String(), resTy.String()), arm.Span)
	}

	vars := make([]core.Term, n)
	for i := 0; i < n; i++ {
		vars[i] = &core.Var{Index: n - 1 - i, Name: arm.Binders[i]}
	}
	ctorVal := core.Apply(&core.Ctor{Ind: cd.Ind, Name: cd.Name},
		append(lo.Map(paramTerms, func(p core.Term, _ int) core.Term { return core.Shift(n, p) }), vars...)...)
	expected, err := ck.norm.whnf(&core.App{Fn: core.Shift(n, motive), Arg: ctorVal})
	if err != nil {
		return core.Branch{}, err
	}
	body, err := ck.check(arm.Body, expected)
	if err != nil {
		return core.Branch{}, err
	}
	return core.Branch{Ctor: arm.Ctor, Names: arm.Binders, Body: body}, nil
}
