package kernel

import (
	"fmt"

	"github.com/tarn-lang/tarn/internal/ast"
	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/tarnerr"
)

// checker elaborates surface expressions into kernel terms. Inference
// and checking are mutually recursive; checking is used wherever an
// expected type is known, which is what lets match expressions pick up
// their motive from context.
type checker struct {
	env  *Environment
	norm *normalizer
	ctx  core.Telescope // local binders, outermost first
}

func newChecker(env *Environment, maxSteps int) *checker {
	return &checker{env: env, norm: newNormalizer(env, maxSteps)}
}

func (ck *checker) push(name string, ty core.Term) {
	ck.ctx = append(ck.ctx, core.Binding{Name: name, Ty: ty})
}

func (ck *checker) pop(k int) {
	ck.ctx = ck.ctx[:len(ck.ctx)-k]
}

// lookupLocal resolves name against the innermost matching binder. The
// returned type is shifted to be valid at the current depth.
func (ck *checker) lookupLocal(name string) (int, core.Term, bool) {
	for i := len(ck.ctx) - 1; i >= 0; i-- {
		if ck.ctx[i].Name == name {
			idx := len(ck.ctx) - 1 - i
			return idx, core.Shift(idx+1, ck.ctx[i].Ty), true
		}
	}
	return 0, nil, false
}

// at pins err to a source span unless an inner site already did.
func at(err *tarnerr.CheckError, s ast.Span) *tarnerr.CheckError {
	if s.Known() {
		return err.WithPos(s.Line, s.Column)
	}
	return err
}

// infer elaborates e and returns its kernel term and type.
func (ck *checker) infer(e ast.Expr) (core.Term, core.Term, error) {
	switch ex := e.(type) {
	case *ast.Sort:
		return &core.Sort{Level: ex.Level}, &core.Sort{Level: ex.Level + 1}, nil

	case *ast.Name:
		if idx, ty, ok := ck.lookupLocal(ex.Ident); ok {
			return &core.Var{Index: idx, Name: ex.Ident}, ty, nil
		}
		if d, ok := ck.env.Inductive(ex.Ident); ok {
			return &core.Ind{Name: d.Name}, d.Ty(), nil
		}
		if d, ok := ck.env.Constructor(ex.Ident); ok {
			return &core.Ctor{Ind: d.Ind, Name: d.Name}, d.Ty, nil
		}
		if d, ok := ck.env.Function(ex.Ident); ok {
			return &core.Const{Name: d.Name}, d.Ty, nil
		}
		return nil, nil, at(tarnerr.NewNotFound(ex.Ident), ex.Span)

	case *ast.App:
		f, fty, err := ck.infer(ex.Fn)
		if err != nil {
			return nil, nil, err
		}
		ftyW, err := ck.norm.whnf(fty)
		if err != nil {
			return nil, nil, err
		}
		pi, ok := ftyW.(*core.Pi)
		if !ok {
			return nil, nil, at(tarnerr.NewNotAFunction(ftyW.String()), ex.Fn.Pos())
		}
		arg, err := ck.check(ex.Arg, pi.Ty)
		if err != nil {
			return nil, nil, err
		}
		return &core.App{Fn: f, Arg: arg}, core.Instantiate(pi.Body, arg), nil

	case *ast.Lambda:
		tys := make([]core.Term, 0, len(ex.Binders))
		for _, b := range ex.Binders {
			tyT, _, err := ck.checkIsType(b.Ty)
			if err != nil {
				ck.pop(len(tys))
				return nil, nil, err
			}
			ck.push(b.Name, tyT)
			tys = append(tys, tyT)
		}
		body, bodyTy, err := ck.infer(ex.Body)
		ck.pop(len(tys))
		if err != nil {
			return nil, nil, err
		}
		term, ty := body, bodyTy
		for i := len(tys) - 1; i >= 0; i-- {
			term = &core.Lambda{Name: ex.Binders[i].Name, Ty: tys[i], Body: term}
			ty = &core.Pi{Name: ex.Binders[i].Name, Ty: tys[i], Body: ty}
		}
		return term, ty, nil

	case *ast.Pi:
		level := 0
		tys := make([]core.Term, 0, len(ex.Binders))
		for _, b := range ex.Binders {
			tyT, l, err := ck.checkIsType(b.Ty)
			if err != nil {
				ck.pop(len(tys))
				return nil, nil, err
			}
			level = max(level, l)
			ck.push(b.Name, tyT)
			tys = append(tys, tyT)
		}
		body, l, err := ck.checkIsType(ex.Body)
		ck.pop(len(tys))
		if err != nil {
			return nil, nil, err
		}
		level = max(level, l)
		term := body
		for i := len(tys) - 1; i >= 0; i-- {
			term = &core.Pi{Name: ex.Binders[i].Name, Ty: tys[i], Body: term}
		}
		return term, &core.Sort{Level: level}, nil

	case *ast.Let:
		var val, valTy core.Term
		var err error
		if ex.Ty != nil {
			valTy, _, err = ck.checkIsType(ex.Ty)
			if err != nil {
				return nil, nil, err
			}
			val, err = ck.check(ex.Val, valTy)
			if err != nil {
				return nil, nil, err
			}
		} else {
			val, valTy, err = ck.infer(ex.Val)
			if err != nil {
				return nil, nil, err
			}
		}
		ck.push(ex.Name, valTy)
		body, bodyTy, err := ck.infer(ex.Body)
		ck.pop(1)
		if err != nil {
			return nil, nil, err
		}
		// Let is not a kernel form; the binding is substituted away.
		return core.Instantiate(body, val), core.Instantiate(bodyTy, val), nil

	case *ast.Match:
		return ck.elabMatch(ex, nil)
	}
	return nil, nil, tarnerr.NewIllFormed(fmt.Sprintf("cannot elaborate %T", e))
}

// check elaborates e against the expected type want.
func (ck *checker) check(e ast.Expr, want core.Term) (core.Term, error) {
	switch ex := e.(type) {
	case *ast.Lambda:
		names := make([]string, 0, len(ex.Binders))
		tys := make([]core.Term, 0, len(ex.Binders))
		cur := want
		for _, b := range ex.Binders {
			curW, err := ck.norm.whnf(cur)
			if err != nil {
				ck.pop(len(tys))
				return nil, err
			}
			pi, ok := curW.(*core.Pi)
			if !ok {
				ck.pop(len(tys))
				return nil, at(tarnerr.NewTypeMismatch(curW.String(), "a function"), b.Span)
			}
			tyT, _, err := ck.checkIsType(b.Ty)
			if err != nil {
				ck.pop(len(tys))
				return nil, err
			}
			eq, err := ck.norm.convertible(tyT, pi.Ty)
			if err != nil {
				ck.pop(len(tys))
				return nil, err
			}
			if !eq {
				ck.pop(len(tys))
				return nil, at(tarnerr.NewTypeMismatch(pi.Ty.String(), tyT.String()), b.Span)
			}
			ck.push(b.Name, tyT)
			names = append(names, b.Name)
			tys = append(tys, tyT)
			cur = pi.Body
		}
		body, err := ck.check(ex.Body, cur)
		ck.pop(len(tys))
		if err != nil {
			return nil, err
		}
		for i := len(tys) - 1; i >= 0; i-- {
			body = &core.Lambda{Name: names[i], Ty: tys[i], Body: body}
		}
		return body, nil

	case *ast.Match:
		t, ty, err := ck.elabMatch(ex, want)
		if err != nil {
			return nil, err
		}
		eq, err := ck.norm.convertible(ty, want)
		if err != nil {
			return nil, err
		}
		if !eq {
			return nil, at(tarnerr.NewTypeMismatch(want.String(), ty.String()), ex.Span)
		}
		return t, nil

	default:
		t, ty, err := ck.infer(e)
		if err != nil {
			return nil, err
		}
		eq, err := ck.norm.convertible(ty, want)
		if err != nil {
			return nil, err
		}
		if !eq {
			return nil, at(tarnerr.NewTypeMismatch(want.String(), ty.String()), e.Pos())
		}
		return t, nil
	}
}

// checkIsType elaborates e, requires it to be a type, and returns the
// elaborated term with its universe level.
func (ck *checker) checkIsType(e ast.Expr) (core.Term, int, error) {
	t, ty, err := ck.infer(e)
	if err != nil {
		return nil, 0, err
	}
	tyW, err := ck.norm.whnf(ty)
	if err != nil {
		return nil, 0, err
	}
	sort, ok := tyW.(*core.Sort)
	if !ok {
		return nil, 0, at(tarnerr.NewIllFormed(
			fmt.Sprintf("expected a type, found a term of type %s", tyW)), e.Pos())
	}
	return t, sort.Level, nil
}
