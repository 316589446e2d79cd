package kernel

import (
	"github.com/tarn-lang/tarn/internal/ast"
	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/tarnerr"
)

// Options configure program checking.
type Options struct {
	// Strict stops at the first failing declaration. The default keeps
	// going, skipping the failed declaration so later errors still
	// surface.
	Strict bool
	// MaxSteps bounds reduction per declaration; non-positive means
	// DefaultMaxSteps.
	MaxSteps int
}

// CheckProgram checks file's declarations in order. env is never
// mutated; the returned environment extends it with every declaration
// that checked, and the error slice carries one entry per declaration
// that did not. A declaration is committed only after it has fully
// checked, so a failure leaves no partial state behind.
func CheckProgram(env *Environment, file *ast.File, opts Options) (*Environment, []error) {
	work := env.Clone()
	var errs []error
	for _, d := range file.Decls {
		if err := checkDecl(work, d, opts.MaxSteps); err != nil {
			errs = append(errs, decorate(err, d, file.Path))
			if opts.Strict {
				break
			}
		}
	}
	return work, errs
}

func decorate(err error, d ast.Decl, path string) error {
	ce, ok := err.(*tarnerr.CheckError)
	if !ok {
		return err
	}
	ce = ce.WithDecl(d.DeclName()).WithFile(path)
	pos := d.Pos()
	if pos.Known() {
		ce = ce.WithPos(pos.Line, pos.Column)
	}
	return ce
}

func checkDecl(env *Environment, d ast.Decl, maxSteps int) error {
	switch dd := d.(type) {
	case *ast.Inductive:
		ck := newChecker(env, maxSteps)
		ind, err := ck.elabInductive(dd)
		if err != nil {
			return err
		}
		return env.DeclareInductive(ind)

	case *ast.Axiom:
		ck := newChecker(env, maxSteps)
		ty, _, err := ck.checkIsType(dd.Ty)
		if err != nil {
			return err
		}
		return env.DeclareFunction(&FunDecl{Name: dd.Name, Ty: ty})

	case *ast.Def:
		if env.Contains(dd.Name) {
			return tarnerr.NewDuplicateName(dd.Name)
		}
		ck := newChecker(env, maxSteps)
		var tele core.Telescope
		for _, b := range dd.Params {
			tyT, _, err := ck.checkIsType(b.Ty)
			if err != nil {
				return err
			}
			ck.push(b.Name, tyT)
			tele = append(tele, core.Binding{Name: b.Name, Ty: tyT})
		}
		retT, _, err := ck.checkIsType(dd.Ret)
		if err != nil {
			return err
		}
		sig := core.PiAll(tele, retT)

		// The definition's own signature is visible while its body
		// checks, so recursion elaborates; the body is not installed
		// until checking succeeds, so recursive calls stay opaque.
		scratch := env.Clone()
		if err := scratch.DeclareFunction(&FunDecl{Name: dd.Name, Ty: sig}); err != nil {
			return err
		}
		bck := newChecker(scratch, maxSteps)
		bck.ctx = append(core.Telescope(nil), tele...)
		body, err := bck.check(dd.Body, retT)
		if err != nil {
			return err
		}
		return env.DeclareFunction(&FunDecl{
			Name: dd.Name,
			Ty:   sig,
			Body: core.LambdaAll(tele, body),
		})
	}
	return tarnerr.NewIllFormed("unsupported declaration form")
}

// CheckExpr elaborates a standalone expression against env and returns
// its kernel term and type.
func CheckExpr(env *Environment, e ast.Expr, maxSteps int) (core.Term, core.Term, error) {
	ck := newChecker(env, maxSteps)
	return ck.infer(e)
}

// Normalize fully reduces a kernel term.
func Normalize(env *Environment, t core.Term, maxSteps int) (core.Term, error) {
	return newNormalizer(env, maxSteps).normalize(t)
}

// Whnf reduces a kernel term to weak-head normal form.
func Whnf(env *Environment, t core.Term, maxSteps int) (core.Term, error) {
	return newNormalizer(env, maxSteps).whnf(t)
}

// Convertible reports definitional equality of two kernel terms.
func Convertible(env *Environment, a, b core.Term, maxSteps int) (bool, error) {
	return newNormalizer(env, maxSteps).convertible(a, b)
}
