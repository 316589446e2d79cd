package kernel

import (
	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/tarnerr"
)

// DefaultMaxSteps is the reduction budget used when a caller passes a
// non-positive limit.
const DefaultMaxSteps = 100000

// normalizer reduces terms against one environment snapshot. Every
// beta, iota and delta step draws from the same budget, so a single
// kernel entry point cannot loop forever on a diverging definition.
type normalizer struct {
	env       *Environment
	remaining int
	limit     int
}

func newNormalizer(env *Environment, maxSteps int) *normalizer {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &normalizer{env: env, remaining: maxSteps, limit: maxSteps}
}

func (n *normalizer) step() error {
	if n.remaining <= 0 {
		return tarnerr.NewBudgetExceeded(n.limit)
	}
	n.remaining--
	return nil
}

// whnf reduces t to weak-head normal form: the head is a sort, a
// variable, a binder, an axiom, or a match stuck on a non-constructor
// scrutinee.
func (n *normalizer) whnf(t core.Term) (core.Term, error) {
	var pending []core.Term // arguments peeled off while descending, innermost last
	for {
		switch tm := t.(type) {
		case *core.App:
			pending = append(pending, tm.Arg)
			t = tm.Fn

		case *core.Lambda:
			if len(pending) == 0 {
				return t, nil
			}
			if err := n.step(); err != nil {
				return nil, err
			}
			arg := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			t = core.Instantiate(tm.Body, arg)

		case *core.Const:
			fn, ok := n.env.Function(tm.Name)
			if !ok || fn.Body == nil {
				return reapply(t, pending), nil
			}
			if err := n.step(); err != nil {
				return nil, err
			}
			t = fn.Body

		case *core.Match:
			scrut, err := n.whnf(tm.Scrut)
			if err != nil {
				return nil, err
			}
			head, args := core.Spine(scrut)
			ctor, ok := head.(*core.Ctor)
			if !ok {
				stuck := &core.Match{Ind: tm.Ind, Scrut: scrut, Motive: tm.Motive, Branches: tm.Branches}
				return reapply(stuck, pending), nil
			}
			ind, ok := n.env.Inductive(tm.Ind)
			if !ok {
				return nil, tarnerr.NewNotFound(tm.Ind)
			}
			br, ok := findBranch(tm.Branches, ctor.Name)
			if !ok {
				return nil, tarnerr.NewIllFormed("match has no branch for constructor " + ctor.Name)
			}
			if err := n.step(); err != nil {
				return nil, err
			}
			t = core.InstantiateAll(br.Body, args[ind.NumParams():])

		default:
			return reapply(t, pending), nil
		}
	}
}

// normalize reduces t everywhere reduction can make progress: under
// binders and through stuck application spines. Branch bodies of a
// stuck match are kept as written, since no scrutinee value has picked
// one of them.
func (n *normalizer) normalize(t core.Term) (core.Term, error) {
	t, err := n.whnf(t)
	if err != nil {
		return nil, err
	}
	switch tm := t.(type) {
	case *core.App:
		fn, err := n.normalize(tm.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := n.normalize(tm.Arg)
		if err != nil {
			return nil, err
		}
		return &core.App{Fn: fn, Arg: arg}, nil

	case *core.Lambda:
		ty, err := n.normalize(tm.Ty)
		if err != nil {
			return nil, err
		}
		body, err := n.normalize(tm.Body)
		if err != nil {
			return nil, err
		}
		return &core.Lambda{Name: tm.Name, Ty: ty, Body: body}, nil

	case *core.Pi:
		ty, err := n.normalize(tm.Ty)
		if err != nil {
			return nil, err
		}
		body, err := n.normalize(tm.Body)
		if err != nil {
			return nil, err
		}
		return &core.Pi{Name: tm.Name, Ty: ty, Body: body}, nil

	case *core.Match:
		scrut, err := n.normalize(tm.Scrut)
		if err != nil {
			return nil, err
		}
		motive, err := n.normalize(tm.Motive)
		if err != nil {
			return nil, err
		}
		return &core.Match{Ind: tm.Ind, Scrut: scrut, Motive: motive, Branches: tm.Branches}, nil

	default:
		return t, nil
	}
}

func reapply(head core.Term, pending []core.Term) core.Term {
	for i := len(pending) - 1; i >= 0; i-- {
		head = &core.App{Fn: head, Arg: pending[i]}
	}
	return head
}

func findBranch(branches []core.Branch, ctor string) (core.Branch, bool) {
	for _, br := range branches {
		if br.Ctor == ctor {
			return br, true
		}
	}
	return core.Branch{}, false
}
