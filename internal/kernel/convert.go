package kernel

import (
	"github.com/tarn-lang/tarn/internal/core"
)

// convertible reports definitional equality: both sides are reduced to
// weak-head normal form and compared structurally, recursing into
// subterms. Universe levels must match exactly and no eta rule is
// applied, which keeps the relation symmetric and transitive.
func (n *normalizer) convertible(a, b core.Term) (bool, error) {
	if core.AlphaEq(a, b) {
		return true, nil
	}
	a, err := n.whnf(a)
	if err != nil {
		return false, err
	}
	b, err = n.whnf(b)
	if err != nil {
		return false, err
	}

	switch ta := a.(type) {
	case *core.Sort:
		tb, ok := b.(*core.Sort)
		return ok && ta.Level == tb.Level, nil

	case *core.Var:
		tb, ok := b.(*core.Var)
		return ok && ta.Index == tb.Index, nil

	case *core.Const:
		// Only axioms and self-referencing heads survive whnf.
		tb, ok := b.(*core.Const)
		return ok && ta.Name == tb.Name, nil

	case *core.Ind:
		tb, ok := b.(*core.Ind)
		return ok && ta.Name == tb.Name, nil

	case *core.Ctor:
		tb, ok := b.(*core.Ctor)
		return ok && ta.Ind == tb.Ind && ta.Name == tb.Name, nil

	case *core.App:
		tb, ok := b.(*core.App)
		if !ok {
			return false, nil
		}
		if eq, err := n.convertible(ta.Fn, tb.Fn); err != nil || !eq {
			return false, err
		}
		return n.convertible(ta.Arg, tb.Arg)

	case *core.Lambda:
		tb, ok := b.(*core.Lambda)
		if !ok {
			return false, nil
		}
		if eq, err := n.convertible(ta.Ty, tb.Ty); err != nil || !eq {
			return false, err
		}
		return n.convertible(ta.Body, tb.Body)

	case *core.Pi:
		tb, ok := b.(*core.Pi)
		if !ok {
			return false, nil
		}
		if eq, err := n.convertible(ta.Ty, tb.Ty); err != nil || !eq {
			return false, err
		}
		return n.convertible(ta.Body, tb.Body)

	case *core.Match:
		tb, ok := b.(*core.Match)
		if !ok || ta.Ind != tb.Ind || len(ta.Branches) != len(tb.Branches) {
			return false, nil
		}
		if eq, err := n.convertible(ta.Scrut, tb.Scrut); err != nil || !eq {
			return false, err
		}
		if eq, err := n.convertible(ta.Motive, tb.Motive); err != nil || !eq {
			return false, err
		}
		for i := range ta.Branches {
			ba, bb := ta.Branches[i], tb.Branches[i]
			if ba.Ctor != bb.Ctor || ba.NArgs() != bb.NArgs() {
				return false, nil
			}
			if eq, err := n.convertible(ba.Body, bb.Body); err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}
