package core

// mapVars rebuilds t bottom-up, replacing every variable occurrence with
// onVar(c, v), where c is the number of binders crossed between the root
// and the occurrence.
func mapVars(c int, onVar func(c int, v *Var) Term, t Term) Term {
	switch tm := t.(type) {
	case *Var:
		return onVar(c, tm)
	case *Sort, *Const, *Ind, *Ctor:
		return t
	case *App:
		return &App{
			Fn:  mapVars(c, onVar, tm.Fn),
			Arg: mapVars(c, onVar, tm.Arg),
		}
	case *Lambda:
		return &Lambda{
			Name: tm.Name,
			Ty:   mapVars(c, onVar, tm.Ty),
			Body: mapVars(c+1, onVar, tm.Body),
		}
	case *Pi:
		return &Pi{
			Name: tm.Name,
			Ty:   mapVars(c, onVar, tm.Ty),
			Body: mapVars(c+1, onVar, tm.Body),
		}
	case *Match:
		branches := make([]Branch, len(tm.Branches))
		for i, br := range tm.Branches {
			branches[i] = Branch{
				Ctor:  br.Ctor,
				Names: br.Names,
				Body:  mapVars(c+br.NArgs(), onVar, br.Body),
			}
		}
		return &Match{
			Ind:      tm.Ind,
			Scrut:    mapVars(c, onVar, tm.Scrut),
			Motive:   mapVars(c, onVar, tm.Motive),
			Branches: branches,
		}
	}
	return t
}

// ShiftAbove adds d to every variable of t whose index is at least c.
func ShiftAbove(d, c int, t Term) Term {
	return mapVars(c, func(c int, v *Var) Term {
		if v.Index >= c {
			return &Var{Index: v.Index + d, Name: v.Name}
		}
		return v
	}, t)
}

// Shift adds d to every free variable of t.
func Shift(d int, t Term) Term {
	return ShiftAbove(d, 0, t)
}

// Subst replaces free variable j of t with s, shifting s as it crosses
// binders so its own free variables keep their meaning.
func Subst(j int, s, t Term) Term {
	return mapVars(0, func(c int, v *Var) Term {
		if v.Index == j+c {
			return Shift(c, s)
		}
		return v
	}, t)
}

// Instantiate substitutes s for the outermost bound variable of body and
// removes that binder level. This is the beta step for Lambda and Pi
// bodies: body and s must live under the same outer context.
func Instantiate(body, s Term) Term {
	return Shift(-1, Subst(0, Shift(1, s), body))
}

// InstantiateAll substitutes args for the len(args) innermost binder
// levels of body in one pass, args[0] for the outermost of them. All
// args live in the outer context.
func InstantiateAll(body Term, args []Term) Term {
	n := len(args)
	if n == 0 {
		return body
	}
	return mapVars(0, func(c int, v *Var) Term {
		if v.Index < c {
			return v
		}
		k := v.Index - c
		if k < n {
			return Shift(c, args[n-1-k])
		}
		return &Var{Index: v.Index - n, Name: v.Name}
	}, body)
}

// Occurs reports whether free variable j occurs in t.
func Occurs(j int, t Term) bool {
	found := false
	mapVars(0, func(c int, v *Var) Term {
		if v.Index == j+c {
			found = true
		}
		return v
	}, t)
	return found
}
