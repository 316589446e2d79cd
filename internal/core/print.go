package core

import (
	"fmt"
	"strings"
)

// Rendering precedence, loosest first.
const (
	precExpr = iota // binders, arrows, match
	precApp
	precAtom
)

func (t *Var) String() string    { return render(t, precExpr) }
func (t *Sort) String() string   { return render(t, precExpr) }
func (t *Const) String() string  { return render(t, precExpr) }
func (t *Ind) String() string    { return render(t, precExpr) }
func (t *Ctor) String() string   { return render(t, precExpr) }
func (t *App) String() string    { return render(t, precExpr) }
func (t *Lambda) String() string { return render(t, precExpr) }
func (t *Pi) String() string     { return render(t, precExpr) }
func (t *Match) String() string  { return render(t, precExpr) }

func render(t Term, prec int) string {
	switch tm := t.(type) {
	case *Var:
		if tm.Name != "" {
			return tm.Name
		}
		return fmt.Sprintf("#%d", tm.Index)
	case *Sort:
		if tm.Level == 0 {
			return "Type"
		}
		return fmt.Sprintf("Type %d", tm.Level)
	case *Const:
		return tm.Name
	case *Ind:
		return tm.Name
	case *Ctor:
		return tm.Name
	case *App:
		s := render(tm.Fn, precApp) + " " + render(tm.Arg, precAtom)
		return wrap(s, prec, precApp)
	case *Lambda:
		s := fmt.Sprintf("fun (%s : %s) => %s",
			binderName(tm.Name), render(tm.Ty, precExpr), render(tm.Body, precExpr))
		return wrap(s, prec, precExpr)
	case *Pi:
		var s string
		if Occurs(0, tm.Body) {
			s = fmt.Sprintf("forall (%s : %s), %s",
				binderName(tm.Name), render(tm.Ty, precExpr), render(tm.Body, precExpr))
		} else {
			s = render(tm.Ty, precApp) + " -> " + render(tm.Body, precExpr)
		}
		return wrap(s, prec, precExpr)
	case *Match:
		var sb strings.Builder
		sb.WriteString("match ")
		sb.WriteString(render(tm.Scrut, precExpr))
		sb.WriteString(" with")
		for _, br := range tm.Branches {
			sb.WriteString(" | ")
			sb.WriteString(br.Ctor)
			for _, n := range br.Names {
				sb.WriteString(" ")
				sb.WriteString(binderName(n))
			}
			sb.WriteString(" => ")
			sb.WriteString(render(br.Body, precExpr))
		}
		sb.WriteString(" end")
		return wrap(sb.String(), prec, precExpr)
	}
	return "?"
}

func wrap(s string, want, have int) string {
	if have < want {
		return "(" + s + ")"
	}
	return s
}

func binderName(name string) string {
	if name == "" {
		return "_"
	}
	return name
}
