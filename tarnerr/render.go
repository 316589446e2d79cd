package tarnerr

import (
	"fmt"
	"strings"
)

// Render formats err as a caret-annotated snippet of src when the error
// carries a source position, and falls back to err.Error() otherwise.
// srcName is shown in the header when non-empty. Output is plain text.
func Render(err error, srcName, src string) string {
	switch e := err.(type) {
	case *SyntaxError:
		return snippet(src, string(e.ErrType), srcName, e.Line, e.Column, e.Msg)
	case *CheckError:
		if e.Line > 0 {
			header := string(e.ErrType)
			if e.Decl != "" {
				header = fmt.Sprintf("%s in %s", e.ErrType, e.Decl)
			}
			return snippet(src, header, srcName, e.Line, e.Column, e.Msg)
		}
		return err.Error()
	case *MultiError:
		var sb strings.Builder
		for i, sub := range e.Errors {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(Render(sub, srcName, src))
		}
		return sb.String()
	default:
		return err.Error()
	}
}

// snippet builds the error header plus up to one line of context before and
// after the offending line, with a caret under the 1-based column. Positions
// out of range are clamped so rendering never fails.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s: %s:%d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	pad := col - 1
	if pad > len(lineTxt) {
		pad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
