package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/tarn-lang/tarn/internal/core"
	"github.com/tarn-lang/tarn/internal/kernel"
	"github.com/tarn-lang/tarn/internal/loader"
	"github.com/tarn-lang/tarn/internal/parser"
	"github.com/tarn-lang/tarn/tarnerr"
)

const (
	historyFile = ".tarn_history"
	promptMain  = "tarn> "
	promptCont  = "  ... "
	replHelp    = `
Session commands:
  :help            Show this help
  :quit / :q       Exit the session
  :env             List declared names with their types
  :type <expr>     Print the type of an expression
  :norm <expr>     Print the normal form of an expression
  :load <file>     Check a file into the session
`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive tarn session",
	Long: `Start an interactive session.

Declarations extend the session environment; expressions are checked,
normalized and printed. Multi-line input is gathered until it parses,
and history persists in ~/.tarn_history.`,
	Args: cobra.NoArgs,
	Run:  runRepl,
}

func init() {
	replCmd.Flags().IntVar(&checkMaxSteps, "max-steps", kernel.DefaultMaxSteps, "Reduction step budget")
	replCmd.Flags().StringVarP(&checkSearch, "path", "p", "", "Comma-separated extra search paths for imports")
}

// session holds the mutable state of one interactive run.
type session struct {
	env    *kernel.Environment
	loader *loader.Loader
}

func runRepl(cmd *cobra.Command, args []string) {
	fmt.Println("Tarn session - Ctrl+C cancels input, Ctrl+D exits. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{env: kernel.NewEnvironment(), loader: newLoader()}

	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				break
			}
			continue
		}
		s.eval(input)
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// readInput gathers lines until the parser stops reporting incomplete
// input. Ctrl+C drops the buffer, Ctrl+D ends the session.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C aborts the current input; let the user start again.
			return "", true
		}
		if b.Len() == 0 && strings.TrimSpace(line) == "" {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, _, err := parser.ParseSnippet(src); err != nil && parser.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

// eval checks one declaration block or expression against the session.
func (s *session) eval(src string) {
	file, expr, err := parser.ParseSnippet(src)
	if err != nil {
		fmt.Print(tarnerr.Render(err, "", src))
		return
	}

	if file != nil {
		env, errs := kernel.CheckProgram(s.env, file, kernel.Options{MaxSteps: checkMaxSteps})
		s.env = env
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Print(tarnerr.Render(e, "", src))
			}
			return
		}
		for _, d := range file.Decls {
			fmt.Printf("%s declared\n", d.DeclName())
		}
		return
	}

	term, ty, err := kernel.CheckExpr(s.env, expr, checkMaxSteps)
	if err != nil {
		fmt.Print(tarnerr.Render(err, "", src))
		return
	}
	nf, err := kernel.Normalize(s.env, term, checkMaxSteps)
	if err != nil {
		fmt.Print(tarnerr.Render(err, "", src))
		return
	}
	fmt.Printf("%s\n  : %s\n", nf, ty)
}

// command handles one :-prefixed session command. Returns true to exit.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(replHelp)

	case ":quit", ":q", ":exit":
		return true

	case ":env":
		for _, name := range s.env.Names() {
			decl, _ := s.env.Lookup(name)
			if ty := declTy(decl); ty != nil {
				fmt.Printf("%s : %s\n", name, ty)
			}
		}

	case ":type":
		if rest == "" {
			fmt.Println("usage: :type <expr>")
			return false
		}
		if _, ty, ok := s.checkExpr(rest); ok {
			fmt.Printf("%s\n", ty)
		}

	case ":norm":
		if rest == "" {
			fmt.Println("usage: :norm <expr>")
			return false
		}
		term, _, ok := s.checkExpr(rest)
		if !ok {
			return false
		}
		nf, err := kernel.Normalize(s.env, term, checkMaxSteps)
		if err != nil {
			fmt.Print(tarnerr.Render(err, "", rest))
			return false
		}
		fmt.Printf("%s\n", nf)

	case ":load":
		if rest == "" {
			fmt.Println("usage: :load <file>")
			return false
		}
		files, err := s.loader.LoadFile(rest)
		if err != nil {
			printDiag(err)
			return false
		}
		env, errs := loader.Check(s.env, files, kernel.Options{MaxSteps: checkMaxSteps})
		s.env = env
		for _, e := range errs {
			printDiag(e)
		}
		if len(errs) == 0 {
			fmt.Printf("loaded %s\n", rest)
		}

	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}

// checkExpr parses and type-checks an expression against the session,
// printing any diagnostic itself.
func (s *session) checkExpr(src string) (core.Term, core.Term, bool) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		fmt.Print(tarnerr.Render(err, "", src))
		return nil, nil, false
	}
	term, ty, err := kernel.CheckExpr(s.env, expr, checkMaxSteps)
	if err != nil {
		fmt.Print(tarnerr.Render(err, "", src))
		return nil, nil, false
	}
	return term, ty, true
}

// declTy extracts the declared type of an environment entry.
func declTy(d kernel.Declaration) core.Term {
	switch t := d.(type) {
	case *kernel.InductiveDecl:
		return t.Ty()
	case *kernel.CtorDecl:
		return t.Ty
	case *kernel.FunDecl:
		return t.Ty
	}
	return nil
}
