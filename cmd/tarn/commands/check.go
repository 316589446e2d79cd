package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tarn-lang/tarn/internal/kernel"
	"github.com/tarn-lang/tarn/internal/lib"
	"github.com/tarn-lang/tarn/internal/loader"
	"github.com/tarn-lang/tarn/tarnerr"
)

var (
	checkStrict   bool
	checkMaxSteps int
	checkSearch   string
)

var checkCmd = &cobra.Command{
	Use:   "check [file.tarn...]",
	Short: "Type-check tarn source files",
	Long: `Type-check tarn source files and print every diagnostic.

Imports are resolved against each file's own directory, then any
--path entries, then the library cache. Each file argument is checked
as an independent program. By default every declaration is checked and
every error reported; --strict stops at the first.

Examples:
  tarn check examples/nat.tarn
  tarn check --strict --max-steps 500000 proofs.tarn
  tarn check -p ./vendor a.tarn b.tarn`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Stop at the first error")
	checkCmd.Flags().IntVar(&checkMaxSteps, "max-steps", kernel.DefaultMaxSteps, "Reduction step budget per declaration")
	checkCmd.Flags().StringVarP(&checkSearch, "path", "p", "", "Comma-separated extra search paths for imports")
}

func runCheck(cmd *cobra.Command, args []string) {
	l := newLoader()
	opts := kernel.Options{Strict: checkStrict, MaxSteps: checkMaxSteps}

	failed := false
	for _, path := range args {
		files, err := l.LoadFile(path)
		if err != nil {
			printDiag(err)
			failed = true
			if checkStrict {
				break
			}
			continue
		}

		env, errs := loader.Check(kernel.NewEnvironment(), files, opts)
		for _, e := range errs {
			printDiag(e)
		}
		if len(errs) > 0 {
			failed = true
			if checkStrict {
				break
			}
			continue
		}
		fmt.Printf("ok %s (%d declarations)\n", path, len(env.Names()))
	}

	if failed {
		os.Exit(1)
	}
}

// newLoader builds the import loader shared by check, eval and repl:
// --path entries first, then every cached library version.
func newLoader() *loader.Loader {
	l := loader.New()
	if checkSearch != "" {
		for _, p := range strings.Split(checkSearch, ",") {
			if p = strings.TrimSpace(p); p != "" {
				l.AddSearchPath(p)
			}
		}
	}
	l.AddSearchPath(lib.DefaultConfig().CachedRoots()...)
	return l
}

// printDiag writes one diagnostic to stderr, rendered as a caret
// snippet when the error names a readable source file.
func printDiag(err error) {
	if m, ok := err.(*tarnerr.MultiError); ok {
		for _, sub := range m.Errors {
			printDiag(sub)
		}
		return
	}
	path := diagPath(err)
	if path != "" {
		if src, rerr := os.ReadFile(path); rerr == nil {
			fmt.Fprintln(os.Stderr, tarnerr.Render(err, path, string(src)))
			return
		}
	}
	fmt.Fprintln(os.Stderr, err)
}

// diagPath extracts the source file an error points into, if any.
func diagPath(err error) string {
	switch e := err.(type) {
	case *tarnerr.SyntaxError:
		return e.Path
	case *tarnerr.CheckError:
		return e.FilePath
	}
	return ""
}
