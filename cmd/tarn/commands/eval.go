package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tarn-lang/tarn/internal/kernel"
	"github.com/tarn-lang/tarn/internal/loader"
	"github.com/tarn-lang/tarn/internal/parser"
)

var evalExpr string

var evalCmd = &cobra.Command{
	Use:   "eval [file.tarn]",
	Short: "Normalize an expression",
	Long: `Type-check an expression and print its normal form and type.

When a file is given it is checked first and the expression is
evaluated against the resulting environment, so it can refer to the
file's declarations.

Examples:
  tarn eval -e "fun (A : Type) (x : A) => x"
  tarn eval -e "add two (S two)" examples/nat.tarn
  tarn eval -e "Vec Nat two" --max-steps 500000 examples/vec.tarn`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "Expression to evaluate")
	evalCmd.Flags().IntVar(&checkMaxSteps, "max-steps", kernel.DefaultMaxSteps, "Reduction step budget")
	evalCmd.Flags().StringVarP(&checkSearch, "path", "p", "", "Comma-separated extra search paths for imports")
}

func runEval(cmd *cobra.Command, args []string) {
	if evalExpr == "" {
		fmt.Fprintln(os.Stderr, "Error: no expression specified")
		fmt.Fprintln(os.Stderr, "Usage: tarn eval -e EXPR [file.tarn]")
		os.Exit(1)
	}

	env := kernel.NewEnvironment()
	if len(args) > 0 {
		files, err := newLoader().LoadFile(args[0])
		if err != nil {
			printDiag(err)
			os.Exit(1)
		}
		var errs []error
		env, errs = loader.Check(env, files, kernel.Options{Strict: true, MaxSteps: checkMaxSteps})
		if len(errs) > 0 {
			for _, e := range errs {
				printDiag(e)
			}
			os.Exit(1)
		}
	}

	e, err := parser.ParseExpr(evalExpr)
	if err != nil {
		printDiag(err)
		os.Exit(1)
	}

	term, ty, err := kernel.CheckExpr(env, e, checkMaxSteps)
	if err != nil {
		printDiag(err)
		os.Exit(1)
	}
	nf, err := kernel.Normalize(env, term, checkMaxSteps)
	if err != nil {
		printDiag(err)
		os.Exit(1)
	}

	fmt.Printf("%s\n  : %s\n", nf, ty)
}
