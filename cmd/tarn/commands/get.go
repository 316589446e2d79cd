package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tarn-lang/tarn/internal/lib"
)

var getCmd = &cobra.Command{
	Use:   "get <path>[@version]",
	Short: "Fetch a tarn library into the cache",
	Long: `Fetch a library of .tarn files from its git host into the local
library cache (~/.tarn/lib, or $TARN_CACHE when set). Cached libraries
are added to the import search path of check, eval and repl.

The path can include a version specifier:
  - path@v1.2.3    Specific tag
  - path@latest    Latest semver tag
  - path           Same as @latest

Examples:
  tarn get github.com/example/tarn-data
  tarn get github.com/example/tarn-data@v1.2.0`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func runGet(cmd *cobra.Command, args []string) {
	path, versionSpec := parseLibraryArg(args[0])

	fetcher := lib.NewFetcher(nil)

	var version, dir, hash string
	var err error
	if versionSpec == "" || versionSpec == "latest" {
		fmt.Printf("Fetching latest version of %s...\n", path)
		version, dir, hash, err = fetcher.FetchLatest(path)
	} else {
		fmt.Printf("Fetching %s@%s...\n", path, versionSpec)
		version = versionSpec
		dir, hash, err = fetcher.Fetch(path, versionSpec)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to fetch library: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Added %s@%s %s\n", path, version, hash)
	fmt.Printf("  -> %s\n", dir)
}

// parseLibraryArg splits an argument like "github.com/example/data@v1.2.3"
// into the library path and version specifier (empty if not specified).
func parseLibraryArg(arg string) (path, versionSpec string) {
	if idx := strings.LastIndex(arg, "@"); idx > 0 {
		return arg[:idx], arg[idx+1:]
	}
	return arg, ""
}
