package loader_test

import (
	"os"
	"path/filepath"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// exampleSearchPath locates the example programs. In Bazel tests they
// come from runfiles; outside Bazel the fallback walks up to the module
// root and uses its examples directory.
func exampleSearchPath() []string {
	if p, err := bazel.Runfile("examples/nat.tarn"); err == nil {
		return []string{filepath.Dir(p)}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return []string{filepath.Join(dir, "examples")}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
