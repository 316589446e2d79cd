// Package loader resolves imports and assembles tarn source files into
// a dependency-first order the kernel can check.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/tarn-lang/tarn/internal/ast"
	"github.com/tarn-lang/tarn/internal/kernel"
	"github.com/tarn-lang/tarn/internal/parser"
	"github.com/tarn-lang/tarn/tarnerr"
)

// Loader parses tarn files and resolves their imports against an
// ordered list of search roots. Parsed files are memoized by absolute
// path, so a module reached through several imports is read and parsed
// once even across LoadFile calls.
//
// Example usage:
//
//	l := loader.New("./examples", cfg.CacheDir)
//	files, err := l.LoadFile("examples/nat.tarn")
type Loader struct {
	search []string
	files  map[string]*ast.File
}

// New creates a Loader with the given search roots. Imports are also
// resolved against the directory of the file that declares them, which
// always takes priority over the search roots.
func New(searchPaths ...string) *Loader {
	return &Loader{
		search: searchPaths,
		files:  make(map[string]*ast.File),
	}
}

// AddSearchPath appends roots to the search list.
func (l *Loader) AddSearchPath(paths ...string) {
	l.search = append(l.search, paths...)
}

// visit states for cycle detection.
const (
	visiting = 1
	loaded   = 2
)

// traversal tracks one LoadFile call. The parse memo lives on the
// Loader; the order and cycle state are per call so repeated loads
// (e.g. from a REPL) each produce a complete, duplicate-free order.
type traversal struct {
	loader *Loader
	state  map[string]int
	order  []*ast.File
}

// LoadFile parses the file at path together with everything it
// transitively imports and returns the files dependency-first, the
// requested file last. A file imported along several paths appears
// once. An import cycle is reported as an ImportError naming the chain.
func (l *Loader) LoadFile(path string) ([]*ast.File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, tarnerr.NewImportError(fmt.Sprintf("cannot resolve %s: %v", path, err))
	}
	root := strings.TrimSuffix(filepath.Base(abs), ".tarn")
	t := &traversal{loader: l, state: make(map[string]int)}
	if err := t.visit(abs, []string{root}); err != nil {
		return nil, err
	}
	return t.order, nil
}

// visit loads abs and its imports depth-first. chain holds the module
// names on the path from the root file down to abs itself, so a cycle
// report can print the whole loop.
func (t *traversal) visit(abs string, chain []string) error {
	switch t.state[abs] {
	case loaded:
		return nil
	case visiting:
		return tarnerr.NewImportError("import cycle: " + strings.Join(chain, " -> "))
	}
	t.state[abs] = visiting

	file, err := t.loader.parse(abs)
	if err != nil {
		return err
	}
	fromDir := filepath.Dir(abs)
	for _, imp := range file.Imports {
		name := strings.Join(imp.Path, ".")
		target, err := t.loader.Resolve(imp.Path, fromDir)
		if err != nil {
			return err
		}
		if err := t.visit(target, append(chain, name)); err != nil {
			return err
		}
		if err := checkModuleHeader(t.loader.files[target], name); err != nil {
			return err
		}
	}

	t.state[abs] = loaded
	t.order = append(t.order, file)
	return nil
}

// parse returns the memoized parse of abs, reading it on first use.
func (l *Loader) parse(abs string) (*ast.File, error) {
	if f, ok := l.files[abs]; ok {
		return f, nil
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, tarnerr.NewImportError(fmt.Sprintf("cannot read %s: %v", abs, err))
	}
	f, err := parser.ParseFile(abs, string(src))
	if err != nil {
		return nil, tarnerr.AttachFile(err, abs)
	}
	l.files[abs] = f
	return f, nil
}

// Resolve maps an import path like ["data","nat"] to a filesystem path
// data/nat.tarn, trying fromDir first and then each search root in
// order. The first existing file wins.
func (l *Loader) Resolve(imp []string, fromDir string) (string, error) {
	rel := filepath.Join(imp...) + ".tarn"
	roots := append([]string{fromDir}, l.search...)
	candidates := lo.Map(roots, func(root string, _ int) string {
		return filepath.Join(root, rel)
	})
	for _, cand := range candidates {
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(cand)
			if err != nil {
				return "", tarnerr.NewImportError(fmt.Sprintf("cannot resolve import %s: %v", strings.Join(imp, "."), err))
			}
			return abs, nil
		}
	}
	return "", tarnerr.NewImportError(fmt.Sprintf("cannot resolve import %s: no %s under %s",
		strings.Join(imp, "."), rel, strings.Join(roots, ", ")))
}

// checkModuleHeader verifies that a file loaded for an import declares
// a matching module name, when it declares one at all. The last import
// segment must agree with the header so `import data.nat` cannot load
// a file that calls itself something else.
func checkModuleHeader(f *ast.File, importName string) error {
	if f == nil || f.Module == "" {
		return nil
	}
	parts := strings.Split(importName, ".")
	short := parts[len(parts)-1]
	if f.Module != importName && f.Module != short {
		return tarnerr.NewImportError(fmt.Sprintf("file declares module %s, imported as %s", f.Module, importName)).
			WithFile(f.Path)
	}
	return nil
}

// Check type-checks files in order against env, threading the extended
// Environment from one file into the next. In strict mode checking
// stops at the first failing file; otherwise every file contributes its
// diagnostics and the surviving declarations stay usable.
func Check(env *kernel.Environment, files []*ast.File, opts kernel.Options) (*kernel.Environment, []error) {
	work := env
	var errs []error
	for _, f := range files {
		var ferrs []error
		work, ferrs = kernel.CheckProgram(work, f, opts)
		errs = append(errs, ferrs...)
		if opts.Strict && len(errs) > 0 {
			break
		}
	}
	return work, errs
}
