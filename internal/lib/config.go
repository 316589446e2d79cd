// Package lib fetches tarn libraries from git hosting into a local
// cache and verifies their content hashes. A library is a plain tree
// of .tarn files; versions are git tags.
package lib

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config locates the library cache on disk.
type Config struct {
	// CacheDir is the root of the cache. Defaults to the TARN_CACHE
	// environment variable, then ~/.tarn/lib.
	CacheDir string
}

// DefaultConfig resolves the cache directory.
func DefaultConfig() *Config {
	return &Config{CacheDir: defaultCacheDir()}
}

func defaultCacheDir() string {
	if dir := os.Getenv("TARN_CACHE"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tarn", "lib")
	}
	return filepath.Join(home, ".tarn", "lib")
}

// EnsureDirs creates the cache root if it does not exist.
func (c *Config) EnsureDirs() error {
	return os.MkdirAll(c.CacheDir, 0755)
}

// LibraryDir returns where one library version lives:
// CacheDir/host/owner/repo@version.
func (c *Config) LibraryDir(path, version string) string {
	return filepath.Join(c.CacheDir, path+"@"+version)
}

// IsCached reports whether a library version is present.
func (c *Config) IsCached(path, version string) bool {
	info, err := os.Stat(c.LibraryDir(path, version))
	return err == nil && info.IsDir()
}

// CachedRoots returns every path@version directory in the cache. Each
// one is a library root whose .tarn files keep their in-repo layout,
// so the list can be handed to the import loader as search paths.
func (c *Config) CachedRoots() []string {
	var roots []string
	filepath.WalkDir(c.CacheDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && strings.Contains(d.Name(), "@") {
			roots = append(roots, p)
			return fs.SkipDir
		}
		return nil
	})
	return roots
}
