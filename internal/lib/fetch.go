package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Fetcher downloads libraries from git hosting into the cache.
type Fetcher struct {
	config *Config
}

// NewFetcher creates a Fetcher over config, defaulting it when nil.
func NewFetcher(config *Config) *Fetcher {
	if config == nil {
		config = DefaultConfig()
	}
	return &Fetcher{config: config}
}

// Config returns the fetcher's cache configuration.
func (f *Fetcher) Config() *Config {
	return f.config
}

// Fetch downloads one library version and returns its cache directory
// and content hash. An already-cached version is only re-hashed.
func (f *Fetcher) Fetch(path, version string) (string, string, error) {
	dir := f.config.LibraryDir(path, version)
	if f.config.IsCached(path, version) {
		hash, err := HashDir(dir)
		return dir, hash, err
	}

	if err := f.config.EnsureDirs(); err != nil {
		return "", "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "tarn-fetch-*")
	if err != nil {
		return "", "", err
	}
	defer os.RemoveAll(tempDir)

	repo, err := git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:   gitURL(path),
		Depth: 1,
		Tags:  git.AllTags,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to clone %s: %w", gitURL(path), err)
	}
	if err := checkout(repo, version); err != nil {
		return "", "", fmt.Errorf("failed to checkout %s: %w", version, err)
	}

	if err := store(tempDir, dir); err != nil {
		return "", "", fmt.Errorf("failed to store in cache: %w", err)
	}
	hash, err := HashDir(dir)
	return dir, hash, err
}

// FetchLatest fetches the newest tagged version of a library. It
// returns the version, the cache directory and the content hash.
func (f *Fetcher) FetchLatest(path string) (string, string, string, error) {
	versions, err := f.ListVersions(path)
	if err != nil {
		return "", "", "", err
	}
	if len(versions) == 0 {
		return "", "", "", fmt.Errorf("no versions found for %s", path)
	}
	latest := versions[len(versions)-1].String()
	dir, hash, err := f.Fetch(path, latest)
	return latest, dir, hash, err
}

// ListVersions lists the library's remote semver tags, oldest first.
// Tags that do not parse as versions are skipped.
func (f *Fetcher) ListVersions(path string) ([]Version, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{gitURL(path)},
	})
	refs, err := remote.List(&git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list remote refs: %w", err)
	}

	var versions []Version
	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}
		v, err := ParseVersion(ref.Name().Short())
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	SortVersions(versions)
	return versions, nil
}

// CachedVersions lists the versions of a library already in the cache,
// oldest first.
func (f *Fetcher) CachedVersions(path string) ([]Version, error) {
	matches, err := filepath.Glob(filepath.Join(f.config.CacheDir, path+"@*"))
	if err != nil {
		return nil, err
	}
	var versions []Version
	for _, m := range matches {
		base := filepath.Base(m)
		idx := strings.LastIndex(base, "@")
		if idx < 0 {
			continue
		}
		v, err := ParseVersion(base[idx+1:])
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	SortVersions(versions)
	return versions, nil
}

// checkout resolves version as a tag, then a branch, then a raw
// revision, and checks out the first that resolves.
func checkout(repo *git.Repository, version string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	candidates := []plumbing.Revision{
		plumbing.Revision(plumbing.NewTagReferenceName(version)),
		plumbing.Revision(plumbing.NewBranchReferenceName(version)),
		plumbing.Revision(version),
	}
	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(rev)
		if err == nil {
			return worktree.Checkout(&git.CheckoutOptions{Hash: *hash})
		}
	}
	return fmt.Errorf("version not found: %s", version)
}

// store copies the library's .tarn files from src into dest,
// preserving relative paths.
func store(src, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); path != src && (name[0] == '.' || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".tarn" {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0644)
	})
}

// gitURL maps a library path like github.com/owner/repo to its clone
// URL.
func gitURL(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 3 {
		switch parts[0] {
		case "github.com", "gitlab.com", "bitbucket.org":
			return fmt.Sprintf("https://%s/%s/%s.git", parts[0], parts[1], parts[2])
		}
	}
	return "https://" + path + ".git"
}
