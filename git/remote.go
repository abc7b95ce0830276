/*
Copyright © 2026 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package git

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/logging"
)

// RemotePrefix marks a blueprint location stored in a git repository:
//
//	git::https://github.com/acme/stacks.git//web/blueprint.yaml?ref=v1.2.0
const RemotePrefix = "git::"

// ErrInvalidRemote is returned for a malformed git:: location.
var ErrInvalidRemote = errors.New("invalid git blueprint location")

// Remote is a file inside a git repository at an optional ref.
type Remote struct {
	URL  string
	Path string
	Ref  string
}

// String renders the remote in git:: form.
func (r Remote) String() string {
	s := RemotePrefix + r.URL + "//" + r.Path
	if r.Ref != "" {
		s += "?ref=" + r.Ref
	}
	return s
}

// IsRemote reports whether location uses the git:: form.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, RemotePrefix)
}

// ParseRemote parses a git::<url>//<path>[?ref=<ref>] location. The path
// must stay inside the repository.
func ParseRemote(location string) (Remote, error) {
	if !IsRemote(location) {
		return Remote{}, fmt.Errorf("%w: %q lacks the %s prefix", ErrInvalidRemote, location, RemotePrefix)
	}
	rest := strings.TrimPrefix(location, RemotePrefix)

	var r Remote
	if before, ref, ok := strings.Cut(rest, "?ref="); ok {
		rest, r.Ref = before, ref
	}

	start := 0
	if i := strings.Index(rest, "://"); i >= 0 {
		start = i + len("://")
	}
	sep := strings.Index(rest[start:], "//")
	if sep < 0 {
		return Remote{}, fmt.Errorf("%w: %q has no //path after the repository URL", ErrInvalidRemote, location)
	}
	r.URL = rest[:start+sep]
	r.Path = rest[start+sep+2:]

	if r.URL == "" || r.Path == "" {
		return Remote{}, fmt.Errorf("%w: %q needs a repository URL and a path", ErrInvalidRemote, location)
	}
	if !filepath.IsLocal(r.Path) {
		return Remote{}, fmt.Errorf("%w: path %q leaves the repository", ErrInvalidRemote, r.Path)
	}
	return r, nil
}

// Fetcher clones blueprint repositories into a cache directory.
type Fetcher struct {
	cacheDir string
}

// NewFetcher returns a fetcher caching clones under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{cacheDir: cacheDir}
}

// DefaultCacheDir returns the user cache directory for blueprint clones.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return filepath.Join(dir, config.AppName, "blueprints"), nil
}

// ResolveLocation resolves location with a fetcher caching under
// DefaultCacheDir. Plain paths never touch the cache.
func ResolveLocation(ctx context.Context, location string) (string, error) {
	if !IsRemote(location) {
		return location, nil
	}
	cacheDir, err := DefaultCacheDir()
	if err != nil {
		return "", err
	}
	return NewFetcher(cacheDir).Resolve(ctx, location)
}

// Resolve returns a local path for location. Plain paths are returned as
// they are; git:: locations are fetched first.
func (f *Fetcher) Resolve(ctx context.Context, location string) (string, error) {
	if !IsRemote(location) {
		return location, nil
	}
	remote, err := ParseRemote(location)
	if err != nil {
		return "", err
	}
	return f.Fetch(ctx, remote)
}

// Fetch clones or updates the repository of r, checks out r.Ref and returns
// the local path of r.Path.
func (f *Fetcher) Fetch(ctx context.Context, r Remote) (string, error) {
	repoPath := f.cachePath(r.URL, r.Ref)

	repo, err := git.PlainOpen(repoPath)
	switch {
	case err == nil:
		logging.DebugContext(ctx, "Repository already cached at %s, fetching updates", repoPath)
		if err := update(ctx, repo); err != nil {
			logging.WarnContext(ctx, "Failed to fetch updates, using cached version: %v", err)
		}
	case errors.Is(err, git.ErrRepositoryNotExists):
		logging.InfoContext(ctx, "Cloning %s", logging.RedactSensitivePatterns(r.URL))
		repo, err = git.PlainCloneContext(ctx, repoPath, false, &git.CloneOptions{URL: r.URL, Tags: git.AllTags})
		if err != nil {
			_ = os.RemoveAll(repoPath)
			return "", fmt.Errorf("failed to clone %s: %w", r.URL, err)
		}
	default:
		return "", fmt.Errorf("failed to open cached repository %s: %w", repoPath, err)
	}

	if err := checkout(repo, r.Ref); err != nil {
		return "", err
	}

	path := filepath.Join(repoPath, filepath.FromSlash(r.Path))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s not found in %s: %w", r.Path, r.URL, err)
	}
	return path, nil
}

// update fetches every branch and tag from origin.
func update(ctx context.Context, repo *git.Repository) error {
	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Tags:       git.AllTags,
		Force:      true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// checkout moves the worktree to ref: a tag, a branch or a commit hash. An
// empty ref follows the branch the clone started on.
func checkout(repo *git.Repository, ref string) error {
	candidates := []string{"origin/" + ref, ref}
	if ref == "" {
		candidates = []string{"HEAD"}
		if branch := trackedBranch(repo); branch != "" {
			candidates = []string{"origin/" + branch, "HEAD"}
		}
	}

	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			continue
		}
		w, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		if err := w.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
			return fmt.Errorf("failed to checkout %s: %w", candidate, err)
		}
		return nil
	}
	return fmt.Errorf("could not checkout ref %q: not a tag, branch or commit", ref)
}

// trackedBranch returns the branch the clone set up to track origin, which
// stays known after the worktree is detached.
func trackedBranch(repo *git.Repository) string {
	cfg, err := repo.Config()
	if err != nil {
		return ""
	}
	for _, b := range cfg.Branches {
		if b.Remote == "origin" && b.Merge.IsBranch() {
			return b.Merge.Short()
		}
	}
	return ""
}

// cachePath maps a repository URL and ref to a directory under the cache.
func (f *Fetcher) cachePath(repoURL, ref string) string {
	clean := repoURL
	for _, prefix := range []string{"https://", "http://", "ssh://", "file://", "git@"} {
		clean = strings.TrimPrefix(clean, prefix)
	}
	clean = strings.ReplaceAll(clean, ":", "/")
	clean = strings.ReplaceAll(clean, "..", "_")
	clean = strings.TrimSuffix(clean, ".git")

	if ref != "" {
		sum := sha256.Sum256([]byte(ref))
		clean = filepath.Join(clean, fmt.Sprintf("%x", sum)[:8])
	}
	return filepath.Join(f.cacheDir, clean)
}
