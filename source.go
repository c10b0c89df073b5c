package repocat

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// RemotePrefix marks an input string as a remote repository URL. Anything
// else is treated as a local directory path.
const RemotePrefix = "https://github.com"

// Fetcher clones a remote repository into dir. Implementations must perform a
// shallow fetch: depth 1, single branch. A nil return means dir is populated
// and usable as a root directory.
type Fetcher interface {
	Name() string
	Fetch(url, dir string) error
}

// GitFetcher shallow-clones by invoking the system git executable. It is the
// preferred strategy: the host's git handles auth, proxies, and protocol
// negotiation already configured for the user.
type GitFetcher struct{}

func (GitFetcher) Name() string { return "git" }

func (GitFetcher) Fetch(url, dir string) error {
	bin, err := exec.LookPath("git")
	if err != nil {
		return fmt.Errorf("git executable not found: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(bin, "clone", "--depth", "1", "--single-branch", url, dir)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// GoGitFetcher shallow-clones in process with go-git. It is the fallback for
// hosts without a git executable, with the same depth semantics.
type GoGitFetcher struct{}

func (GoGitFetcher) Name() string { return "go-git" }

func (GoGitFetcher) Fetch(url, dir string) error {
	_, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		return fmt.Errorf("go-git clone failed: %w", err)
	}
	return nil
}

// DefaultFetchers returns the fetch chain in attempt order: subprocess git
// first, then the in-process fallback.
func DefaultFetchers() []Fetcher {
	return []Fetcher{GitFetcher{}, GoGitFetcher{}}
}

// IsRemote reports whether input names a remote repository.
func IsRemote(input string) bool {
	return strings.HasPrefix(input, RemotePrefix)
}

// Source is a resolved local root directory. For remote inputs it owns the
// temporary clone directory; Close removes it. For local inputs Close is a
// no-op.
type Source struct {
	Root    string
	cleanup func() error
}

// Close releases the temporary clone directory, if any. It must be called on
// every exit path of a run, success or failure.
func (s *Source) Close() error {
	if s.cleanup == nil {
		return nil
	}
	return s.cleanup()
}

// Resolve turns input into a local root directory. Local paths must exist and
// be directories. Remote URLs are shallow-cloned into a fresh temporary
// directory, trying each fetcher in order; the first success wins. If every
// fetcher fails, the temporary directory is removed and the error wraps
// ErrAcquire — acquisition failure is fatal for the run, no further fallback.
func Resolve(input string, fetchers []Fetcher, logger *zap.Logger) (*Source, error) {
	if !IsRemote(input) {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w: %v", input, ErrAcquire, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("not a directory %s: %w", input, ErrAcquire)
		}
		return &Source{Root: input}, nil
	}

	dir, err := os.MkdirTemp("", "repocat-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}

	var attempts []error
	for _, f := range fetchers {
		logger.Info("cloning repository",
			zap.String("url", input),
			zap.String("fetcher", f.Name()))

		if err := f.Fetch(input, dir); err != nil {
			logger.Warn("clone attempt failed",
				zap.String("fetcher", f.Name()),
				zap.Error(err))
			attempts = append(attempts, err)

			// A failed attempt may leave a partial clone behind; both git
			// and go-git require an empty target directory.
			if err := resetDir(dir); err != nil {
				os.RemoveAll(dir)
				return nil, err
			}
			continue
		}

		return &Source{
			Root:    dir,
			cleanup: func() error { return os.RemoveAll(dir) },
		}, nil
	}

	os.RemoveAll(dir)
	return nil, fmt.Errorf("clone %s: %w: %v", input, ErrAcquire, errors.Join(attempts...))
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to reset clone directory: %w", err)
	}
	if err := os.Mkdir(dir, 0o700); err != nil {
		return fmt.Errorf("failed to reset clone directory: %w", err)
	}
	return nil
}
