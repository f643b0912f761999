// Package publish pushes the generated site to a git branch, the GitHub
// Pages workflow: the output tree becomes the entire content of the target
// branch (default gh-pages) on the configured remote.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// committer identifies the publishing commits.
var committer = object.Signature{Name: "blogmore", Email: "blogmore@localhost"}

// Publisher pushes a built site to a branch.
type Publisher struct {
	repoPath  string
	outputDir string
	branch    string
	remote    string
}

// New creates a Publisher. repoPath is any path inside the site's source
// repository (usually ".").
func New(repoPath, outputDir, branch, remote string) *Publisher {
	return &Publisher{repoPath: repoPath, outputDir: outputDir, branch: branch, remote: remote}
}

// Publish stages the output directory onto the target branch in a temporary
// clone and pushes it. When the branch does not exist yet it is created
// with no parent history. A build identical to what is already published
// results in no commit and no push.
func (p *Publisher) Publish(ctx context.Context) error {
	if _, err := os.Stat(p.outputDir); err != nil {
		return fmt.Errorf("output directory not found (build first?): %w", err)
	}

	sourceRepo, err := git.PlainOpenWithOptions(p.repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return &NotARepositoryError{Path: p.repoPath, Err: err}
	}
	remote, err := sourceRepo.Remote(p.remote)
	if err != nil {
		return &NoRemoteError{Remote: p.remote, Err: err}
	}
	remoteURL := remote.Config().URLs[0]

	tmp, err := os.MkdirTemp("", "blogmore-publish-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	repo, err := p.checkoutBranch(ctx, tmp, remoteURL)
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	if err := clearWorktree(tmp); err != nil {
		return err
	}
	if err := copyOutput(p.outputDir, tmp); err != nil {
		return err
	}
	// GitHub Pages must not run the tree through Jekyll.
	if err := os.WriteFile(filepath.Join(tmp, ".nojekyll"), nil, 0o644); err != nil {
		return err
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage site: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return err
	}
	if status.IsClean() {
		slog.Info("Nothing to publish, site is up to date")
		return nil
	}

	now := time.Now().UTC()
	message := fmt.Sprintf("Publish site - %s UTC", now.Format("2006-01-02 15:04:05"))
	author := committer
	author.When = now
	commit, err := worktree.Commit(message, &git.CommitOptions{Author: &author})
	if err != nil {
		return fmt.Errorf("commit site: %w", err)
	}
	slog.Info("Committed site", slog.String("commit", commit.String()[:8]), slog.String("branch", p.branch))

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", p.branch, p.branch))
	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: p.remote, RefSpecs: []gitconfig.RefSpec{refSpec}})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return &PushError{Remote: p.remote, Branch: p.branch, Err: err}
	}
	slog.Info("Published site", slog.String("remote", p.remote), slog.String("branch", p.branch))
	return nil
}

// checkoutBranch clones the publishing branch from the remote into dir. A
// remote without that branch (or an empty remote) yields a fresh repository
// whose first commit will create the branch.
func (p *Publisher) checkoutBranch(ctx context.Context, dir, remoteURL string) (*git.Repository, error) {
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           remoteURL,
		RemoteName:    p.remote,
		ReferenceName: plumbing.NewBranchReferenceName(p.branch),
		SingleBranch:  true,
	})
	if err == nil {
		return repo, nil
	}
	if !isMissingBranch(err) {
		return nil, fmt.Errorf("clone %s branch %s: %w", remoteURL, p.branch, err)
	}

	slog.Info("Publishing branch does not exist yet, creating it", slog.String("branch", p.branch))
	repo, err = git.PlainInit(dir, false)
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: p.remote, URLs: []string{remoteURL}}); err != nil {
		return nil, err
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(p.branch))
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, err
	}
	return repo, nil
}

// isMissingBranch reports whether a clone failure just means the target
// branch (or any history at all) is absent from the remote.
func isMissingBranch(err error) bool {
	if errors.Is(err, transport.ErrEmptyRemoteRepository) ||
		errors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	var noMatch git.NoMatchingRefSpecError
	return errors.As(err, &noMatch)
}

// clearWorktree removes everything in dir except the .git directory, so
// files deleted from the site disappear from the branch too.
func clearWorktree(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == git.GitDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// copyOutput copies the built site into the worktree.
func copyOutput(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}
