package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// RepoFile is one file committed by NewGitRepo. A zero Mode means 0644.
type RepoFile struct {
	Content string
	Mode    os.FileMode
}

// RequireGitUploadPack skips the test when cloning over file:// is not
// possible on this machine.
func RequireGitUploadPack(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not found in PATH")
	}
}

// NewGitRepo creates a repository in a temp dir with a single commit on
// master holding files (slash separated path -> file), and returns its dir.
func NewGitRepo(t *testing.T, files map[string]RepoFile) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commitFiles(t, repo, dir, files, "init")
	return dir
}

// AddBranch commits files on a new branch created from HEAD, then checks
// master out again.
func AddBranch(t *testing.T, dir, branch string, files map[string]RepoFile) {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	}))
	commitFiles(t, repo, dir, files, "add "+branch)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.Master,
		Force:  true,
	}))
}

// AddTag creates a lightweight tag pointing at the head of branch.
func AddTag(t *testing.T, dir, tag, branch string) {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(t, err)
	_, err = repo.CreateTag(tag, head.Hash(), nil)
	require.NoError(t, err)
}

// FileURL returns the clone URL of a local repository.
func FileURL(dir string) string {
	return "file://" + filepath.ToSlash(dir)
}

func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]RepoFile, msg string) {
	t.Helper()

	for rel, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		mode := f.Mode
		if mode == 0 {
			mode = 0644
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(f.Content), mode))
		require.NoError(t, os.Chmod(full, mode))
	}

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))

	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@test", When: time.Now()},
	})
	require.NoError(t, err)
}
