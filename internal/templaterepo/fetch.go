package templaterepo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShallowFetch clones the whole repository at depth 1 into destDir. A ref is
// tried as a branch first and then as a tag. A failed clone leaves destDir
// empty.
func (c *Client) ShallowFetch(ctx context.Context, destDir string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cloneTimeout)
	defer cancel()

	refs := []plumbing.ReferenceName{""}
	if c.ref != "" {
		refs = []plumbing.ReferenceName{
			plumbing.NewBranchReferenceName(c.ref),
			plumbing.NewTagReferenceName(c.ref),
		}
	}

	var firstErr error
	for _, ref := range refs {
		err := c.clone(ctx, destDir, ref)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return &FetchFailure{Message: "failed to clone repository " + c.cloneURL, Err: firstErr}
}

func (c *Client) clone(ctx context.Context, destDir string, ref plumbing.ReferenceName) error {
	c.logger.Debug().
		Str("url", c.cloneURL).
		Str("ref", ref.String()).
		Str("dest", destDir).
		Msg("Cloning repository")

	_, err := git.PlainCloneContext(ctx, destDir, false, &git.CloneOptions{
		URL:           c.cloneURL,
		ReferenceName: ref,
		Depth:         1,
		SingleBranch:  true,
		Tags:          git.NoTags,
	})
	if err != nil {
		if cleanErr := emptyDir(destDir); cleanErr != nil {
			c.logger.Warn().Err(cleanErr).Str("dest", destDir).Msg("Failed to clean up partial clone")
		}
	}
	return err
}

// emptyDir removes everything inside dir but keeps dir itself.
func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
