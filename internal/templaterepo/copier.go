package templaterepo

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

const copiedDirPerm = 0755

// CopyTree copies every regular file under srcRoot into dstRoot and returns
// the copied paths relative to srcRoot, slash separated.
//
// Order is depth first: inside each directory, entries are taken in name
// order, the directory's own files first, then its subdirectories. Symlinks
// are followed and their content is copied under every name that reaches it.
// A link pointing back into its own ancestry is not descended into again.
// Permission bits and modification times are preserved. The first failure
// stops the copy, and files and directories created by this call are removed
// again before the CopyError is returned.
func CopyTree(logger *zerolog.Logger, srcRoot, dstRoot string) ([]string, error) {
	c := &treeCopier{
		logger:    logger,
		dstRoot:   dstRoot,
		copied:    []string{},
		ancestors: make(map[string]struct{}),
		knownDirs: make(map[string]struct{}),
	}

	if err := c.copyDir(srcRoot, ""); err != nil {
		c.rollback()
		return nil, err
	}
	return c.copied, nil
}

type treeCopier struct {
	logger  *zerolog.Logger
	dstRoot string

	copied       []string
	createdFiles []string
	createdDirs  []string
	ancestors    map[string]struct{}
	knownDirs    map[string]struct{}
}

func (c *treeCopier) copyDir(dir, rel string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return &CopyError{Path: displayPath(rel), Err: err}
	}
	// Only the directories between the root and here count: a cycle, not a
	// second name for the same directory.
	if _, open := c.ancestors[resolved]; open {
		c.logger.Debug().Str("path", displayPath(rel)).Msg("Skipping link back into its own ancestry")
		return nil
	}
	c.ancestors[resolved] = struct{}{}
	defer delete(c.ancestors, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &CopyError{Path: displayPath(rel), Err: err}
	}

	var subdirs []string
	for _, entry := range entries {
		srcPath := filepath.Join(dir, entry.Name())
		entryRel := path.Join(rel, entry.Name())

		// Stat, not Lstat: links are followed.
		info, err := os.Stat(srcPath)
		if err != nil {
			return &CopyError{Path: entryRel, Err: err}
		}

		switch {
		case info.IsDir():
			subdirs = append(subdirs, entry.Name())
		case info.Mode().IsRegular():
			if err := c.copyFile(srcPath, entryRel, info); err != nil {
				return &CopyError{Path: entryRel, Err: err}
			}
		default:
			c.logger.Debug().Str("path", entryRel).Str("mode", info.Mode().String()).Msg("Skipping non-regular file")
		}
	}

	for _, name := range subdirs {
		if err := c.copyDir(filepath.Join(dir, name), path.Join(rel, name)); err != nil {
			return err
		}
	}
	return nil
}

func (c *treeCopier) copyFile(srcPath, rel string, info os.FileInfo) error {
	dstPath := filepath.Join(c.dstRoot, filepath.FromSlash(rel))

	if err := c.ensureDir(filepath.Dir(dstPath)); err != nil {
		return err
	}

	existed := false
	if dstInfo, err := os.Lstat(dstPath); err == nil {
		existed = true
		// Replace a link instead of writing through it.
		switch {
		case dstInfo.Mode()&os.ModeSymlink != 0:
			if err := os.Remove(dstPath); err != nil {
				return err
			}
			existed = false
		case dstInfo.Mode().Perm()&0200 == 0:
			if err := os.Chmod(dstPath, dstInfo.Mode().Perm()|0200); err != nil {
				return err
			}
		}
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	perm := info.Mode().Perm()
	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0200)
	if err != nil {
		return err
	}
	if !existed {
		c.createdFiles = append(c.createdFiles, dstPath)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dstPath, perm); err != nil {
		return err
	}
	if err := os.Chtimes(dstPath, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	c.logger.Debug().Str("path", rel).Msg("Copied file")
	c.copied = append(c.copied, rel)
	return nil
}

// ensureDir creates dir and any missing ancestors, remembering which ones it
// made so rollback can remove them.
func (c *treeCopier) ensureDir(dir string) error {
	if _, ok := c.knownDirs[dir]; ok {
		return nil
	}

	var missing []string
	for d := dir; ; {
		info, err := os.Stat(d)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s exists and is not a directory", d)
			}
			break
		}
		if !os.IsNotExist(err) {
			return err
		}
		missing = append(missing, d)
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	for i := len(missing) - 1; i >= 0; i-- {
		if err := os.Mkdir(missing[i], copiedDirPerm); err != nil && !os.IsExist(err) {
			return err
		}
		c.createdDirs = append(c.createdDirs, missing[i])
	}

	c.knownDirs[dir] = struct{}{}
	return nil
}

func (c *treeCopier) rollback() {
	for i := len(c.createdFiles) - 1; i >= 0; i-- {
		if err := os.Remove(c.createdFiles[i]); err != nil && !os.IsNotExist(err) {
			c.logger.Warn().Err(err).Str("path", c.createdFiles[i]).Msg("Failed to remove partially copied file")
		}
	}
	for i := len(c.createdDirs) - 1; i >= 0; i-- {
		if err := os.Remove(c.createdDirs[i]); err != nil && !os.IsNotExist(err) {
			c.logger.Warn().Err(err).Str("path", c.createdDirs[i]).Msg("Failed to remove directory created during copy")
		}
	}
	c.copied = nil
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
