package templaterepo

import (
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const workspacePattern = "getstack-template-*"

// Workspace is a temporary directory holding one shallow clone. It belongs to
// a single Materialize call and is removed by Release.
type Workspace struct {
	ID  string
	Dir string

	logger      *zerolog.Logger
	releaseOnce sync.Once
	releaseErr  error
}

// AcquireWorkspace creates a uniquely named directory under baseDir, or under
// the system temp dir when baseDir is empty.
func AcquireWorkspace(logger *zerolog.Logger, baseDir string) (*Workspace, error) {
	parent := baseDir
	if parent == "" {
		parent = os.TempDir()
	} else if err := os.MkdirAll(parent, 0750); err != nil {
		return nil, &FilesystemError{Op: "create workspace directory", Path: parent, Err: err}
	}

	dir, err := os.MkdirTemp(parent, workspacePattern)
	if err != nil {
		return nil, &FilesystemError{Op: "create workspace in", Path: parent, Err: err}
	}

	ws := &Workspace{
		ID:     uuid.NewString(),
		Dir:    dir,
		logger: logger,
	}
	logger.Debug().Str("workspace", ws.ID).Str("dir", dir).Msg("Acquired workspace")
	return ws, nil
}

// Release removes the workspace and everything in it. Calling it again is a
// no-op returning the first result.
func (w *Workspace) Release() error {
	w.releaseOnce.Do(func() {
		w.releaseErr = os.RemoveAll(w.Dir)
		if w.releaseErr != nil {
			w.logger.Warn().Err(w.releaseErr).Str("workspace", w.ID).Msg("Failed to remove workspace")
			return
		}
		w.logger.Debug().Str("workspace", w.ID).Msg("Released workspace")
	})
	return w.releaseErr
}
