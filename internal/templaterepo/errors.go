package templaterepo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a template is missing from the catalog or from
// the fetched repository tree.
var ErrNotFound = errors.New("template not found")

// NetworkError reports a transport-level failure talking to the remote API.
// The wrapped *url.Error already names the method and URL.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FetchFailure reports a non-success answer from the remote: either an
// unexpected HTTP status or a failed clone.
type FetchFailure struct {
	StatusCode int    // zero for clone failures
	Message    string // human readable summary
	Err        error
}

func (e *FetchFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FetchFailure) Unwrap() error {
	return e.Err
}

// FilesystemError reports a local path that could not be created or used.
type FilesystemError struct {
	Op   string // e.g. "create target folder"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// CopyError reports the file, relative to the template root, whose copy failed.
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to copy %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a template missing from one of the two places it is
// looked up. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Name  string
	Where string // "repository" or "cloned repository"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Template '%s' not found in the %s", e.Name, e.Where)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
