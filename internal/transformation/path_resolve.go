package transformation

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when a target path exists but is not a directory.
var ErrNotDirectory = errors.New("path exists and is not a directory")

// ResolvePath resolves an input path to an absolute path.
// If the path exists, it returns the absolute path; otherwise, returns an error.
func ResolvePath(input string) (string, error) {
	absPath, err := resolveAbsolutePath(input)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", errors.New("path does not exist")
	}

	return absPath, nil
}

// ResolveTargetDirectory expands "~", makes the input absolute and creates the
// directory together with any missing ancestors. An existing directory is
// returned as is.
func ResolveTargetDirectory(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", errors.New("target folder can't be empty")
	}

	absPath, err := resolveAbsolutePath(input)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil && info.IsDir():
		return absPath, nil
	case err == nil:
		return "", fmt.Errorf("%s: %w", absPath, ErrNotDirectory)
	case !os.IsNotExist(err):
		return "", err
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return "", err
	}

	return absPath, nil
}

// resolveAbsolutePath expands ~ and converts a path to an absolute, cleaned path.
func resolveAbsolutePath(input string) (string, error) {
	expanded, err := ExpandHome(input)
	if err != nil {
		return "", err
	}

	return filepath.Abs(expanded)
}

// ExpandHome replaces a leading "~" or "~user" with the matching home
// directory. A "~user" whose account cannot be looked up is left untouched.
func ExpandHome(input string) (string, error) {
	if !strings.HasPrefix(input, "~") {
		return input, nil
	}

	name, rest := input[1:], ""
	if i := strings.IndexAny(name, "/"+string(filepath.Separator)); i >= 0 {
		name, rest = name[:i], name[i+1:]
	}

	var home string
	if name == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = dir
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return input, nil
		}
		home = u.HomeDir
	}

	return filepath.Join(home, rest), nil
}
