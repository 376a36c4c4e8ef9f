// Package fileutil provides filesystem helpers and permission constants used
// across the chartci codebase. All helpers operate on an afero.Fs so tests can
// substitute an in-memory filesystem.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Standard file permission constants
const (
	// ReadWriteUserPermission represents read/write permissions for the file owner only (0600 in octal)
	ReadWriteUserPermission = 0o600
	// ReadWriteUserReadOthers represents read/write for owner, read for others (0644 in octal)
	ReadWriteUserReadOthers = 0o644
	// ReadWriteExecuteUserReadExecuteOthers represents rwx for owner, rx for others (0755 in octal)
	ReadWriteExecuteUserReadExecuteOthers = 0o755
)

// FileExists checks if a regular file exists at the given path.
func FileExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return !info.IsDir(), nil
}

// DirExists checks if a directory exists at the given path.
func DirExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat directory: %w", err)
	}
	return info.IsDir(), nil
}

// EnsureDirExists creates the directory at path (with parents) if it does not exist.
func EnsureDirExists(fs afero.Fs, path string) error {
	exists, err := DirExists(fs, path)
	if err != nil {
		return err
	}
	if !exists {
		if err := fs.MkdirAll(path, ReadWriteExecuteUserReadExecuteOthers); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadFileString reads a file and returns its contents as a string.
func ReadFileString(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteFileString writes a string to a file with default permissions.
func WriteFileString(fs afero.Fs, path, content string) error {
	if err := afero.WriteFile(fs, path, []byte(content), ReadWriteUserReadOthers); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// GetAbsPath returns the absolute path of a file.
func GetAbsPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}
