package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	apperrors "chandl/pkg/errors"
	"chandl/pkg/fourchan"
)

// Resolve determines the download directory for a thread:
// root/board/threadID, resolved once before the first cycle. When the thread
// URL carried a trailing custom-name segment, that name is used instead if a
// directory by that name already exists or useNames is set.
func Resolve(root string, ref fourchan.ThreadRef, useNames bool) string {
	if ref.Alias != "" {
		aliasDir := filepath.Join(root, ref.Board, ref.Alias)
		if useNames {
			return aliasDir
		}
		if info, err := os.Stat(aliasDir); err == nil && info.IsDir() {
			return aliasDir
		}
	}
	return filepath.Join(root, ref.Board, strconv.FormatInt(ref.ID, 10))
}

// Manager handles file storage for one thread directory
type Manager struct {
	dir string
}

// NewManager creates a storage manager for the given directory, creating the
// directory tree if absent. A creation failure is returned for reporting but
// the manager is still usable: the run continues and each subsequent save
// into the missing directory fails individually.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{dir: dir}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return m, apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to create directory %s: %v", dir, err), 0)
	}
	return m, nil
}

// Dir returns the managed directory path
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the absolute candidate path for a bare file name
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// Exists reports whether a file with the given name is already on disk
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// Save streams r to the named file. Data is written to a temporary file and
// moved into place with an atomic rename, so a failed save never leaves a
// partial file behind.
func (m *Manager) Save(r io.Reader, name string) error {
	filename := m.Path(name)
	tempFile := filename + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to create temporary file: %v", err), 0)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to write file data: %v", err), 0)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to close file: %v", closeErr), 0)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to rename temporary file: %v", err), 0)
	}

	return nil
}
