// Package storage maps users to private directories on the local filesystem
// and generates collision-resistant file names.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Layout resolves per-user storage directories under a single base path.
// Metadata records store paths relative to the base path; Resolve turns
// them back into absolute paths.
type Layout struct {
	basePath string
}

// NewLayout creates a new Layout rooted at basePath
func NewLayout(basePath string) *Layout {
	return &Layout{
		basePath: basePath,
	}
}

// UserDir returns the private directory for a user without creating it
func (l *Layout) UserDir(userID string) string {
	return filepath.Join(l.basePath, userID)
}

// EnsureUserDir returns the private directory for a user, creating it if
// needed. Creation is recursive and idempotent, so concurrent callers for
// the same user are safe.
func (l *Layout) EnsureUserDir(userID string) (string, error) {
	dir := l.UserDir(userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user directory: %w", err)
	}
	return dir, nil
}

// NewFileName generates a collision-resistant file name by prefixing the
// original name with the current unix-millisecond timestamp and a short
// random suffix. The suffix keeps same-millisecond uploads apart.
func (l *Layout) NewFileName(originalName string) string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), originalName)
}

// Resolve turns a stored relative path into an absolute path under the base
func (l *Layout) Resolve(relPath string) string {
	return filepath.Join(l.basePath, relPath)
}

// RelPath returns the path of a file in a user's directory relative to the base
func (l *Layout) RelPath(userID, fileName string) string {
	return filepath.Join(userID, fileName)
}

// Create creates a stored file for writing, ensuring its directory exists
func (l *Layout) Create(relPath string) (io.WriteCloser, error) {
	path := l.Resolve(relPath)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return os.Create(path)
}

// Open opens a stored file for reading
func (l *Layout) Open(relPath string) (*os.File, error) {
	return os.Open(l.Resolve(relPath))
}

// Remove deletes a stored file
func (l *Layout) Remove(relPath string) error {
	return os.Remove(l.Resolve(relPath))
}

// Stat returns file info for a stored file
func (l *Layout) Stat(relPath string) (os.FileInfo, error) {
	return os.Stat(l.Resolve(relPath))
}
