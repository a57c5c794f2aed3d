// Package backup keeps timestamped sibling copies of managed bundles while
// they are being replaced.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"appreg/internal/fsutil"
)

// timestampLayout is appended to the original file name.
const timestampLayout = "20060102-150405"

const marker = ".bak-"

// Manager creates backups next to the files they protect.
type Manager struct {
	now func() time.Time
}

// Backup is one saved copy of a bundle.
type Backup struct {
	Original  string    // Path the copy protects
	Path      string    // Path of the copy
	CreatedAt time.Time // Timestamp encoded in Path
}

// New creates a new Manager
func New() *Manager {
	return &Manager{now: time.Now}
}

// Create copies path to "<path>.bak-<timestamp>" and returns the backup.
func (m *Manager) Create(path string) (*Backup, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	created := m.now()
	dest := path + marker + created.Format(timestampLayout)
	for i := 1; fsutil.IsRegularFile(dest); i++ {
		dest = fmt.Sprintf("%s%s%s-%d", path, marker, created.Format(timestampLayout), i)
	}

	if err := fsutil.CopyFile(path, dest); err != nil {
		os.Remove(dest)
		return nil, fmt.Errorf("failed to back up %s: %w", filepath.Base(path), err)
	}

	return &Backup{Original: path, Path: dest, CreatedAt: created}, nil
}

// Restore puts the backup back at its original path, replacing whatever is
// there, and consumes the backup.
func (b *Backup) Restore() error {
	if err := fsutil.MoveFile(b.Path, b.Original); err != nil {
		return fmt.Errorf("failed to restore %s: %w", filepath.Base(b.Original), err)
	}
	return nil
}

// Discard deletes the backup copy.
func (b *Backup) Discard() error {
	return fsutil.RemoveIfExists(b.Path)
}

// List returns the backups of path, newest first.
func (m *Manager) List(path string) ([]Backup, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + marker

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Backup{}, nil
		}
		return nil, err
	}

	backups := []Backup{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		stamp := strings.TrimPrefix(e.Name(), prefix)
		if len(stamp) > len(timestampLayout) {
			stamp = stamp[:len(timestampLayout)]
		}
		created, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Original:  path,
			Path:      filepath.Join(dir, e.Name()),
			CreatedAt: created,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}
