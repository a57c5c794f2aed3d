// Package registry persists managed entries in a flat, line-oriented file.
//
// Each line holds one entry as "name|executable|descriptor|icon". Appends go
// to the end of the file; updates and removals rewrite the whole file through
// a temporary file that is renamed over the original, so an interrupted write
// leaves either the previous or the next complete registry on disk.
package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/desktop"
	"appreg/internal/fsutil"
	"appreg/internal/models"
)

// Store owns the registry file at a fixed path.
type Store struct {
	path          string
	bundleExt     string
	descriptorExt string
}

// New creates a Store for the file at path. bundleExt and descriptorExt are
// used when rebuilding the registry from a directory scan.
func New(path, bundleExt, descriptorExt string) *Store {
	return &Store{
		path:          path,
		bundleExt:     strings.TrimPrefix(bundleExt, "."),
		descriptorExt: strings.TrimPrefix(descriptorExt, "."),
	}
}

// Path returns the registry file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the registry file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// EnsureFile creates an empty registry file if none exists.
func (s *Store) EnsureFile() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperr.IO("create registry directory", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return apperr.IO("create registry", err)
	}
	return f.Close()
}

// ScanResult reports what InitializeFromScan wrote.
type ScanResult struct {
	Count   int
	Skipped []string // bundle file names that cannot be stored as a record
}

// InitializeFromScan replaces the registry with one record per bundle found
// directly under bundleDir. A descriptor named after the bundle in
// descriptorDir supplies the descriptor and icon paths. Previous contents are
// discarded. A bundle whose name cannot be encoded is skipped and reported
// in ScanResult.Skipped; an unencodable icon path is dropped.
func (s *Store) InitializeFromScan(bundleDir, descriptorDir string) (ScanResult, error) {
	var res ScanResult
	dirEntries, err := os.ReadDir(bundleDir)
	if err != nil && !os.IsNotExist(err) {
		return res, apperr.IO("list bundle directory", err)
	}

	suffix := "." + s.bundleExt
	var buf bytes.Buffer

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), suffix) {
			continue
		}
		name := strings.TrimSuffix(de.Name(), suffix)
		if name == "" {
			continue
		}

		entry := models.Entry{
			Name:           name,
			ExecutablePath: filepath.Join(bundleDir, de.Name()),
		}

		descPath := filepath.Join(descriptorDir, name+"."+s.descriptorExt)
		if fsutil.IsRegularFile(descPath) {
			entry.DescriptorPath = descPath
			if icon, ok, err := desktop.ReadField(descPath, desktop.KeyIcon); err == nil && ok {
				entry.IconPath = icon
			}
		}

		line, err := encodeRecord(entry)
		if err != nil && entry.IconPath != "" {
			entry.IconPath = ""
			line, err = encodeRecord(entry)
		}
		if err != nil {
			res.Skipped = append(res.Skipped, de.Name())
			continue
		}
		buf.WriteString(line + "\n")
		res.Count++
	}

	if err := fsutil.WriteAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return ScanResult{}, apperr.IO("write registry", err)
	}
	return res, nil
}

// Load reads the registry file. A missing file yields an empty registry.
// Malformed lines and duplicate names are rejected.
func (s *Store) Load() (*Registry, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(lines))
	seen := make(map[string]int, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := decodeRecord(line, i+1)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[e.Name]; dup {
			return nil, apperr.Validation("duplicate entry %q on lines %d and %d", e.Name, prev, i+1)
		}
		seen[e.Name] = i + 1
		entries = append(entries, e)
	}
	return newRegistry(entries), nil
}

// Append adds e to the end of the registry file. Names must be unique.
func (s *Store) Append(e models.Entry) error {
	line, err := encodeRecord(e)
	if err != nil {
		return err
	}

	reg, err := s.Load()
	if err != nil {
		return err
	}
	if reg.Has(e.Name) {
		return apperr.Validation("entry %q already exists", e.Name)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperr.IO("create registry directory", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return apperr.IO("open registry", err)
	}
	defer f.Close()

	prefix := ""
	if info, err := f.Stat(); err == nil && info.Size() > 0 && !s.endsWithNewline() {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		return apperr.IO("append registry", err)
	}
	if err := f.Sync(); err != nil {
		return apperr.IO("sync registry", err)
	}
	return nil
}

// UpdateInPlace replaces the fields of the record named name, keeping the
// name and the position. Every other line is copied unchanged.
func (s *Store) UpdateInPlace(name, executablePath, descriptorPath, iconPath string) error {
	line, err := encodeRecord(models.Entry{
		Name:           name,
		ExecutablePath: executablePath,
		DescriptorPath: descriptorPath,
		IconPath:       iconPath,
	})
	if err != nil {
		return err
	}

	return s.rewrite(name, func(string) (string, bool) { return line, true })
}

// Remove deletes the record named name. Every other line is copied unchanged.
func (s *Store) Remove(name string) error {
	return s.rewrite(name, func(string) (string, bool) { return "", false })
}

// rewrite copies every line, passing the first line whose name matches to
// fn. fn returns the replacement and whether to keep a line at all.
func (s *Store) rewrite(name string, fn func(old string) (string, bool)) error {
	lines, err := s.readLines()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	found := false
	for _, line := range lines {
		if !found && recordName(line) == name {
			found = true
			if repl, keep := fn(line); keep {
				buf.WriteString(repl + "\n")
			}
			continue
		}
		buf.WriteString(line + "\n")
	}

	if !found {
		return apperr.NotFound(name)
	}
	if err := fsutil.WriteAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return apperr.IO("rewrite registry", err)
	}
	return nil
}

func (s *Store) readLines() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperr.IO("read registry", err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func (s *Store) endsWithNewline() bool {
	f, err := os.Open(s.path)
	if err != nil {
		return true
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return true
	}
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, info.Size()-1); err != nil {
		return true
	}
	return b[0] == '\n'
}
