package models

import (
	"os"
	"path/filepath"
)

// Entry is one managed bundle as recorded in the registry.
type Entry struct {
	Name           string // Unique key and basis for file names
	ExecutablePath string // Managed bundle on disk
	DescriptorPath string // Launcher descriptor, empty if none
	IconPath       string // Icon file, empty if none
}

// HasDescriptor reports whether the entry records a launcher descriptor.
func (e Entry) HasDescriptor() bool {
	return e.DescriptorPath != ""
}

// HasIcon reports whether the entry records an icon.
func (e Entry) HasIcon() bool {
	return e.IconPath != ""
}

// Usable reports whether the executable exists and has an execute bit set.
// Stale entries stay in the registry; this is checked at display time.
func (e Entry) Usable() bool {
	info, err := os.Stat(e.ExecutablePath)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}

// FileName returns "<name>.<ext>".
func FileName(name, ext string) string {
	return name + "." + ext
}

// BundlePath returns the managed bundle path for name inside dir.
func BundlePath(dir, name, ext string) string {
	return filepath.Join(dir, FileName(name, ext))
}
