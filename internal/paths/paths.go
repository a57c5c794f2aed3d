// Package paths normalizes user-supplied filesystem paths.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other forms such as "~user" are returned unchanged.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Resolve expands the home shorthand and canonicalizes the result, following
// symlinks and collapsing "." and "..". When the path cannot be canonicalized
// (usually because it does not exist) the expanded string is returned as-is,
// so callers must not assume the result exists.
func Resolve(input string) string {
	expanded := ExpandHome(input)
	if expanded == "" {
		return ""
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return expanded
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return expanded
	}
	return real
}

// Contract returns path in display form, with the home directory shown as "~".
func Contract(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	home = filepath.Clean(home)
	cleaned := filepath.Clean(path)
	if cleaned == home {
		return "~"
	}
	prefix := home + string(os.PathSeparator)
	if strings.HasPrefix(cleaned, prefix) {
		return filepath.Join("~", strings.TrimPrefix(cleaned, prefix))
	}
	return cleaned
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
