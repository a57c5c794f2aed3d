// Package detect finds the most recently modified candidate file in a
// directory, used to propose a default source bundle.
package detect

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// Candidate is a matching file and its modification time.
type Candidate struct {
	Path    string
	ModTime time.Time
}

// Newest returns the most recently modified regular file directly under dir
// whose base name matches one of patterns. ok is false when nothing matches
// or dir cannot be read.
func Newest(ctx context.Context, dir string, patterns []string) (path string, ok bool) {
	found, err := Find(ctx, dir, patterns)
	if err != nil || len(found) == 0 {
		return "", false
	}

	best := found[0]
	for _, c := range found[1:] {
		if c.ModTime.After(best.ModTime) || (c.ModTime.Equal(best.ModTime) && c.Path < best.Path) {
			best = c
		}
	}
	return best.Path, true
}

// Find lists the regular files directly under dir matching any of patterns.
// Patterns use doublestar syntax and are matched against the base name.
func Find(ctx context.Context, dir string, patterns []string) ([]Candidate, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, doublestar.ErrBadPattern
		}
	}

	var (
		mu    sync.Mutex
		found []Candidate
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if p == dir {
			return nil
		}
		if d.IsDir() {
			return fastwalk.SkipDir
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !matchAny(patterns, filepath.Base(p)) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		mu.Lock()
		found = append(found, Candidate{Path: p, ModTime: info.ModTime()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
