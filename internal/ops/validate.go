package ops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/appimage"
	"appreg/internal/fsutil"
	"appreg/internal/paths"
	"appreg/internal/prompt"
	"appreg/internal/registry"
	"appreg/internal/ui"

	"go.uber.org/zap"
)

// noneAnswer clears an optional field such as the icon.
const noneAnswer = "none"

// askSource asks for a bundle path, proposing the newest candidate in the
// downloads directory, and validates the answer.
func (m *Manager) askSource(ctx context.Context, question string) (string, error) {
	def := ""
	if found, ok := m.newest(ctx, m.cfg.DownloadsDir, m.cfg.BundlePatterns()); ok {
		def = paths.Contract(found)
	}

	answer, err := m.prompt.Ask(question, def)
	if err != nil {
		return "", err
	}
	return m.validateSource(answer)
}

// validateSource resolves input and checks that it names a regular file. A
// file that does not look like an ELF executable needs confirmation.
func (m *Manager) validateSource(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", apperr.Validation("no bundle file given")
	}
	src := paths.Resolve(input)

	info, err := os.Stat(src)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", apperr.Validation("%s does not exist", paths.Contract(src))
	case err != nil:
		return "", apperr.IO("inspect bundle", err)
	case info.IsDir():
		return "", apperr.Validation("%s is a directory", paths.Contract(src))
	}

	isELF, mime, err := m.sniffELF(src)
	if err != nil {
		return "", apperr.IO("inspect bundle", err)
	}
	if !isELF {
		m.notify(ui.NotifyWarning, fmt.Sprintf("%s does not look like an executable bundle (%s).", filepath.Base(src), mime))
		ok, err := m.prompt.Confirm("Use it anyway?", false)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", apperr.Aborted("source is not an executable bundle")
		}
	}
	return src, nil
}

// askName proposes the bundle's embedded name, or fallback, and validates
// the answer.
func (m *Manager) askName(ctx context.Context, bundle, fallback string) (string, error) {
	def := fallback
	var extracted string
	var ok bool
	prompt.RunBusy(m.prompt, "Reading bundle metadata...", func() {
		extracted, ok = m.extractor.ExtractName(ctx, bundle)
	})
	if ok {
		def = extracted
	}

	answer, err := m.prompt.Ask("Application name", def)
	if err != nil {
		return "", err
	}
	return validateName(answer)
}

// validateName checks that name can serve as a registry key and file stem.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", apperr.Validation("name must not be empty")
	case name == "." || name == "..":
		return "", apperr.Validation("%q is not a valid name", name)
	case strings.ContainsAny(name, "/\n\r"+registry.Delimiter):
		return "", apperr.Validation("name %q must not contain '/', %q or line breaks", name, registry.Delimiter)
	}
	return name, nil
}

// placeIcon copies an image into the icon directory as "<name><ext>" and
// returns the new path. A newly created file is removed on rollback.
func (m *Manager) placeIcon(tx *txn, input, name string) (string, error) {
	src := paths.Resolve(input)
	if !fsutil.IsRegularFile(src) {
		return "", apperr.Validation("icon %s does not exist", paths.Contract(src))
	}
	isImage, mime, err := appimage.IsImage(src)
	if err != nil {
		return "", apperr.IO("inspect icon", err)
	}
	if !isImage {
		return "", apperr.Validation("icon %s is not an image (%s)", filepath.Base(src), mime)
	}

	dest := filepath.Join(m.cfg.IconDir, name+strings.ToLower(filepath.Ext(src)))
	if dest == src {
		return dest, nil
	}

	prev, hadPrev := snapshot(dest)
	if err := os.MkdirAll(m.cfg.IconDir, 0755); err != nil {
		return "", apperr.IO("create icon directory", err)
	}
	if err := fsutil.CopyFile(src, dest); err != nil {
		return "", apperr.IO("copy icon", err)
	}
	tx.onFailure("restore icon", func() error { return restore(dest, prev, hadPrev, 0644) })
	m.logger.Debug("icon placed", zap.String("path", dest))
	return dest, nil
}

// snapshot returns the content of path and whether it existed.
func snapshot(path string) ([]byte, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// restore puts back content captured by snapshot, or removes path when it
// did not exist.
func restore(path string, data []byte, existed bool, perm os.FileMode) error {
	if !existed {
		return fsutil.RemoveIfExists(path)
	}
	return fsutil.WriteAtomic(path, data, perm)
}

// askIcon asks for an icon path. It returns keep=true when the answer equals
// current, and an empty path when the user asks for no icon.
func (m *Manager) askIcon(question, current string) (answer string, keep bool, err error) {
	def := noneAnswer
	if current != "" {
		def = paths.Contract(current)
	}
	answer, err = m.prompt.Ask(question, def)
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	switch {
	case strings.EqualFold(answer, noneAnswer):
		return "", current == "", nil
	case current != "" && paths.Resolve(answer) == paths.Resolve(current):
		return current, true, nil
	}
	return answer, false, nil
}
