package ops

import (
	"context"
	"fmt"
	"os"

	"appreg/internal/apperr"
	"appreg/internal/desktop"
	"appreg/internal/fsutil"
	"appreg/internal/models"
	"appreg/internal/paths"
	"appreg/internal/ui"

	"go.uber.org/zap"
)

// Add installs a new bundle: it moves the file into the managed directory
// as "<name>.<ext>", marks it executable, writes a launcher descriptor and
// appends a registry record.
func (m *Manager) Add(ctx context.Context) (err error) {
	reg, err := m.store.Load()
	if err != nil {
		return err
	}

	src, err := m.askSource(ctx, "Bundle to add")
	if err != nil {
		return err
	}
	iconInput, err := m.prompt.Ask("Icon file (optional)", "")
	if err != nil {
		return err
	}
	name, err := m.askName(ctx, src, paths.Stem(src))
	if err != nil {
		return err
	}
	comment, err := m.prompt.Ask("Comment", defaultComment(name))
	if err != nil {
		return err
	}

	dest := m.bundlePath(name)
	if reg.Has(name) {
		return apperr.Validation("an application named %q is already registered", name)
	}
	if dest != src && paths.Exists(dest) {
		return apperr.Validation("%s already exists", paths.Contract(dest))
	}

	m.logger.Info("adding application",
		zap.String("name", name),
		zap.String("source", src))

	tx := newTxn("add", m.logger)
	defer tx.finish(&err)

	if err := os.MkdirAll(m.cfg.BundleDir, 0755); err != nil {
		return apperr.IO("create bundle directory", err)
	}

	icon := ""
	if iconInput != "" && iconInput != noneAnswer {
		if icon, err = m.placeIcon(tx, iconInput, name); err != nil {
			return err
		}
	}

	if dest != src {
		if err := fsutil.MoveFile(src, dest); err != nil {
			return apperr.IO("move bundle", err)
		}
		tx.onFailure("move bundle back", func() error { return fsutil.MoveFile(dest, src) })
		m.logger.Debug("bundle moved", zap.String("from", src), zap.String("to", dest))
	}
	if err := fsutil.MakeExecutable(dest); err != nil {
		return apperr.IO("mark bundle executable", err)
	}

	descPath := m.writer.PathFor(name)
	prev, hadPrev := snapshot(descPath)
	descPath, err = m.writer.Write(name, desktop.ExecCommand(dest), icon, comment, m.confirmOverwrite)
	if err != nil {
		return err
	}
	tx.onFailure("restore descriptor", func() error { return restore(descPath, prev, hadPrev, 0755) })
	m.logger.Debug("descriptor written", zap.String("path", descPath))

	entry := models.Entry{
		Name:           name,
		ExecutablePath: dest,
		DescriptorPath: descPath,
		IconPath:       icon,
	}
	if err := m.store.Append(entry); err != nil {
		return err
	}

	m.refresh(ctx)
	m.logger.Info("application added", zap.String("name", name))
	m.notify(ui.NotifySuccess, fmt.Sprintf("Added %s", name))
	return nil
}
