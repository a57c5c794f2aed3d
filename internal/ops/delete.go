package ops

import (
	"context"
	"fmt"
	"path/filepath"

	"appreg/internal/apperr"
	"appreg/internal/fsutil"
	"appreg/internal/models"
	"appreg/internal/paths"
	"appreg/internal/registry"
	"appreg/internal/ui"

	"go.uber.org/zap"
)

// Delete removes a registered bundle, its descriptor, an icon placed in the
// icon directory that no other entry uses, and its registry record. Backups
// kept by replace-version are removed too when the user agrees.
func (m *Manager) Delete(ctx context.Context) error {
	reg, err := m.store.Load()
	if err != nil {
		return err
	}
	entry, err := m.SelectEntry(reg, "Application to delete")
	if err != nil {
		return err
	}

	ok, err := m.prompt.Confirm(fmt.Sprintf("Delete %s and its launcher entry?", entry.Name), false)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Aborted("delete cancelled")
	}

	kept, err := m.backups.List(entry.ExecutablePath)
	if err != nil {
		return apperr.IO("list backups", err)
	}
	dropBackups := false
	if len(kept) > 0 {
		dropBackups, err = m.prompt.Confirm(
			fmt.Sprintf("Also delete %d kept backup(s) of %s?", len(kept), entry.Name), false)
		if err != nil {
			return err
		}
	}

	m.logger.Info("deleting application", zap.String("name", entry.Name))

	if err := fsutil.RemoveIfExists(entry.ExecutablePath); err != nil {
		return apperr.IO("remove bundle", err)
	}
	m.logger.Debug("bundle removed", zap.String("path", entry.ExecutablePath))

	if entry.HasDescriptor() {
		if err := m.writer.Remove(entry.DescriptorPath); err != nil {
			return err
		}
		m.logger.Debug("descriptor removed", zap.String("path", entry.DescriptorPath))
	}

	if m.ownsIcon(reg, entry) {
		if err := fsutil.RemoveIfExists(entry.IconPath); err != nil {
			m.logger.Warn("could not remove icon", zap.String("path", entry.IconPath), zap.Error(err))
		}
	}

	if err := m.store.Remove(entry.Name); err != nil {
		return err
	}

	if dropBackups {
		for _, b := range kept {
			if err := b.Discard(); err != nil {
				m.logger.Warn("could not delete backup", zap.String("path", b.Path), zap.Error(err))
			}
		}
	} else if len(kept) > 0 {
		m.notify(ui.NotifyInfo, fmt.Sprintf("%d backup(s) kept next to %s", len(kept), paths.Contract(entry.ExecutablePath)))
	}

	m.refresh(ctx)
	m.logger.Info("application deleted", zap.String("name", entry.Name))
	m.notify(ui.NotifySuccess, fmt.Sprintf("Deleted %s", entry.Name))
	return nil
}

// ownsIcon reports whether entry's icon was placed in the icon directory and
// no other registered entry points at it.
func (m *Manager) ownsIcon(reg *registry.Registry, entry models.Entry) bool {
	if !entry.HasIcon() || filepath.Dir(entry.IconPath) != filepath.Clean(m.cfg.IconDir) {
		return false
	}
	for _, other := range reg.Entries() {
		if other.Name != entry.Name && filepath.Clean(other.IconPath) == filepath.Clean(entry.IconPath) {
			return false
		}
	}
	return true
}

// Rescan discards the registry and rebuilds it from the bundles found in
// the managed directory. It returns the number of entries found.
func (m *Manager) Rescan(ctx context.Context) (int, error) {
	m.logger.Info("rescanning", zap.String("dir", m.cfg.BundleDir))

	res, err := m.store.InitializeFromScan(m.cfg.BundleDir, m.cfg.DescriptorDir)
	if err != nil {
		return 0, err
	}
	m.reportSkipped(res)
	if _, err := m.store.Load(); err != nil {
		return res.Count, err
	}

	m.refresh(ctx)
	m.logger.Info("rescan complete",
		zap.Int("entries", res.Count),
		zap.Int("skipped", len(res.Skipped)))
	m.notify(ui.NotifySuccess, fmt.Sprintf("Registry rebuilt with %d application(s)", res.Count))
	return res.Count, nil
}
