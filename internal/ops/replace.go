package ops

import (
	"context"
	"fmt"

	"appreg/internal/apperr"
	"appreg/internal/backup"
	"appreg/internal/desktop"
	"appreg/internal/fsutil"
	"appreg/internal/models"
	"appreg/internal/paths"
	"appreg/internal/ui"

	"go.uber.org/zap"
)

// ReplaceVersion installs a new build of a registered bundle. The current
// bundle is backed up and restored if installing the new one fails. The
// name chosen afterwards is the entry's identity: keeping it updates the
// record in place, changing it renames bundle, descriptor and record
// together the same way Edit does.
func (m *Manager) ReplaceVersion(ctx context.Context) (err error) {
	reg, err := m.store.Load()
	if err != nil {
		return err
	}
	entry, err := m.SelectEntry(reg, "Application to update")
	if err != nil {
		return err
	}

	src, err := m.askSource(ctx, "New version of "+entry.Name)
	if err != nil {
		return err
	}

	target := entry.ExecutablePath
	if target == "" {
		target = m.bundlePath(entry.Name)
	}
	if fsutil.IsRegularFile(target) && src != target {
		same, err := backup.SameContent(src, target)
		if err != nil {
			return apperr.IO("compare bundles", err)
		}
		if same {
			m.notify(ui.NotifyWarning, fmt.Sprintf("%s is identical to the installed version.", paths.Contract(src)))
			ok, err := m.prompt.Confirm("Replace it anyway?", false)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Aborted("new version is identical to the installed one")
			}
		}
	}

	m.logger.Info("replacing version",
		zap.String("name", entry.Name),
		zap.String("source", src))

	tx := newTxn("replace", m.logger)
	defer tx.finish(&err)

	prevBundle, err := m.installBundle(tx, src, target)
	if err != nil {
		return err
	}

	newName, err := m.askName(ctx, target, entry.Name)
	if err != nil {
		return err
	}
	renamed := newName != entry.Name
	if renamed {
		if err := m.checkRename(reg.Has(newName), entry, newName, false); err != nil {
			return err
		}
	}

	icon, comment := m.descriptorDetails(entry)

	finalExec := target
	if renamed {
		finalExec = m.bundlePath(newName)
		if err := fsutil.MoveFile(target, finalExec); err != nil {
			return apperr.IO("rename bundle", err)
		}
		tx.onFailure("rename bundle back", func() error { return fsutil.MoveFile(finalExec, target) })
	}

	descPath, err := m.writeDescriptor(tx, newName, finalExec, icon, comment, entry.DescriptorPath)
	if err != nil {
		return err
	}
	if renamed && entry.HasDescriptor() && entry.DescriptorPath != descPath {
		if err := m.removeDescriptor(tx, entry.DescriptorPath); err != nil {
			return err
		}
	}

	updated := models.Entry{
		Name:           newName,
		ExecutablePath: finalExec,
		DescriptorPath: descPath,
		IconPath:       icon,
	}
	if err := m.commitEntry(tx, entry.Name, updated); err != nil {
		return err
	}

	m.refresh(ctx)
	m.logger.Info("version replaced", zap.String("name", newName))
	m.notify(ui.NotifySuccess, fmt.Sprintf("Replaced %s", newName))

	if prevBundle != nil {
		m.settleBackup(prevBundle)
	}
	return nil
}

// descriptorDetails returns the icon and comment to carry over from the
// entry's current descriptor, falling back to the registry record.
func (m *Manager) descriptorDetails(entry models.Entry) (icon, comment string) {
	icon, comment = entry.IconPath, defaultComment(entry.Name)
	if !entry.HasDescriptor() {
		return icon, comment
	}
	if v, ok, err := desktop.ReadField(entry.DescriptorPath, desktop.KeyIcon); err == nil && ok {
		icon = v
	}
	if v, ok, err := desktop.ReadField(entry.DescriptorPath, desktop.KeyComment); err == nil && ok && v != "" {
		comment = v
	}
	return icon, comment
}

// removeDescriptor deletes path, putting it back on rollback.
func (m *Manager) removeDescriptor(tx *txn, path string) error {
	prev, hadPrev := snapshot(path)
	if err := m.writer.Remove(path); err != nil {
		return err
	}
	tx.onFailure("restore old descriptor", func() error { return restore(path, prev, hadPrev, 0755) })
	return nil
}

// settleBackup asks whether to delete the previous version. The operation
// has already succeeded, so failures here only keep the backup.
func (m *Manager) settleBackup(b *backup.Backup) {
	discard, err := m.prompt.Confirm("Delete the backup of the previous version?", true)
	if err != nil || !discard {
		m.notify(ui.NotifyInfo, "Previous version kept at "+paths.Contract(b.Path))
		return
	}
	if err := b.Discard(); err != nil {
		m.logger.Warn("could not delete backup", zap.String("path", b.Path), zap.Error(err))
		m.notify(ui.NotifyWarning, "Could not delete "+paths.Contract(b.Path))
		return
	}
	m.logger.Debug("backup deleted", zap.String("path", b.Path))
}
