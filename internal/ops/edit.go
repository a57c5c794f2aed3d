package ops

import (
	"context"
	"fmt"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/backup"
	"appreg/internal/desktop"
	"appreg/internal/fsutil"
	"appreg/internal/models"
	"appreg/internal/paths"
	"appreg/internal/ui"

	"go.uber.org/zap"
)

// editChoices are the fields Edit can change, in menu order.
var editChoices = []string{"Name", "Icon", "Bundle file", "All of the above"}

const (
	editName = iota
	editIcon
	editBundle
	editAll
)

// Edit changes the name, icon or bundle file of a registered entry. A new
// name renames the bundle and descriptor and replaces the registry record;
// other changes update the record in place.
func (m *Manager) Edit(ctx context.Context) (err error) {
	reg, err := m.store.Load()
	if err != nil {
		return err
	}
	entry, err := m.SelectEntry(reg, "Application to edit")
	if err != nil {
		return err
	}

	var b strings.Builder
	for i, c := range editChoices {
		fmt.Fprintf(&b, "%s %s\n", ui.IndexStyle.Render(fmt.Sprintf("%d)", i+1)), c)
	}
	fmt.Fprint(m.out, b.String())
	choice, err := m.chooseIndex(fmt.Sprintf("What do you want to change? [1-%d]", len(editChoices)), len(editChoices))
	if err != nil {
		return err
	}
	changeName := choice == editName || choice == editAll
	changeIcon := choice == editIcon || choice == editAll
	changeBundle := choice == editBundle || choice == editAll

	newName := entry.Name
	if changeName {
		answer, err := m.prompt.Ask("New name", entry.Name)
		if err != nil {
			return err
		}
		if newName, err = validateName(answer); err != nil {
			return err
		}
	}
	renamed := newName != entry.Name

	iconInput, keepIcon := entry.IconPath, true
	if changeIcon {
		if iconInput, keepIcon, err = m.askIcon(`Icon file ("none" to remove)`, entry.IconPath); err != nil {
			return err
		}
	}

	src := ""
	if changeBundle {
		if src, err = m.askSource(ctx, "New bundle file"); err != nil {
			return err
		}
	}

	if !renamed && keepIcon && src == "" {
		m.notify(ui.NotifyInfo, "Nothing to change.")
		return nil
	}
	if renamed {
		if err := m.checkRename(reg.Has(newName), entry, newName, src == ""); err != nil {
			return err
		}
	}

	m.logger.Info("editing application",
		zap.String("name", entry.Name),
		zap.String("new_name", newName),
		zap.Bool("new_icon", !keepIcon),
		zap.Bool("new_bundle", src != ""))

	tx := newTxn("edit", m.logger)
	defer tx.finish(&err)

	current := entry.ExecutablePath
	var prevBundle *backup.Backup
	if src != "" {
		if prevBundle, err = m.installBundle(tx, src, current); err != nil {
			return err
		}
	}

	icon := entry.IconPath
	if !keepIcon {
		icon = ""
		if iconInput != "" {
			if icon, err = m.placeIcon(tx, iconInput, newName); err != nil {
				return err
			}
		}
	}

	finalExec := current
	if renamed {
		finalExec = m.bundlePath(newName)
	}

	descPath, err := m.updateDescriptor(tx, entry, newName, finalExec, icon)
	if err != nil {
		return err
	}

	if finalExec != current {
		if err := fsutil.MoveFile(current, finalExec); err != nil {
			return apperr.IO("rename bundle", err)
		}
		tx.onFailure("rename bundle back", func() error { return fsutil.MoveFile(finalExec, current) })
		m.logger.Debug("bundle renamed", zap.String("from", current), zap.String("to", finalExec))
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

	if prevBundle != nil {
		if err := prevBundle.Discard(); err != nil {
			m.logger.Warn("could not remove previous bundle", zap.String("path", prevBundle.Path), zap.Error(err))
		}
	}

	m.refresh(ctx)
	m.logger.Info("application edited", zap.String("name", newName))
	if renamed {
		m.notify(ui.NotifySuccess, fmt.Sprintf("Renamed %s to %s", entry.Name, newName))
	} else {
		m.notify(ui.NotifySuccess, fmt.Sprintf("Updated %s", newName))
	}
	return nil
}

// checkRename verifies that newName is free in the registry and on disk
// before anything is touched.
func (m *Manager) checkRename(taken bool, entry models.Entry, newName string, needsBundle bool) error {
	if taken {
		return apperr.Validation("an application named %q is already registered", newName)
	}
	if target := m.bundlePath(newName); paths.Exists(target) {
		return apperr.Validation("%s already exists", paths.Contract(target))
	}
	if needsBundle && !fsutil.IsRegularFile(entry.ExecutablePath) {
		return apperr.Validation("bundle %s is missing; give a new bundle file to rename", paths.Contract(entry.ExecutablePath))
	}
	if target := m.writer.PathFor(newName); entry.HasDescriptor() && paths.Exists(target) {
		return apperr.Validation("descriptor %s already exists", paths.Contract(target))
	}
	return nil
}

// installBundle moves src over dest. An existing dest is backed up first and
// restored on rollback; the returned backup is nil when dest was absent.
func (m *Manager) installBundle(tx *txn, src, dest string) (*backup.Backup, error) {
	var prev *backup.Backup
	if src == dest {
		return nil, fsutil.MakeExecutable(dest)
	}
	if fsutil.IsRegularFile(dest) {
		b, err := m.backups.Create(dest)
		if err != nil {
			return nil, apperr.IO("back up bundle", err)
		}
		prev = b
		tx.onFailure("restore previous bundle", b.Restore)
		m.logger.Debug("bundle backed up", zap.String("backup", b.Path))
	}

	if err := fsutil.MoveFile(src, dest); err != nil {
		return prev, apperr.IO("move bundle", err)
	}
	tx.onFailure("move bundle back", func() error { return fsutil.MoveFile(dest, src) })
	m.logger.Debug("bundle moved", zap.String("from", src), zap.String("to", dest))

	if err := fsutil.MakeExecutable(dest); err != nil {
		return prev, apperr.IO("mark bundle executable", err)
	}
	return prev, nil
}

// updateDescriptor brings the entry's descriptor in line with the new name,
// executable and icon. An entry without a descriptor gets a fresh one.
func (m *Manager) updateDescriptor(tx *txn, entry models.Entry, newName, exec, icon string) (string, error) {
	old := entry.DescriptorPath
	if old == "" || !fsutil.IsRegularFile(old) {
		return m.writeDescriptor(tx, newName, exec, icon, defaultComment(newName), "")
	}

	prev, _ := snapshot(old)
	path := old
	if newName != entry.Name {
		renamed, err := m.writer.Rename(old, newName)
		if err != nil {
			return "", err
		}
		path = renamed
	}
	tx.onFailure("restore descriptor", func() error {
		if path != old {
			if err := fsutil.RemoveIfExists(path); err != nil {
				return err
			}
		}
		return fsutil.WriteAtomic(old, prev, 0755)
	})

	if newName != entry.Name {
		if err := m.writer.UpdateField(path, desktop.KeyName, newName); err != nil {
			return "", err
		}
	}
	if exec != entry.ExecutablePath {
		if err := m.writer.UpdateField(path, desktop.KeyExec, desktop.ExecCommand(exec)); err != nil {
			return "", err
		}
	}
	if icon != entry.IconPath {
		if err := m.writer.UpdateField(path, desktop.KeyIcon, icon); err != nil {
			return "", err
		}
	}
	m.logger.Debug("descriptor updated", zap.String("path", path))
	return path, nil
}

// writeDescriptor writes a complete descriptor for name. own is the
// descriptor the entry already has, which is replaced without asking.
func (m *Manager) writeDescriptor(tx *txn, name, exec, icon, comment, own string) (string, error) {
	path := m.writer.PathFor(name)
	prev, hadPrev := snapshot(path)

	path, err := m.writer.Write(name, desktop.ExecCommand(exec), icon, comment, m.overwriteOwn(own))
	if err != nil {
		return "", err
	}
	tx.onFailure("restore descriptor", func() error { return restore(path, prev, hadPrev, 0755) })
	m.logger.Debug("descriptor written", zap.String("path", path))
	return path, nil
}

// commitEntry records updated in the registry. A changed name replaces the
// record named oldName; otherwise the record is updated in place. The
// registry file is restored byte for byte on rollback.
func (m *Manager) commitEntry(tx *txn, oldName string, updated models.Entry) error {
	prev, hadPrev := snapshot(m.store.Path())
	tx.onFailure("restore registry", func() error { return restore(m.store.Path(), prev, hadPrev, 0644) })

	if updated.Name == oldName {
		return m.store.UpdateInPlace(oldName, updated.ExecutablePath, updated.DescriptorPath, updated.IconPath)
	}
	if err := m.store.Remove(oldName); err != nil {
		return err
	}
	return m.store.Append(updated)
}
