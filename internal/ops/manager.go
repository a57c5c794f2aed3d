// Package ops implements the user-facing entry operations: add, edit,
// replace-version, delete and rescan. Each operation moves bundle files,
// writes launcher descriptors and updates the registry, undoing its own
// completed steps when a later one fails.
package ops

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/appimage"
	"appreg/internal/backup"
	"appreg/internal/config"
	"appreg/internal/desktop"
	"appreg/internal/detect"
	"appreg/internal/models"
	"appreg/internal/prompt"
	"appreg/internal/registry"
	"appreg/internal/ui"
	"appreg/internal/ui/components"

	"go.uber.org/zap"
)

// Extractor reads a display name from a bundle's embedded metadata.
type Extractor interface {
	ExtractName(ctx context.Context, bundle string) (string, bool)
}

// Refresher asks the desktop to re-read launcher descriptors.
type Refresher interface {
	Refresh(ctx context.Context, dir string)
}

// Manager runs entry operations against one registry and its directories.
type Manager struct {
	cfg     *config.Config
	store   *registry.Store
	writer  *desktop.Writer
	backups *backup.Manager
	prompt  prompt.Prompter
	out     io.Writer
	logger  *zap.Logger

	extractor Extractor
	refresher Refresher
	newest    func(ctx context.Context, dir string, patterns []string) (string, bool)
	sniffELF  func(path string) (bool, string, error)
}

// New creates a Manager wired to the directories in cfg.
func New(cfg *config.Config, p prompt.Prompter, out io.Writer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout, _ := cfg.Timeout()

	return &Manager{
		cfg:       cfg,
		store:     registry.New(cfg.RegistryPath, cfg.BundleExt, cfg.DescriptorExt),
		writer:    desktop.NewWriter(cfg.DescriptorDir, cfg.DescriptorExt, cfg.Category),
		backups:   backup.New(),
		prompt:    p,
		out:       out,
		logger:    logger,
		extractor: appimage.NewExtractor(timeout, logger.Named("extract")),
		refresher: desktop.NewRefresher(cfg.RefreshCommand, logger.Named("refresh")),
		newest:    detect.Newest,
		sniffELF:  appimage.IsELF,
	}
}

// Load reads the registry fresh from disk.
func (m *Manager) Load() (*registry.Registry, error) {
	return m.store.Load()
}

// Initialize prepares the registry file. When it does not exist yet, the
// registry is built by scanning the managed directory.
func (m *Manager) Initialize() (scanned bool, err error) {
	if m.store.Exists() {
		return false, m.store.EnsureFile()
	}

	res, err := m.store.InitializeFromScan(m.cfg.BundleDir, m.cfg.DescriptorDir)
	if err != nil {
		return false, err
	}
	m.reportSkipped(res)
	m.logger.Info("registry initialized from scan",
		zap.String("dir", m.cfg.BundleDir),
		zap.Int("entries", res.Count))
	return true, nil
}

// reportSkipped warns about bundles a scan could not record.
func (m *Manager) reportSkipped(res registry.ScanResult) {
	for _, name := range res.Skipped {
		m.logger.Warn("bundle skipped during scan",
			zap.String("dir", m.cfg.BundleDir),
			zap.String("file", name))
		m.notify(ui.NotifyWarning, fmt.Sprintf("Skipped %q: the name contains '|' or a line break.", name))
	}
}

// SelectEntry lists reg and asks for a 1-based index until a valid one is
// given.
func (m *Manager) SelectEntry(reg *registry.Registry, question string) (models.Entry, error) {
	if reg.Len() == 0 {
		return models.Entry{}, apperr.Validation("no applications are registered")
	}

	fmt.Fprintln(m.out, ui.RenderEntries(reg.Entries()))
	i, err := m.chooseIndex(fmt.Sprintf("%s [1-%d]", question, reg.Len()), reg.Len())
	if err != nil {
		return models.Entry{}, err
	}
	e, _ := reg.At(i)
	return e, nil
}

// chooseIndex asks until the answer is an integer in 1..n and returns it
// zero-based.
func (m *Manager) chooseIndex(question string, n int) (int, error) {
	for {
		answer, err := m.prompt.Ask(question, "")
		if err != nil {
			return 0, err
		}
		i, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		m.notify(ui.NotifyWarning, fmt.Sprintf("%q is not a number between 1 and %d.", answer, n))
	}
}

func (m *Manager) notify(kind, message string) {
	fmt.Fprintln(m.out, ui.RenderNotification(kind, message))
}

func (m *Manager) refresh(ctx context.Context) {
	m.refresher.Refresh(ctx, m.cfg.DescriptorDir)
}

// confirmOverwrite shows how an existing descriptor would change and asks
// whether to replace it.
func (m *Manager) confirmOverwrite(path, existing, proposed string) (bool, error) {
	dv := components.NewDiffView()
	dv.SetDiff(desktop.Diff(existing, proposed), path)
	fmt.Fprintln(m.out, dv.View())
	return m.prompt.Confirm("Overwrite the existing launcher entry?", false)
}

// overwriteOwn approves replacing a descriptor the entry already owns and
// asks for any other.
func (m *Manager) overwriteOwn(own string) desktop.ConfirmFunc {
	return func(path, existing, proposed string) (bool, error) {
		if path == own {
			return true, nil
		}
		return m.confirmOverwrite(path, existing, proposed)
	}
}

func (m *Manager) bundlePath(name string) string {
	return models.BundlePath(m.cfg.BundleDir, name, m.cfg.BundleExt)
}

func defaultComment(name string) string {
	return name + " (AppImage)"
}
