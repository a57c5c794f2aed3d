// Package appimage inspects bundles: it extracts the display name embedded in
// a bundle's own launcher descriptor and sniffs file types before a bundle or
// icon is installed.
package appimage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"appreg/internal/desktop"
	"appreg/internal/fsutil"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single extraction run.
const DefaultTimeout = 30 * time.Second

// extractDir is where a type 2 bundle unpacks itself.
const extractDir = "squashfs-root"

// Extractor runs "<bundle> --appimage-extract *.desktop" in a private scratch
// directory and reads Name= from the result.
type Extractor struct {
	ScratchRoot string // Parent of scratch directories, os.TempDir() when empty
	timeout     time.Duration
	logger      *zap.Logger
}

// NewExtractor creates an Extractor. A non-positive timeout uses DefaultTimeout.
func NewExtractor(timeout time.Duration, logger *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{timeout: timeout, logger: logger}
}

// ExtractName returns the bundle's embedded display name. Any failure,
// including a timeout, yields ok=false.
func (e *Extractor) ExtractName(ctx context.Context, bundle string) (name string, ok bool) {
	name, err := e.extract(ctx, bundle)
	if err != nil {
		e.logger.Debug("metadata extraction failed",
			zap.String("bundle", bundle),
			zap.Error(err))
		return "", false
	}
	return name, name != ""
}

func (e *Extractor) extract(ctx context.Context, bundle string) (string, error) {
	root := e.ScratchRoot
	if root == "" {
		root = os.TempDir()
	}
	scratch := filepath.Join(root, "appreg-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0700); err != nil {
		return "", fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	runnable, err := runnableCopy(bundle, scratch)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, runnable, "--appimage-extract", "*.desktop")
	cmd.Dir = scratch
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("extraction timed out after %s: %w", e.timeout, ctx.Err())
		}
		return "", fmt.Errorf("extraction failed: %w", err)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(scratch, extractDir, "*.desktop"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("bundle contains no descriptor")
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(desktop.ParseFields(string(data))[desktop.KeyName])
	e.logger.Debug("metadata extracted",
		zap.String("bundle", bundle),
		zap.String("name", name))
	return name, nil
}

// runnableCopy returns bundle itself when it is already executable, otherwise
// an executable copy inside scratch. The source file is never modified.
func runnableCopy(bundle, scratch string) (string, error) {
	info, err := os.Stat(bundle)
	if err != nil {
		return "", err
	}
	if info.Mode().Perm()&0111 != 0 {
		return bundle, nil
	}

	dst := filepath.Join(scratch, "bundle")
	if err := fsutil.CopyFile(bundle, dst); err != nil {
		return "", err
	}
	if err := os.Chmod(dst, 0700); err != nil {
		return "", err
	}
	return dst, nil
}
