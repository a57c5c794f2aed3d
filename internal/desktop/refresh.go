package desktop

import (
	"context"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// DefaultRefreshCommand rebuilds the MIME/launcher cache for a directory.
const DefaultRefreshCommand = "update-desktop-database"

// Refresher asks the desktop environment to re-read a descriptor directory.
// Failures are logged and never returned.
type Refresher struct {
	command string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRefresher creates a Refresher running command. An empty command uses
// DefaultRefreshCommand.
func NewRefresher(command string, logger *zap.Logger) *Refresher {
	if command == "" {
		command = DefaultRefreshCommand
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{command: command, timeout: 15 * time.Second, logger: logger}
}

// Refresh runs the refresh command against dir.
func (r *Refresher) Refresh(ctx context.Context, dir string) {
	bin, err := exec.LookPath(r.command)
	if err != nil {
		r.logger.Debug("launcher cache refresh skipped", zap.String("command", r.command), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, dir).CombinedOutput()
	if err != nil {
		r.logger.Warn("launcher cache refresh failed",
			zap.String("command", r.command),
			zap.String("dir", dir),
			zap.ByteString("output", out),
			zap.Error(err))
		return
	}
	r.logger.Debug("launcher cache refreshed", zap.String("dir", dir))
}
