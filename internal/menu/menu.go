// Package menu runs the numbered interactive menu. A failed operation is
// reported and the menu is shown again; only closed input or a cancelled
// context ends the loop.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/ops"
	"appreg/internal/prompt"
	"appreg/internal/ui"

	"go.uber.org/zap"
)

// Choice is a main menu option.
type Choice int

const (
	ChoiceAdd Choice = iota + 1
	ChoiceEdit
	ChoiceReplace
	ChoiceDelete
	ChoiceRescan
	ChoiceExit
)

// Menu drives ops.Manager from user choices.
type Menu struct {
	ops     *ops.Manager
	prompt  prompt.Prompter
	out     io.Writer
	logger  *zap.Logger
	title   string
	version string
}

// New creates a Menu.
func New(m *ops.Manager, p prompt.Prompter, out io.Writer, logger *zap.Logger, version string) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{ops: m, prompt: p, out: out, logger: logger, title: "appreg", version: version}
}

// Run shows the menu until the user exits. It returns nil on exit or when
// input ends.
func (mu *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(mu.out, ui.RenderHeader(mu.title, mu.version))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		count := 0
		if reg, err := mu.ops.Load(); err != nil {
			mu.report(err)
			mu.notify(ui.NotifyInfo, "Choose Rescan to rebuild the registry from the managed directory.")
		} else {
			count = reg.Len()
		}
		fmt.Fprintln(mu.out, ui.RenderMenu(count))

		answer, err := mu.prompt.Ask(fmt.Sprintf("Choose an option [1-%d]", len(ui.MainMenu)), "")
		if err != nil {
			if endOfInput(err) {
				return nil
			}
			return err
		}

		choice, ok := parseChoice(answer)
		if !ok {
			mu.notify(ui.NotifyWarning, fmt.Sprintf("%q is not a menu option.", answer))
			continue
		}
		if choice == ChoiceExit {
			return nil
		}

		if err := mu.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			mu.report(err)
		}
		fmt.Fprintln(mu.out)
	}
}

func (mu *Menu) dispatch(ctx context.Context, choice Choice) error {
	switch choice {
	case ChoiceAdd:
		return mu.ops.Add(ctx)
	case ChoiceEdit:
		return mu.ops.Edit(ctx)
	case ChoiceReplace:
		return mu.ops.ReplaceVersion(ctx)
	case ChoiceDelete:
		return mu.ops.Delete(ctx)
	case ChoiceRescan:
		_, err := mu.ops.Rescan(ctx)
		return err
	}
	return apperr.Validation("unknown menu option %d", choice)
}

// report prints one notification for a failed operation.
func (mu *Menu) report(err error) {
	kind := apperr.Kind(err)
	if errors.Is(err, apperr.ErrAborted) {
		mu.logger.Info("operation aborted", zap.Error(err))
		mu.notify(ui.NotifyWarning, "Cancelled: "+err.Error())
		return
	}
	mu.logger.Error("operation failed", zap.String("kind", kind), zap.Error(err))
	mu.notify(ui.NotifyError, err.Error())
}

func (mu *Menu) notify(kind, message string) {
	fmt.Fprintln(mu.out, ui.RenderNotification(kind, message))
}

func parseChoice(answer string) (Choice, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < int(ChoiceAdd) || n > int(ChoiceExit) {
		return 0, false
	}
	return Choice(n), true
}

// endOfInput reports whether err means no more answers can be read at the
// top level, which ends the session normally.
func endOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, prompt.ErrCancelled)
}
