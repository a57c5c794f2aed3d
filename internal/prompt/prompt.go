// Package prompt asks the user for answers: free text with a default, yes/no
// confirmations, and busy indicators around slow steps.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/ui"

	"github.com/mattn/go-isatty"
)

// ErrCancelled is returned when the user backs out of a question.
var ErrCancelled = fmt.Errorf("%w: input cancelled", apperr.ErrAborted)

// Prompter supplies answers to questions.
type Prompter interface {
	// Ask returns the answer, or def when the answer is empty.
	Ask(question, def string) (string, error)
	// Confirm returns a yes/no decision, or def when the answer is empty.
	Confirm(question string, def bool) (bool, error)
}

// Busy is implemented by prompters that can show progress while fn runs.
type Busy interface {
	Busy(label string, fn func())
}

// RunBusy runs fn, showing label if p supports it.
func RunBusy(p Prompter, label string, fn func()) {
	if b, ok := p.(Busy); ok {
		b.Busy(label, fn)
		return
	}
	fn()
}

// New returns an interactive Terminal prompter when both ends are terminals,
// and a line-based prompter otherwise.
func New(in, out *os.File) Prompter {
	if isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd()) {
		return NewTerminal(in, out)
	}
	return NewLine(in, out)
}

// Line reads answers one line at a time. It suits pipes and dumb terminals.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine creates a line-based prompter.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// Ask implements Prompter.
func (l *Line) Ask(question, def string) (string, error) {
	fmt.Fprint(l.out, ui.RenderQuestion(question, def))
	answer, err := l.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm implements Prompter. Unrecognised answers repeat the question.
func (l *Line) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprint(l.out, ui.RenderQuestion(question, hint))
		answer, err := l.readLine()
		if err != nil {
			return false, err
		}
		if v, ok := parseYesNo(answer, def); ok {
			return v, nil
		}
		fmt.Fprintln(l.out, ui.RenderNotification(ui.NotifyWarning, "Please answer y or n."))
	}
}

// readLine returns io.EOF only when no input at all is left.
func (l *Line) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func parseYesNo(answer string, def bool) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}
