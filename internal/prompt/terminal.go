package prompt

import (
	"io"
	"strings"
	"sync"

	"appreg/internal/ui"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Terminal asks each question with a small inline bubbletea program.
type Terminal struct {
	in   io.Reader
	out  io.Writer
	keys ui.KeyMap
}

// NewTerminal creates a Terminal prompter.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, keys: ui.DefaultKeyMap()}
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out)).Run()
}

// Ask implements Prompter. The default is pre-filled and editable.
func (t *Terminal) Ask(question, def string) (string, error) {
	final, err := t.run(newInputModel(question, def, t.keys))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	answer := strings.TrimSpace(m.input.Value())
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	final, err := t.run(confirmModel{question: question, value: def, keys: t.keys})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.value, nil
}

// Busy implements Busy with a spinner.
func (t *Terminal) Busy(label string, fn func()) {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.SpinnerStyle

	var once sync.Once
	run := func() { once.Do(fn) }
	if _, err := t.run(busyModel{spinner: s, label: label, fn: run}); err != nil {
		run()
	}
}

type inputModel struct {
	question  string
	input     textinput.Model
	keys      ui.KeyMap
	done      bool
	cancelled bool
}

func newInputModel(question, def string, keys ui.KeyMap) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(def)
	ti.CursorEnd()
	ti.Focus()
	return inputModel{question: question, input: ti, keys: keys}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Submit):
			m.done = true
			return m, tea.Quit
		case key.Matches(k, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.cancelled {
		return ui.RenderQuestion(m.question, "") + m.input.Value() + "\n"
	}
	return ui.RenderQuestion(m.question, "") + m.input.View() + "\n" + m.keys.ShortHelp() + "\n"
}

type confirmModel struct {
	question  string
	value     bool
	keys      ui.KeyMap
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Yes):
		m.value, m.done = true, true
	case key.Matches(k, m.keys.No):
		m.value, m.done = false, true
	case key.Matches(k, m.keys.Submit):
		m.done = true
	case key.Matches(k, m.keys.Cancel):
		m.cancelled = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	hint := "y/N"
	if m.value {
		hint = "Y/n"
	}
	if m.done {
		answer := "no"
		if m.value {
			answer = "yes"
		}
		return ui.RenderQuestion(m.question, hint) + answer + "\n"
	}
	if m.cancelled {
		return ui.RenderQuestion(m.question, hint) + "\n"
	}
	return ui.RenderQuestion(m.question, hint) + "\n" + m.keys.ConfirmHelp() + "\n"
}

type busyDoneMsg struct{}

type busyModel struct {
	spinner spinner.Model
	label   string
	fn      func()
	done    bool
}

func (m busyModel) Init() tea.Cmd {
	fn := m.fn
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		fn()
		return busyDoneMsg{}
	})
}

func (m busyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case busyDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m busyModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label
}
