package components

import (
	"fmt"
	"strings"

	"appreg/internal/desktop"
	"appreg/internal/paths"
	"appreg/internal/ui"
)

// DiffView shows how an existing launcher descriptor would change if it were
// overwritten.
type DiffView struct {
	Width int

	Path       string
	DiffResult *desktop.DiffResult

	highlighter     *ui.Highlighter
	enableHighlight bool
}

// NewDiffView creates a new DiffView
func NewDiffView() *DiffView {
	return &DiffView{
		Width:           80,
		highlighter:     ui.NewHighlighter(),
		enableHighlight: true,
	}
}

// SetDiff sets the diff result to display
func (d *DiffView) SetDiff(result *desktop.DiffResult, path string) {
	d.DiffResult = result
	d.Path = path
}

// SetHighlight turns syntax colouring of unchanged lines on or off.
func (d *DiffView) SetHighlight(on bool) {
	d.enableHighlight = on
}

// View renders the diff view
func (d *DiffView) View() string {
	if d.DiffResult == nil {
		return "No diff to display"
	}

	var b strings.Builder
	b.WriteString(d.renderHeader())
	b.WriteString("\n")
	b.WriteString(d.renderStats())
	if !d.DiffResult.Identical {
		b.WriteString("\n")
		b.WriteString(d.renderDiff())
	}
	return b.String()
}

func (d *DiffView) renderHeader() string {
	return ui.QuestionStyle.Render("Existing descriptor") + "  " + ui.MutedStyle.Render(paths.Contract(d.Path))
}

func (d *DiffView) renderStats() string {
	if d.DiffResult.Identical {
		return ui.MutedStyle.Render("✓ Descriptor content is unchanged")
	}

	var parts []string
	if d.DiffResult.LinesAdded > 0 {
		parts = append(parts, ui.AddStyle.Render(fmt.Sprintf("+%d", d.DiffResult.LinesAdded)))
	}
	if d.DiffResult.LinesRemoved > 0 {
		parts = append(parts, ui.DeleteStyle.Render(fmt.Sprintf("-%d", d.DiffResult.LinesRemoved)))
	}
	return strings.Join(parts, " ")
}

func (d *DiffView) renderDiff() string {
	lineWidth := d.Width - 4
	lines := make([]string, 0, len(d.DiffResult.Lines))
	for _, line := range d.DiffResult.Lines {
		lines = append(lines, d.formatDiffLine(line, lineWidth))
	}
	return strings.Join(lines, "\n")
}

func (d *DiffView) formatDiffLine(line desktop.DiffLine, maxWidth int) string {
	content := line.Content
	if maxWidth > 5 && len(content) > maxWidth-2 {
		content = content[:maxWidth-5] + "..."
	}

	switch line.Type {
	case desktop.DiffInsert:
		return ui.AddStyle.Render("+ " + content)
	case desktop.DiffDelete:
		return ui.DeleteStyle.Render("- " + content)
	default:
		if d.enableHighlight && d.highlighter != nil {
			content = d.highlighter.HighlightLine(content)
		}
		return "  " + content
	}
}

// HasChanges returns true if there are differences
func (d *DiffView) HasChanges() bool {
	return d.DiffResult != nil && !d.DiffResult.Identical
}
