package ui

import (
	"fmt"
	"strings"

	"appreg/internal/models"
	"appreg/internal/paths"
)

// MenuItem is one numbered menu choice.
type MenuItem struct {
	Key   string
	Label string
}

// MainMenu lists the top-level operations in display order.
var MainMenu = []MenuItem{
	{"1", "Add application"},
	{"2", "Edit application"},
	{"3", "Replace version"},
	{"4", "Delete application"},
	{"5", "Rescan managed directory"},
	{"6", "Exit"},
}

// RenderHeader renders the program title line.
func RenderHeader(title, version string) string {
	if version == "" {
		return HeaderStyle.Render(title)
	}
	return HeaderStyle.Render(title) + " " + VersionStyle.Render(version)
}

// RenderMenu renders the numbered main menu.
func RenderMenu(count int) string {
	var b strings.Builder
	for _, item := range MainMenu {
		fmt.Fprintf(&b, "%s %s\n", IndexStyle.Render(item.Key+")"), NameStyle.Render(item.Label))
	}
	b.WriteString(MutedStyle.Render(fmt.Sprintf("%d managed application(s)", count)))
	return PanelStyle.Render(b.String())
}

// RenderEntries renders entries as a 1-based numbered list. Entries whose
// bundle is missing or not executable are marked.
func RenderEntries(entries []models.Entry) string {
	if len(entries) == 0 {
		return MutedStyle.Render("No applications registered.")
	}

	width := len(fmt.Sprint(len(entries)))
	var lines []string
	for i, e := range entries {
		index := IndexStyle.Render(fmt.Sprintf("%*d)", width, i+1))
		line := index + " " + NameStyle.Render(e.Name) + "  " + PathStyle.Render(paths.Contract(e.ExecutablePath))
		if !e.Usable() {
			line += "  " + StaleStyle.Render("(missing)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
