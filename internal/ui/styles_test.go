package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestColors(t *testing.T) {
	colors := []lipgloss.Color{
		Primary, Secondary, Success, Warning, Error, Muted, Foreground, Border,
	}

	for _, c := range colors {
		if c == "" {
			t.Error("Color should not be empty")
		}
	}
}

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		msgType string
		icon    string
	}{
		{NotifySuccess, "✓"},
		{NotifyError, "✗"},
		{NotifyWarning, "⚠"},
		{NotifyInfo, "ℹ"},
		{"other", "•"},
	}

	for _, tt := range tests {
		t.Run(tt.msgType, func(t *testing.T) {
			got := RenderNotification(tt.msgType, "message")
			if !strings.Contains(got, tt.icon) || !strings.Contains(got, "message") {
				t.Errorf("RenderNotification(%s) = %q", tt.msgType, got)
			}
		})
	}
}

func TestRenderHelpItem(t *testing.T) {
	got := RenderHelpItem("esc", "cancel")
	if !strings.Contains(got, "esc") || !strings.Contains(got, "cancel") {
		t.Errorf("RenderHelpItem() = %q", got)
	}
}

func TestRenderQuestion(t *testing.T) {
	if got := RenderQuestion("Name?", ""); !strings.Contains(got, "Name?") || strings.Contains(got, "[") {
		t.Errorf("RenderQuestion() without default = %q", got)
	}
	if got := RenderQuestion("Name?", "Foo"); !strings.Contains(got, "[Foo]") {
		t.Errorf("RenderQuestion() with default = %q", got)
	}
}
