package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings used by interactive prompts
type KeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Yes    key.Binding
	No     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "no"),
		),
	}
}

// ShortHelp returns the help line shown under a prompt.
func (k KeyMap) ShortHelp() string {
	return RenderHelpItem(k.Submit.Help().Key, k.Submit.Help().Desc) + "  " +
		RenderHelpItem(k.Cancel.Help().Key, k.Cancel.Help().Desc)
}

// ConfirmHelp returns the help line shown under a yes/no question.
func (k KeyMap) ConfirmHelp() string {
	return RenderHelpItem(k.Yes.Help().Key, k.Yes.Help().Desc) + "  " +
		RenderHelpItem(k.No.Help().Key, k.No.Help().Desc) + "  " +
		RenderHelpItem(k.Submit.Help().Key, "default") + "  " +
		RenderHelpItem(k.Cancel.Help().Key, k.Cancel.Help().Desc)
}
