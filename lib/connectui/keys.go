// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the terminal UI. Text entry
// goes to the focused input; everything else routes through these.
type KeyMap struct {
	Quit       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	NextResult key.Binding
	PrevResult key.Binding
	OpenResult key.Binding
	LoadMore   key.Binding
	Filter     key.Binding
	CancelResv key.Binding
	Logout     key.Binding
	ClearInput key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("ctrl+c", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit / open"),
	),
	NextResult: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next result"),
	),
	PrevResult: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous result"),
	),
	OpenResult: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open result"),
	),
	LoadMore: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "load more"),
	),
	Filter: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "filter results"),
	),
	CancelResv: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "cancel reservation"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "sign out"),
	),
	ClearInput: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear field"),
	),
}
