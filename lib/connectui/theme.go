// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ics-connect/connect/lib/wire"
)

// Theme defines the color palette for the terminal UI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected result row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Reservation status colors.
	StatusConfirmed  lipgloss.Color
	StatusWaitlisted lipgloss.Color
	StatusCanceled   lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Error banner.
	BannerForeground lipgloss.Color
	BannerBackground lipgloss.Color

	// Fuzzy filter match highlighting.
	MatchBackground lipgloss.Color

	// Focused input field.
	FocusBorder lipgloss.Color
}

// StatusColor returns the color for a reservation status. Unknown
// values return FaintText.
func (theme Theme) StatusColor(status wire.ReservationStatus) lipgloss.Color {
	switch status {
	case wire.StatusConfirmed:
		return theme.StatusConfirmed
	case wire.StatusWaitlisted:
		return theme.StatusWaitlisted
	case wire.StatusCanceled:
		return theme.StatusCanceled
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusConfirmed:  lipgloss.Color("114"), // green
	StatusWaitlisted: lipgloss.Color("220"), // amber
	StatusCanceled:   lipgloss.Color("245"), // gray

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	BannerForeground: lipgloss.Color("255"),
	BannerBackground: lipgloss.Color("124"), // dark red

	MatchBackground: lipgloss.Color("58"), // dark amber tint

	FocusBorder: lipgloss.Color("75"), // blue
}
