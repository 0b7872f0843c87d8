// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the tigergo CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// tigergo color palette - graph oranges and slate
var (
	// Primary palette (brightest to darkest)
	ColorAmberBright  = lipgloss.Color("#FFB347") // Bright amber - highlights
	ColorAmberPrimary = lipgloss.Color("#F58220") // Primary orange - brand color
	ColorAmberDeep    = lipgloss.Color("#C96A12") // Deep orange - borders, accents
	ColorRust         = lipgloss.Color("#9A4E0E") // Rust - subtle accents

	// Dark palette (for muted elements)
	ColorSlate   = lipgloss.Color("#4A5568") // Slate - muted text, borders
	ColorCharcoal = lipgloss.Color("#2D3748") // Charcoal - deep backgrounds

	// Semantic colors
	ColorSuccess = lipgloss.Color("#48BB78") // Green for success
	ColorWarning = lipgloss.Color("#F4D03F") // Gold/amber for warnings
	ColorError   = lipgloss.Color("#E74C3C") // Red for errors
	ColorMuted   = lipgloss.Color("#4A5568") // Slate for muted text
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Catalog listing styles
	Category lipgloss.Style
	Link     lipgloss.Style

	// Box styles
	Box lipgloss.Style
}{
	// Text styles
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorAmberBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorAmberPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAmberBright).Bold(true),

	// Catalog listing styles
	Category: lipgloss.NewStyle().Bold(true).Foreground(ColorAmberPrimary),
	Link:     lipgloss.NewStyle().Foreground(ColorAmberDeep).Underline(true),

	// Box styles
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAmberDeep).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// IsTerminal reports whether stdout is an interactive terminal.
// lipgloss degrades to plain text on its own when stdout is not a TTY;
// this helper is for callers that want to switch output shape entirely
// (e.g. tab-separated listings when piped).
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Print helpers

// Title prints a styled title
func Title(text string) {
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message
func Warning(text string) {
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message
func Error(text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational message
func Info(text string) {
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints muted/secondary text
func Muted(text string) {
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints text in a rounded box
func Box(title, content string) {
	boxStyle := Styles.Box.Width(72)
	titleLine := Styles.Title.Render(title)
	fmt.Println(boxStyle.Render(titleLine + "\n" + content))
}

// CategoryLine renders one level of an algorithm catalog listing,
// indented by depth.
func CategoryLine(depth int, label string) string {
	return indent(depth) + Styles.Category.Render(label+":")
}

// LeafLine renders a catalog leaf (an algorithm name with its
// documentation link), indented by depth.
func LeafLine(depth int, name, url string) string {
	if url == "" {
		return indent(depth) + name
	}
	return indent(depth) + name + " " + Styles.Link.Render(url)
}

func indent(depth int) string {
	const step = "  "
	s := ""
	for i := 0; i < depth; i++ {
		s += step
	}
	return s
}
