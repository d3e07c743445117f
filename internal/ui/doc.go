// Package ui defines the terminal color palette used by the CLI output.
//
// Styling is plain [lipgloss] text rendering; commands print through the
// package-level [Styles] palette so headings, successes, warnings, and
// errors look consistent everywhere.
package ui
