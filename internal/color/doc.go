// Package color holds the terminal styles of dockctl.
//
// Styles use lipgloss adaptive colors so they read on dark and light
// terminals. lipgloss strips them when the output is not a terminal or
// NO_COLOR is set.
//
//	fmt.Fprintln(os.Stderr, color.Warning("proxy could not be started"))
package color
