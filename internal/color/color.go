package color

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFFF"}).Bold(true)
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF00"}).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}).Bold(true)
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"})
	HeaderStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#87D787"}).Bold(true)
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#875F00", Dark: "#FFD75F"})
	MutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"})
)

// Initialize tells lipgloss which background to adapt the styles to.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// Info prefixes msg with a styled [INFO] tag.
func Info(msg string) string {
	return InfoStyle.Render("[INFO]") + " " + msg
}

// Warning prefixes msg with a styled [WARNING] tag.
func Warning(msg string) string {
	return WarningStyle.Render("[WARNING]") + " " + msg
}

// Error prefixes msg with a styled [ERROR] tag.
func Error(msg string) string {
	return ErrorStyle.Render("[ERROR]") + " " + msg
}

// Success renders msg in the success style, without a tag.
func Success(msg string) string {
	return SuccessStyle.Render(msg)
}
