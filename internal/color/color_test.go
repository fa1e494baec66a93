package color

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	defer lipgloss.SetHasDarkBackground(lipgloss.HasDarkBackground())

	Initialize(true)
	assert.True(t, lipgloss.HasDarkBackground())

	Initialize(false)
	assert.False(t, lipgloss.HasDarkBackground())
}

func TestMessages(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"info", Info("started"), "[INFO] started"},
		{"warning", Warning("hook failed"), "[WARNING] hook failed"},
		{"error", Error("engine down"), "[ERROR] engine down"},
		{"success", Success("shop is running"), "shop is running"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
