package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

var (
	positiveColor = lipgloss.Color("#8BC34A")
	negativeColor = lipgloss.Color("#E53935")
	neutralColor  = lipgloss.Color("#4DB6AC")
	accentColor   = lipgloss.Color("#2196F3")
	mutedColor    = lipgloss.Color("#9E9E9E")
	warningColor  = lipgloss.Color("#FFC107")
)

var rainbow = []lipgloss.Color{"9", "11", "10", "14", "12", "13"}

// styles renders for one output. A renderer bound to a non-terminal writer
// emits plain text.
type styles struct {
	r *lipgloss.Renderer

	prompt    lipgloss.Style
	assistant lipgloss.Style
	muted     lipgloss.Style
	errorText lipgloss.Style
	title     lipgloss.Style
	plaque    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		r:         r,
		prompt:    r.NewStyle().Foreground(accentColor).Bold(true),
		assistant: r.NewStyle().Foreground(lipgloss.Color("#F2F2F2")),
		muted:     r.NewStyle().Foreground(mutedColor),
		errorText: r.NewStyle().Foreground(warningColor),
		title:     r.NewStyle().Foreground(accentColor).Bold(true).Underline(true),
		plaque:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// mood colours a mood by valence and weights it by intensity.
func (s styles) mood(m domain.Mood) lipgloss.Style {
	st := s.r.NewStyle()
	switch m.State.Valence() {
	case 1:
		st = st.Foreground(positiveColor)
	case -1:
		st = st.Foreground(negativeColor)
	default:
		st = st.Foreground(neutralColor)
	}

	switch m.Intensity {
	case domain.IntensityLow:
		st = st.Faint(true)
	case domain.IntensityHigh:
		st = st.Bold(true)
	case domain.IntensityExtreme:
		st = st.Bold(true).Underline(true)
	}
	return st
}

func (s styles) statusLine(m domain.Mood, model string) string {
	return s.muted.Render("[") + s.mood(m).Render(m.String()) + s.muted.Render(" | "+model+"]")
}
