// Package terminal renders section-sign formatted banners as ANSI text.
package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"fyrxlab.net/solvermotd/internal/core/legacy"
)

// Renderer maps legacy colour and decoration codes onto lipgloss styles.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer detects the colour profile of w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{r: lipgloss.NewRenderer(w)}
}

// NewRendererWithProfile renders with a fixed colour profile.
func NewRendererWithProfile(profile termenv.Profile) *Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return &Renderer{r: r}
}

// Render converts text to ANSI. Styles carry across line breaks the same
// way a client renders them.
func (r *Renderer) Render(text string) string {
	var b strings.Builder
	for _, seg := range legacy.Segments(text) {
		st := r.style(seg.Style)
		for i, part := range strings.Split(seg.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if part != "" {
				b.WriteString(st.Render(part))
			}
		}
	}
	return b.String()
}

func (r *Renderer) style(s legacy.Style) lipgloss.Style {
	st := r.r.NewStyle()
	if c, ok := legacy.ColorByCode(s.Color); ok {
		st = st.Foreground(lipgloss.Color(c.Hex))
	}
	return st.
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Strikethrough(s.Strikethrough).
		Blink(s.Obfuscated)
}

// Plain strips every formatting code.
func Plain(text string) string {
	return legacy.Strip(text)
}
