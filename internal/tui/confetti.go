package tui

import (
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var confettiGlyphs = []string{"*", "+", "✦", "✧", "•", "°", "⋆"}

var confettiColors = []lipgloss.TerminalColor{
	ac("160", "203"),
	ac("28", "114"),
	ac("27", "75"),
	ac("130", "221"),
	ac("91", "177"),
}

// renderConfetti draws a celebratory strip. seq seeds the pattern so a redraw keeps it stable.
func renderConfetti(width int, seq int) string {
	if width < 10 {
		width = 10
	}
	r := rand.New(rand.NewPCG(uint64(seq), 0x7a5b))
	msg := " All done! "
	side := (width - len(msg)) / 2
	var b strings.Builder
	sprinkle := func(n int) {
		for i := 0; i < n; i++ {
			if r.IntN(3) == 0 {
				b.WriteByte(' ')
				continue
			}
			g := confettiGlyphs[r.IntN(len(confettiGlyphs))]
			c := confettiColors[r.IntN(len(confettiColors))]
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render(g))
		}
	}
	sprinkle(side)
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(msg))
	sprinkle(width - side - len(msg))
	return b.String()
}
