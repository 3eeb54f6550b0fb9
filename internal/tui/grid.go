package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pawgrammers/internal/dashboard/optimistic"
	"pawgrammers/internal/petstore"
)

const (
	cardWidth = 30
	cardGap   = 1
)

// cuadros de la explosión; se reparten a lo largo de ClearDelay
var explosionFrames = []string{
	"    *    ",
	"  * * *  ",
	" * *** * ",
	"*  ***  *",
	" .  *  . ",
	"  .   .  ",
	"    .    ",
}

func explosionFrame(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	i := int(elapsed * time.Duration(len(explosionFrames)) / optimistic.ClearDelay)
	if i >= len(explosionFrames) {
		i = len(explosionFrames) - 1
	}
	return explosionFrames[i]
}

// describe arma la línea "breed, N yrs".
func describe(p petstore.Pet) string {
	if p.Age == nil {
		return p.Breed
	}
	unit := "yrs"
	if *p.Age == 1 {
		unit = "yr"
	}
	if p.Breed == "" {
		return fmt.Sprintf("%d %s", *p.Age, unit)
	}
	return fmt.Sprintf("%s, %d %s", p.Breed, *p.Age, unit)
}

type cardState struct {
	active    bool
	saving    bool
	exploding bool
	elapsed   time.Duration
}

func renderCard(st styles, p petstore.Pet, cs cardState) string {
	style := st.card
	if cs.active {
		style = st.cardActive
	}

	inner := cardWidth - 4
	var lines []string
	if cs.exploding {
		frame := explosionFrame(cs.elapsed)
		lines = []string{
			st.explosion.Render(truncate(p.Name, inner)),
			st.explosion.Render(frame),
			st.explosion.Render(frame),
		}
		return style.Render(strings.Join(lines, "\n"))
	}

	name := truncate(p.Name, inner)
	if cs.saving {
		name = truncate(p.Name, inner-10) + " " + st.dim.Render("(saving)")
	}
	picture := st.dim.Render("No pet picture")
	if p.PictureURL != "" {
		picture = st.dim.Render(truncateHead(p.PictureURL, inner))
	}
	lines = []string{
		st.cardName.Render(name),
		st.normal.Render(truncate(describe(p), inner)),
		picture,
	}
	return style.Render(strings.Join(lines, "\n"))
}

// columns calcula cuántas tarjetas entran por fila.
func columns(width int) int {
	if width <= 0 {
		return 1
	}
	n := (width + cardGap) / (cardWidth + 2 + cardGap)
	if n < 1 {
		return 1
	}
	return n
}

func renderGrid(st styles, cards []string, cols int) string {
	if len(cards) == 0 {
		return ""
	}
	var rows []string
	for i := 0; i < len(cards); i += cols {
		end := i + cols
		if end > len(cards) {
			end = len(cards)
		}
		row := make([]string, 0, 2*(end-i))
		for j, c := range cards[i:end] {
			if j > 0 {
				row = append(row, strings.Repeat(" ", cardGap))
			}
			row = append(row, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// truncateHead recorta por el principio; en una URL importa el final.
func truncateHead(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return "…" + string(r[len(r)-n+1:])
}
