package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wcatz/heritage-timeline/internal/layout"
)

const minTerminalWidth = 40

// TerminalRenderer draws a document as styled text for the show command.
type TerminalRenderer struct {
	Width int
}

// NewTerminalRenderer creates a renderer for the given column width.
func NewTerminalRenderer(width int) *TerminalRenderer {
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return &TerminalRenderer{Width: width}
}

// Render produces the header, century ruler and one row per event.
func (r *TerminalRenderer) Render(doc *Document) string {
	title := lipgloss.NewStyle().Bold(true).Render(doc.Title)
	muted := lipgloss.NewStyle().Faint(true)

	lines := []string{title}
	if doc.Subtitle != "" {
		lines = append(lines, muted.Render(doc.Subtitle))
	}
	lines = append(lines, r.legend(doc), "")

	ruler, labels := r.ruler(doc.Layout.Centuries)
	lines = append(lines, ruler, muted.Render(labels))

	if len(doc.Layout.Placements) == 0 {
		lines = append(lines, "", muted.Render("no categories selected"))
	}
	for _, p := range doc.Layout.Placements {
		lines = append(lines, r.row(doc, p))
	}

	rng := doc.Layout.Range
	footer := fmt.Sprintf("%d events · %d to %d · %d lanes", doc.EventCount(), rng.Min, rng.Max, doc.Layout.MaxLane()+1)
	lines = append(lines, "", muted.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *TerminalRenderer) legend(doc *Document) string {
	var parts []string
	for _, c := range doc.Categories {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
		mark := "○"
		if c.Selected {
			mark = "●"
			style = style.Bold(true)
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %s (%d)", mark, c.Name, c.Count)))
	}
	return strings.Join(parts, "  ")
}

// ruler returns the axis line with century ticks and a label line below it.
func (r *TerminalRenderer) ruler(centuries []layout.CenturyMarker) (string, string) {
	axis := []rune(strings.Repeat("─", r.Width))
	labels := []rune(strings.Repeat(" ", r.Width))
	next := 0
	for _, c := range centuries {
		col := r.column(c.Position)
		axis[col] = '┼'
		text := []rune(c.Label)
		start := col - len(text)/2
		if start < next || start < 0 || start+len(text) > r.Width {
			continue
		}
		copy(labels[start:], text)
		next = start + len(text) + 1
	}
	return string(axis), strings.TrimRight(string(labels), " ")
}

func (r *TerminalRenderer) row(doc *Document, p layout.Placement) string {
	color := lipgloss.Color(doc.Color(p.Event.Category.String()))
	marker := lipgloss.NewStyle().Foreground(color).Render("●")
	if p.Highlighted {
		marker = lipgloss.NewStyle().Foreground(color).Bold(true).Reverse(true).Render("◆")
	}

	col := r.column(p.Position)
	track := strings.Repeat(" ", col) + marker + strings.Repeat(" ", r.Width-col-1)

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(color).
		Padding(0, 1).
		Render(p.Event.Category.Style().Name)
	arrow := "↑"
	if p.Side == layout.Below {
		arrow = "↓"
	}
	detail := fmt.Sprintf("%s %s %s (%s) lane %d %s %.1f%%",
		badge, p.Key, p.Event.Title, p.Event.Date, p.Lane, arrow, p.Position)

	return lipgloss.JoinVertical(lipgloss.Left, track, "  "+detail)
}

// column maps an axis percentage to a terminal column.
func (r *TerminalRenderer) column(position float64) int {
	col := int(math.Round(position / 100 * float64(r.Width-1)))
	if col < 0 {
		return 0
	}
	if col >= r.Width {
		return r.Width - 1
	}
	return col
}
