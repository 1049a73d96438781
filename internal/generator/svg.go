package generator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wcatz/heritage-timeline/internal/config"
	"github.com/wcatz/heritage-timeline/internal/layout"
)

const (
	svgMargin     = 40
	svgHeader     = 80
	cardHeight    = 58
	markerRadius  = 6
	centuryRadius = 4
)

// LinkFunc returns an href for a placement, or "" for no link.
type LinkFunc func(p layout.Placement) string

// SVGRenderer draws a document as a standalone SVG image.
type SVGRenderer struct {
	Settings config.SVGSettings
	Link     LinkFunc
}

// NewSVGRenderer creates a renderer with the given canvas settings.
func NewSVGRenderer(settings config.SVGSettings) *SVGRenderer {
	return &SVGRenderer{Settings: settings}
}

// Height returns the canvas height needed for the document's deepest lane.
func (r *SVGRenderer) Height(doc *Document) int {
	maxConn := 0
	for _, p := range doc.Layout.Placements {
		if p.ConnectorLength > maxConn {
			maxConn = p.ConnectorLength
		}
	}
	needed := svgHeader + 2*(maxConn+cardHeight+svgMargin)
	if needed < r.Settings.Height {
		return r.Settings.Height
	}
	return needed
}

// Render produces the SVG markup.
func (r *SVGRenderer) Render(doc *Document) string {
	s := r.Settings
	width := s.Width
	height := r.Height(doc)
	axisY := svgHeader + (height-svgHeader)/2

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.title-text { font-family: %s; font-size: 22px; font-weight: bold; fill: %s; }
.subtitle-text { font-family: %s; font-size: 13px; fill: %s; }
.century-text { font-family: %s; font-size: 11px; fill: %s; }
.event-title { font-family: %s; font-size: 12px; font-weight: bold; fill: %s; }
.event-date { font-family: %s; font-size: 11px; fill: %s; }
.event-label { font-family: %s; font-size: 10px; }
</style>
</defs>
`, width, height, width, height, s.Background,
		s.FontFamily, s.TextColor,
		s.FontFamily, s.AxisColor,
		s.FontFamily, s.AxisColor,
		s.FontFamily, s.TextColor,
		s.FontFamily, s.AxisColor,
		s.FontFamily))

	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="title-text">%s</text>`+"\n",
		svgMargin, 36, escapeXML(doc.Title)))
	if doc.Subtitle != "" {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="subtitle-text">%s</text>`+"\n",
			svgMargin, 56, escapeXML(doc.Subtitle)))
	}
	r.drawLegend(&svg, doc, width)

	// axis
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`+"\n",
		svgMargin, axisY, width-svgMargin, axisY, s.AxisColor))

	for _, c := range doc.Layout.Centuries {
		x := r.x(c.Position)
		svg.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="%s"/>`+"\n",
			x, axisY, centuryRadius, s.AxisColor))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="century-text">%s</text>`+"\n",
			x, axisY+18, escapeXML(c.Label)))
	}

	for _, p := range drawOrder(doc.Layout.Placements) {
		r.drawPlacement(&svg, doc, p, axisY)
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

func (r *SVGRenderer) drawLegend(svg *strings.Builder, doc *Document, width int) {
	x := width - svgMargin
	for i := len(doc.Categories) - 1; i >= 0; i-- {
		c := doc.Categories[i]
		if !c.Selected {
			continue
		}
		label := escapeXML(c.Name)
		x -= estimateTextWidth(c.Name, 12) + 22
		svg.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="5" fill="%s"/>`+"\n", x, 32, c.Color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="event-date">%s</text>`+"\n", x+9, 36, label))
	}
}

func (r *SVGRenderer) drawPlacement(svg *strings.Builder, doc *Document, p layout.Placement, axisY int) {
	s := r.Settings
	color := doc.Color(p.Event.Category.String())
	x := r.x(p.Position)

	dir := -1
	if p.Side == layout.Below {
		dir = 1
	}
	endY := axisY + dir*p.ConnectorLength
	cardY := endY
	if dir < 0 {
		cardY = endY - cardHeight
	}
	cardX := x - s.CardWidth/2
	if cardX < 0 {
		cardX = 0
	}
	if cardX+s.CardWidth > s.Width {
		cardX = s.Width - s.CardWidth
	}
	stroke := 1
	radius := markerRadius
	if p.Highlighted {
		stroke = 3
		radius = markerRadius + 2
	}

	href := ""
	if r.Link != nil {
		href = r.Link(p)
	}
	if href != "" {
		svg.WriteString(fmt.Sprintf(`<a href="%s">`, escapeXML(href)))
	}
	svg.WriteString(fmt.Sprintf(`<g id="%s" data-lane="%d">`+"\n", escapeXML(p.Key), p.Lane))
	svg.WriteString(fmt.Sprintf(`<title>%s</title>`+"\n", escapeXML(tooltip(p))))
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%d"/>`+"\n",
		x, axisY, x, endY, color, stroke))
	svg.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		x, axisY, radius, color, s.Background))
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="6" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		cardX, cardY, s.CardWidth, cardHeight, s.Background, color, stroke))

	cx := cardX + s.CardWidth/2
	maxChars := s.CardWidth / 7
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="event-title">%s</text>`+"\n",
		cx, cardY+18, escapeXML(truncate(p.Event.Title, maxChars))))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="event-date">%s</text>`+"\n",
		cx, cardY+34, escapeXML(truncate(p.Event.Date, maxChars))))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="event-label" fill="%s">%s</text>`+"\n",
		cx, cardY+50, color, escapeXML(truncate(p.Event.Label, maxChars))))
	svg.WriteString("</g>")
	if href != "" {
		svg.WriteString("</a>")
	}
	svg.WriteString("\n")
}

// x maps an axis percentage to a canvas x coordinate.
func (r *SVGRenderer) x(position float64) int {
	span := float64(r.Settings.Width - 2*svgMargin)
	return svgMargin + int(math.Round(position/100*span))
}

// drawOrder sorts placements by z-index so highlighted events paint last.
func drawOrder(placements []layout.Placement) []layout.Placement {
	out := make([]layout.Placement, len(placements))
	copy(out, placements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

func tooltip(p layout.Placement) string {
	parts := []string{p.Event.Title, p.Event.Date}
	if p.Event.Description != "" {
		parts = append(parts, p.Event.Description)
	}
	if p.Event.Location != "" {
		parts = append(parts, p.Event.Location)
	}
	return strings.Join(parts, " · ")
}

// estimateTextWidth estimates the width of text in pixels based on character count.
func estimateTextWidth(text string, fontSize int) int {
	avgCharWidth := float64(fontSize) * 0.6
	return int(float64(len([]rune(text))) * avgCharWidth)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 1 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
