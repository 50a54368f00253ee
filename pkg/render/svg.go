package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// SVG geometry defaults.
const (
	defaultWidth  = 800.0
	defaultHeight = 1000.0
	marginY       = 40.0
	itemOffsetX   = 24.0
	markerTickLen = 12.0
	dotRadius     = 5.0
)

const svgStyles = `
    .axis { stroke: #7a7a7a; stroke-width: 2; }
    .marker-line { stroke: #b5b5b5; stroke-width: 1; stroke-dasharray: 4 3; }
    .marker-text { font: 12px sans-serif; fill: #8a8a8a; }
    .item-dot { fill: #3b7dd8; }
    .item-label { font: bold 13px sans-serif; fill: #2b2b2b; }
    .item-date { font: 11px sans-serif; fill: #8a8a8a; }
    .item-snippet { font: 11px sans-serif; fill: #5a5a5a; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width    float64
	height   float64
	snippets bool
}

// WithSize sets the frame dimensions in pixels.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithSnippets includes document snippets under the labels.
func WithSnippets() SVGOption {
	return func(r *svgRenderer) { r.snippets = true }
}

// RenderSVG renders a layout as a vertical SVG timeline.
//
// The axis runs down the center of the frame; items alternate sides of
// it and year markers cross it. Overflowed positions (above 100%) are
// drawn below the nominal axis end, extending the frame so nothing is
// clipped.
func RenderSVG(l timeline.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(&r)
	}

	maxPos := 100.0
	for _, it := range l.Items {
		maxPos = math.Max(maxPos, it.Position)
	}

	axisX := r.width / 2
	scale := (r.height - 2*marginY) / 100
	frameHeight := marginY*2 + maxPos*scale
	y := func(pos float64) float64 { return marginY + pos*scale }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, frameHeight, r.width, frameHeight)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyles)

	fmt.Fprintf(&buf, `  <line class="axis" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		axisX, y(0), axisX, y(maxPos))

	for _, m := range l.Markers {
		my := y(m.Position)
		fmt.Fprintf(&buf, `  <line class="marker-line" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			axisX-markerTickLen*4, my, axisX+markerTickLen*4, my)
		fmt.Fprintf(&buf, `  <text class="marker-text" x="%.1f" y="%.1f" text-anchor="middle">%d</text>`+"\n",
			axisX, my-4, m.Year)
	}

	for _, it := range l.Items {
		iy := y(it.Position)
		fmt.Fprintf(&buf, `  <circle class="item-dot" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			axisX, iy, dotRadius)

		tx := axisX + itemOffsetX
		anchor := "start"
		if it.Side == timeline.SideLeft {
			tx = axisX - itemOffsetX
			anchor = "end"
		}

		fmt.Fprintf(&buf, `  <text class="item-label" x="%.1f" y="%.1f" text-anchor="%s">%s</text>`+"\n",
			tx, iy, anchor, escapeXML(it.Label))
		fmt.Fprintf(&buf, `  <text class="item-date" x="%.1f" y="%.1f" text-anchor="%s">%s</text>`+"\n",
			tx, iy+14, anchor, it.Date.Format("2006-01-02"))
		if r.snippets && it.Snippet != "" {
			fmt.Fprintf(&buf, `  <text class="item-snippet" x="%.1f" y="%.1f" text-anchor="%s">%s</text>`+"\n",
				tx, iy+28, anchor, escapeXML(it.Snippet))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// escapeXML escapes the five XML special characters.
func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
