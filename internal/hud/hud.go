// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hud draws the control readout over a rendered frame.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/xform"
)

// NoSelection marks no control as selected.
const NoSelection = xform.Field(-1)

// HUD formats control values and draws them with a fixed bitmap face.
type HUD struct {
	printer *message.Printer
	face    font.Face
	fg      image.Image
	bg      image.Image
	margin  int
}

// New creates a HUD that prints white text on a translucent black panel.
func New() *HUD {
	return &HUD{
		printer: message.NewPrinter(language.English),
		face:    basicfont.Face7x13,
		fg:      image.NewUniform(color.White),
		bg:      image.NewUniform(color.NRGBA{A: 0xa0}),
		margin:  4,
	}
}

// Lines returns one readout line per control followed by the frame counter.
// The selected control is marked with '>'.
func (h *HUD) Lines(controls []xform.Control, s xform.State, selected xform.Field, stats xform.Stats) []string {
	lines := make([]string, 0, len(controls)+1)
	for _, c := range controls {
		marker := " "
		if c.Field == selected {
			marker = ">"
		}
		format := fmt.Sprintf("%%s %%-6s %%.%df", c.Precision)
		lines = append(lines, h.printer.Sprintf(format, marker, c.Label, s.Get(c.Field)))
	}
	lines = append(lines, h.printer.Sprintf("  frames %d skipped %d", stats.Drawn, stats.Skipped))
	return lines
}

// Bounds returns the panel rectangle Draw fills for lines, anchored at the
// top-left corner.
func (h *HUD) Bounds(lines []string) image.Rectangle {
	lineHeight := h.face.Metrics().Height.Ceil()
	width := 0
	for _, l := range lines {
		if w := font.MeasureString(h.face, l).Ceil(); w > width {
			width = w
		}
	}
	return image.Rect(0, 0, width+2*h.margin, len(lines)*lineHeight+2*h.margin)
}

// Draw paints a panel with lines onto dst.
func (h *HUD) Draw(dst draw.Image, lines []string) {
	if len(lines) == 0 {
		return
	}
	panel := h.Bounds(lines).Add(dst.Bounds().Min)
	draw.Draw(dst, panel, h.bg, image.Point{}, draw.Over)

	metrics := h.face.Metrics()
	d := font.Drawer{
		Dst:  dst,
		Src:  h.fg,
		Face: h.face,
	}
	x := fixed.I(panel.Min.X + h.margin)
	y := fixed.I(panel.Min.Y+h.margin) + metrics.Ascent
	for _, l := range lines {
		d.Dot = fixed.Point26_6{X: x, Y: y}
		d.DrawString(l)
		y += metrics.Height
	}
}
