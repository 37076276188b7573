// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tools provides concrete drawing tools for an imgedit.Editor and
// a Palette to choose between them.
//
// Each tool draws only into the active layer it is handed. A tool keeps the
// state of the stroke in progress, so one tool value must not be shared by
// editors.
package tools

import (
	"image"
	"image/color"

	"github.com/gogpu/imgedit"
)

// Cursor styles used by the tools.
const (
	CursorCrosshair = "crosshair"
	CursorGrab      = "grab"
)

// Pen draws freehand lines following the pointer. The zero value draws
// one-pixel black lines.
type Pen struct {
	Color color.Color
	Width int

	last    image.Point
	started bool
}

var (
	_ imgedit.Starter = (*Pen)(nil)
	_ imgedit.Dragger = (*Pen)(nil)
	_ imgedit.Ender   = (*Pen)(nil)
)

// Cursor implements imgedit.Tool.
func (p *Pen) Cursor() string { return CursorCrosshair }

// Start stamps the first point of the stroke.
func (p *Pen) Start(ev imgedit.PointerEvent, dst *imgedit.Surface) {
	p.last = ev.Pos
	p.started = true
	stamp(dst.RGBA(), ev.Pos, p.Width, p.Color)
}

// Drag connects the previous pointer position with the current one.
func (p *Pen) Drag(ev imgedit.PointerEvent, dst *imgedit.Surface) {
	if !p.started {
		p.Start(ev, dst)
		return
	}
	line(dst.RGBA(), p.last, ev.Pos, p.Width, p.Color)
	p.last = ev.Pos
}

// End draws the final segment.
func (p *Pen) End(ev imgedit.PointerEvent, dst *imgedit.Surface) {
	p.Drag(ev, dst)
	p.started = false
}

// Rect draws a rectangle outline between the pointer-down position and the
// current pointer position. The outline follows the pointer while dragging.
// The zero value draws a one-pixel black outline.
type Rect struct {
	Color color.Color
	Width int

	origin  image.Point
	started bool
}

var (
	_ imgedit.Starter = (*Rect)(nil)
	_ imgedit.Dragger = (*Rect)(nil)
	_ imgedit.Ender   = (*Rect)(nil)
)

// Cursor implements imgedit.Tool.
func (r *Rect) Cursor() string { return CursorCrosshair }

// Start records the anchor corner.
func (r *Rect) Start(ev imgedit.PointerEvent, _ *imgedit.Surface) {
	r.origin = ev.Pos
	r.started = true
}

// Drag redraws the outline. The active layer holds nothing but this
// stroke, so it is cleared first.
func (r *Rect) Drag(ev imgedit.PointerEvent, dst *imgedit.Surface) {
	if !r.started {
		// Selected in the middle of another tool's stroke.
		r.Start(ev, dst)
	}
	dst.Clear(color.Transparent)
	outline(dst.RGBA(), r.origin, ev.Pos, r.Width, r.Color)
}

// End draws the final outline.
func (r *Rect) End(ev imgedit.PointerEvent, dst *imgedit.Surface) {
	r.Drag(ev, dst)
	r.started = false
}

// Hand only changes the cursor. Strokes made with it commit empty layers.
type Hand struct{}

// Cursor implements imgedit.Tool.
func (Hand) Cursor() string { return CursorGrab }
