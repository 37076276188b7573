// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tools

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// stamp paints a width×width square centered on p. Pixels are replaced,
// so overlapping stamps of a translucent color do not accumulate.
// A nil color paints opaque black.
func stamp(dst draw.Image, p image.Point, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	if c == nil {
		c = color.Black
	}
	r := width / 2
	sq := image.Rect(p.X-r, p.Y-r, p.X-r+width, p.Y-r+width).Intersect(dst.Bounds())
	if sq.Empty() {
		return
	}
	draw.Draw(dst, sq, image.NewUniform(c), image.Point{}, draw.Src)
}

// line stamps squares along the Bresenham line from a to b, both inclusive.
func line(dst draw.Image, a, b image.Point, width int, c color.Color) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	for {
		stamp(dst, a, width, c)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

// outline draws the outline of the rectangle spanned by two corner points.
func outline(dst draw.Image, a, b image.Point, width int, c color.Color) {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	line(dst, r.Min, image.Pt(r.Max.X, r.Min.Y), width, c)
	line(dst, image.Pt(r.Max.X, r.Min.Y), r.Max, width, c)
	line(dst, r.Max, image.Pt(r.Min.X, r.Max.Y), width, c)
	line(dst, image.Pt(r.Min.X, r.Max.Y), r.Min, width, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
