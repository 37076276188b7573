package imgedit

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/draw"
)

// surfaceIDs hands out process-unique surface identifiers.
var surfaceIDs atomic.Uint64

// Surface is a fixed-size RGBA raster buffer.
//
// A Surface is either the base image, a committed layer, a layer waiting
// on the redo list, or the active layer of the current stroke. It implements
// [draw.Image], so tools can draw into it with any image/draw compatible code.
type Surface struct {
	id      uint64
	img     *image.RGBA
	visible bool
	cursor  string
}

// NewSurface creates a new transparent surface with the given dimensions.
// Non-positive dimensions are clamped to 1.
func NewSurface(width, height int) *Surface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return newSurface(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// SurfaceFromImage creates a surface holding an RGBA copy of img.
// The copy is rebased so that its bounds start at (0, 0).
func SurfaceFromImage(img image.Image) *Surface {
	rgba := clone.AsRGBA(img)
	// Pix offsets are relative to Rect.Min, so translating Rect is enough.
	rgba.Rect = rgba.Rect.Sub(rgba.Rect.Min)
	return newSurface(rgba)
}

// newSurface wraps an existing buffer whose bounds start at (0, 0).
func newSurface(img *image.RGBA) *Surface {
	return &Surface{
		id:      surfaceIDs.Add(1),
		img:     img,
		visible: true,
	}
}

// ID returns the process-unique identifier of the surface.
func (s *Surface) ID() uint64 {
	return s.id
}

// Width returns the width of the surface.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height of the surface.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Visible reports whether the surface is part of the composited image.
// Layers moved to the redo list are not visible.
func (s *Surface) Visible() bool {
	return s.visible
}

// Cursor returns the cursor style that was applied when the surface was
// opened for drawing. The base surface has an empty cursor.
func (s *Surface) Cursor() string {
	return s.cursor
}

// RGBA returns the underlying buffer. Drawing into it changes the surface.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Clear fills the entire surface with a color, replacing existing pixels.
func (s *Surface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// Snapshot returns a copy of the surface contents.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// SameSize reports whether two surfaces have identical dimensions.
func (s *Surface) SameSize(other *Surface) bool {
	return other != nil && s.img.Rect.Size() == other.img.Rect.Size()
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	return s.img.At(x, y)
}

// Set implements the draw.Image interface.
// Out-of-bounds coordinates are silently ignored.
func (s *Surface) Set(x, y int, c color.Color) {
	s.img.Set(x, y, c)
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Rect
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}
