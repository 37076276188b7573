package imgedit

import (
	"image"

	"golang.org/x/image/draw"
)

// Flatten composites every committed layer, bottom to top, into a new
// surface with the base dimensions. Each layer is painted over the result
// with source-over compositing. Undone layers are not part of the output.
//
// Flatten does not modify any layer and allocates exactly one surface.
// It returns nil for an empty stack.
func (s *Stack) Flatten() *Surface {
	base := s.Base()
	if base == nil {
		return nil
	}

	out := NewSurface(base.Width(), base.Height())
	r := out.img.Rect
	for _, layer := range s.layers {
		draw.Draw(out.img, r, layer.img, image.Point{}, draw.Over)
	}
	return out
}
