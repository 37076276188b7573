package imgedit

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStackPushUndoRedo tests basic push/undo/redo functionality.
func TestStackPushUndoRedo(t *testing.T) {
	base := NewSurface(10, 10)
	s := NewStack(base)
	l1 := NewSurface(10, 10)

	s.Push(l1)
	assert.Equal(t, 2, s.Len())
	assert.Same(t, l1, s.Peek())
	assert.True(t, l1.Visible())

	require.True(t, s.Undo())
	assert.Same(t, base, s.Peek())
	assert.Equal(t, 1, s.RedoLen())
	assert.False(t, l1.Visible())

	require.True(t, s.Redo())
	assert.Same(t, l1, s.Peek())
	assert.Equal(t, 0, s.RedoLen())
	assert.True(t, l1.Visible())
}

// TestStackPushKeepsRedo verifies Push leaves the redo list to the caller.
func TestStackPushKeepsRedo(t *testing.T) {
	s := NewStack(NewSurface(4, 4))
	l1 := NewSurface(4, 4)
	s.Push(l1)
	s.Undo()

	s.Push(NewSurface(4, 4))
	assert.Equal(t, 1, s.RedoLen())

	dropped := s.ClearRedo()
	require.Len(t, dropped, 1)
	assert.Same(t, l1, dropped[0])
	assert.Equal(t, 0, s.RedoLen())
}

// TestStackBaseIsPermanent verifies undo never removes the base layer.
func TestStackBaseIsPermanent(t *testing.T) {
	base := NewSurface(4, 4)
	s := NewStack(base)

	assert.False(t, s.Undo())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.RedoLen())
	assert.Same(t, base, s.Base())
	assert.True(t, base.Visible())
}

// TestStackNeverSharesSurfaces checks that no surface is in both lists.
func TestStackNeverSharesSurfaces(t *testing.T) {
	s := NewStack(NewSurface(4, 4))
	for i := 0; i < 5; i++ {
		s.Push(NewSurface(4, 4))
	}

	ops := []func() bool{s.Undo, s.Undo, s.Redo, s.Undo, s.Undo, s.Undo, s.Redo}
	for _, op := range ops {
		op()
		seen := make(map[*Surface]bool)
		for _, l := range s.Layers() {
			seen[l] = true
			assert.True(t, l.Visible())
		}
		for _, r := range s.RedoLayers() {
			assert.False(t, seen[r], "surface in both lists")
			assert.False(t, r.Visible())
		}
		assert.Equal(t, 6, s.Len()+s.RedoLen())
	}
}

// TestStackAccessorsReturnCopies verifies callers cannot alias internal slices.
func TestStackAccessorsReturnCopies(t *testing.T) {
	s := NewStack(NewSurface(4, 4))
	s.Push(NewSurface(4, 4))
	s.Undo()

	layers := s.Layers()
	layers[0] = nil
	redo := s.RedoLayers()
	redo[0] = nil

	assert.NotNil(t, s.Base())
	assert.NotNil(t, s.RedoLayers()[0])
}

// TestNilStackPeek verifies Peek on a missing stack.
func TestNilStackPeek(t *testing.T) {
	var s *Stack
	assert.Nil(t, s.Peek())
	assert.Nil(t, s.Base())
	assert.Nil(t, s.Flatten())
}

// TestFlattenOrder tests that later layers paint over earlier ones.
func TestFlattenOrder(t *testing.T) {
	base := SurfaceFromImage(solidImage(10, 10, color.White))
	s := NewStack(base)

	red := NewSurface(10, 10)
	red.Set(5, 5, opaqueRed)
	red.Set(1, 1, opaqueRed)
	s.Push(red)

	blue := NewSurface(10, 10)
	blue.Set(5, 5, opaqueBlue)
	s.Push(blue)

	out := s.Flatten()
	require.NotNil(t, out)
	assert.Equal(t, base.Bounds(), out.Bounds())
	assert.Equal(t, opaqueBlue, out.At(5, 5))
	assert.Equal(t, opaqueRed, out.At(1, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.At(0, 0))
}

// TestFlattenSourceOver tests that translucent layers blend with what is below.
func TestFlattenSourceOver(t *testing.T) {
	s := NewStack(SurfaceFromImage(solidImage(2, 2, color.Black)))

	half := NewSurface(2, 2)
	half.Set(0, 0, color.RGBA{R: 128, A: 128}) // premultiplied 50% red
	s.Push(half)

	got := s.Flatten().At(0, 0).(color.RGBA)
	assert.InDelta(t, 128, int(got.R), 1)
	assert.Equal(t, uint8(0), got.G)
	assert.Equal(t, uint8(255), got.A)
}

// TestFlattenExcludesUndone tests that undone layers are not composited.
func TestFlattenExcludesUndone(t *testing.T) {
	s := NewStack(SurfaceFromImage(solidImage(3, 3, color.White)))
	top := NewSurface(3, 3)
	top.Clear(opaqueRed)
	s.Push(top)

	assert.Equal(t, opaqueRed, s.Flatten().At(1, 1))

	s.Undo()
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, s.Flatten().At(1, 1))

	s.Redo()
	assert.Equal(t, opaqueRed, s.Flatten().At(1, 1))
}

// TestFlattenIdempotentAndPure tests that flatten neither mutates layers nor
// depends on earlier calls.
func TestFlattenIdempotentAndPure(t *testing.T) {
	base := SurfaceFromImage(solidImage(6, 4, opaqueRed))
	s := NewStack(base)
	layer := NewSurface(6, 4)
	layer.Set(2, 2, opaqueBlue)
	s.Push(layer)

	baseBefore := base.Snapshot()
	layerBefore := layer.Snapshot()

	a := s.Flatten()
	b := s.Flatten()

	assert.NotSame(t, a, b)
	assert.Equal(t, a.RGBA().Pix, b.RGBA().Pix)
	assert.Equal(t, baseBefore.Pix, base.RGBA().Pix)
	assert.Equal(t, layerBefore.Pix, layer.RGBA().Pix)
	assert.NotContains(t, ids(s.Layers()), a.ID())
}

// TestSurfaceBasics tests surface construction and pixel access.
func TestSurfaceBasics(t *testing.T) {
	s := NewSurface(0, -3)
	assert.Equal(t, 1, s.Width())
	assert.Equal(t, 1, s.Height())

	s = NewSurface(4, 3)
	assert.Equal(t, image.Rect(0, 0, 4, 3), s.Bounds())
	assert.Equal(t, color.RGBAModel, s.ColorModel())
	assert.Equal(t, color.RGBA{}, s.At(1, 1))

	s.Set(1, 1, opaqueRed)
	s.Set(-1, 99, opaqueRed) // out of bounds, ignored
	assert.Equal(t, opaqueRed, s.At(1, 1))

	snap := s.Snapshot()
	s.Clear(opaqueBlue)
	assert.Equal(t, opaqueRed, snap.At(1, 1), "snapshot is a copy")
	assert.Equal(t, opaqueBlue, s.At(3, 2))

	other := NewSurface(4, 3)
	assert.NotEqual(t, s.ID(), other.ID())
	assert.True(t, s.SameSize(other))
	assert.False(t, s.SameSize(NewSurface(3, 4)))
	assert.False(t, s.SameSize(nil))
}

// TestSurfaceFromImageCopies verifies the source image is not aliased.
func TestSurfaceFromImageCopies(t *testing.T) {
	src := solidImage(3, 3, opaqueRed)
	s := SurfaceFromImage(src)

	src.Set(0, 0, opaqueBlue)
	assert.Equal(t, opaqueRed, s.At(0, 0))
	assert.True(t, s.Visible())
	assert.Empty(t, s.Cursor())
}
