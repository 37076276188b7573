package imgedit

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedEditor(t *testing.T, tools ToolProvider, opts ...Option) *Editor {
	t.Helper()
	ed := New(tools, opts...)
	require.NoError(t, ed.Load(solidImage(100, 50, opaqueRed)))
	return ed
}

func TestLoadCreatesBaseAtImageSize(t *testing.T) {
	ed := loadedEditor(t, nil)

	w, h := ed.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)

	layers := ed.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, 100, layers[0].Width())
	assert.Equal(t, 50, layers[0].Height())
	assert.True(t, layers[0].Visible())
	assert.Empty(t, ed.RedoLayers())

	active := ed.Active()
	require.NotNil(t, active)
	assert.True(t, active.SameSize(layers[0]))
	assert.False(t, active.Visible(), "active layer is not composited")
}

func TestLoadRejectsInvalidImages(t *testing.T) {
	ed := New(nil)

	assert.ErrorIs(t, ed.Load(nil), ErrNilImage)
	assert.ErrorIs(t, ed.Load(image.NewRGBA(image.Rectangle{})), ErrEmptyImage)
	assert.False(t, ed.Loaded())
	assert.Nil(t, ed.Flatten())
	assert.Nil(t, ed.Active())
}

func TestLoadNormalizesOrigin(t *testing.T) {
	src := solidImage(20, 10, opaqueRed).SubImage(image.Rect(5, 5, 15, 10))

	ed := New(nil)
	require.NoError(t, ed.Load(src))

	base := ed.Layers()[0]
	assert.Equal(t, image.Rect(0, 0, 10, 5), base.Bounds())
	assert.Equal(t, opaqueRed, base.At(0, 0))
}

func TestLoadReplacesDocument(t *testing.T) {
	tool := newRecordingTool("crosshair")
	ed := loadedEditor(t, StaticTool(tool))
	stroke(ed, image.Pt(1, 1))
	stroke(ed, image.Pt(2, 2))
	ed.Undo()

	require.NoError(t, ed.Load(solidImage(8, 6, opaqueBlue)))

	assert.Len(t, ed.Layers(), 1)
	assert.Empty(t, ed.RedoLayers())
	w, h := ed.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)
	assert.Equal(t, 8, ed.Active().Width())
}

func TestEventsBeforeLoadAreIgnored(t *testing.T) {
	tool := newRecordingTool("crosshair")
	ed := New(StaticTool(tool))

	stroke(ed, image.Pt(1, 1), image.Pt(2, 2))
	assert.False(t, ed.Undo())
	assert.False(t, ed.Redo())
	assert.Equal(t, ActionUndo, ed.HandleKey(KeyEvent{Key: "z", Ctrl: true}))

	assert.Empty(t, tool.calls)
	assert.Nil(t, ed.Layers())
	assert.Nil(t, ed.Peek())
	assert.Empty(t, ed.Cursor())
}

func TestCommitsGrowStack(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))

	for n := 1; n <= 10; n++ {
		stroke(ed, image.Pt(n, n), image.Pt(n+1, n))
		assert.Len(t, ed.Layers(), 1+n)
		assert.Empty(t, ed.RedoLayers())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	for i := 0; i < 4; i++ {
		stroke(ed, image.Pt(i, i))
	}

	for undos := 1; undos <= 4; undos++ {
		for i := 0; i < undos-1; i++ {
			require.True(t, ed.Undo())
		}
		before := ids(ed.Layers())
		redoBefore := len(ed.RedoLayers())

		require.True(t, ed.Undo())
		require.True(t, ed.Redo())

		assert.Equal(t, before, ids(ed.Layers()), "same surfaces, same order")
		assert.Len(t, ed.RedoLayers(), redoBefore)

		for ed.Redo() {
		}
		assert.Empty(t, ed.RedoLayers())
	}
}

func TestUndoAtBaseIsNoop(t *testing.T) {
	ed := loadedEditor(t, nil)
	base := ed.Peek()

	assert.False(t, ed.Undo())
	assert.False(t, ed.Undo())

	assert.Equal(t, []uint64{base.ID()}, ids(ed.Layers()))
	assert.Empty(t, ed.RedoLayers())
	assert.True(t, base.Visible())
}

func TestRedoOnEmptyListIsNoop(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	stroke(ed, image.Pt(1, 1))
	before := ids(ed.Layers())

	assert.False(t, ed.Redo())
	assert.Equal(t, before, ids(ed.Layers()))
}

func TestScenarioA(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	base := ed.Peek()

	stroke(ed, image.Pt(10, 10), image.Pt(20, 10))
	l1 := ed.Peek()
	assert.Equal(t, []uint64{base.ID(), l1.ID()}, ids(ed.Layers()))
	assert.Empty(t, ed.RedoLayers())

	require.True(t, ed.Undo())
	assert.Equal(t, []uint64{base.ID()}, ids(ed.Layers()))
	assert.Equal(t, []uint64{l1.ID()}, ids(ed.RedoLayers()))
	assert.False(t, l1.Visible())

	require.True(t, ed.Redo())
	assert.Equal(t, []uint64{base.ID(), l1.ID()}, ids(ed.Layers()))
	assert.Empty(t, ed.RedoLayers())
	assert.True(t, l1.Visible())
}

func TestScenarioB(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	base := ed.Peek()
	stroke(ed, image.Pt(1, 1))
	l1 := ed.Peek()
	stroke(ed, image.Pt(2, 2))
	l2 := ed.Peek()

	ed.Undo()
	ed.Undo()
	assert.Equal(t, []uint64{base.ID()}, ids(ed.Layers()))
	assert.Equal(t, []uint64{l2.ID(), l1.ID()}, ids(ed.RedoLayers()))

	stroke(ed, image.Pt(3, 3))
	l3 := ed.Peek()
	assert.Equal(t, []uint64{base.ID(), l3.ID()}, ids(ed.Layers()))
	assert.Empty(t, ed.RedoLayers())
	assert.False(t, ed.Redo(), "discarded layers cannot be redone")
}

func TestScenarioC(t *testing.T) {
	tool := cursorTool("grab")
	ed := loadedEditor(t, StaticTool(tool))
	before := ed.Flatten()

	ed.PointerDown(image.Pt(5, 5))
	assert.False(t, ed.Engaged())
	ed.PointerMove(image.Pt(6, 6))
	ed.PointerUp(image.Pt(6, 6))

	assert.Len(t, ed.Layers(), 2)
	assert.Equal(t, before.RGBA().Pix, ed.Flatten().RGBA().Pix)
}

func TestCommitClearsRedoAndRecyclesBuffers(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	stroke(ed, image.Pt(1, 1))
	stroke(ed, image.Pt(2, 2))
	ed.Undo()
	ed.Undo()
	dropped := ed.RedoLayers()

	stroke(ed, image.Pt(3, 3))

	assert.Empty(t, ed.RedoLayers())
	assert.Equal(t, 1, ed.pool.Len(100, 50), "one dropped buffer reused, one pooled")
	for _, s := range dropped {
		assert.True(t, s.Bounds().Empty(), "dropped layers release their buffer")
		assert.False(t, s.Visible())
	}

	active := ed.Active()
	assert.Equal(t, make([]uint8, len(active.RGBA().Pix)), active.RGBA().Pix, "recycled buffer is transparent")
}

func TestUndoDoesNotTouchActiveLayer(t *testing.T) {
	tool := newRecordingTool("crosshair")
	ed := loadedEditor(t, StaticTool(tool))
	stroke(ed, image.Pt(1, 1))

	ed.PointerDown(image.Pt(4, 4))
	active := ed.Active()
	require.True(t, ed.Undo())

	assert.Same(t, active, ed.Active())
	assert.True(t, ed.Engaged())

	ed.PointerUp(image.Pt(4, 4))
	assert.Len(t, ed.Layers(), 2)
	assert.Same(t, active, ed.Peek())
	assert.Empty(t, ed.RedoLayers())
}

func TestHandleKey(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	stroke(ed, image.Pt(1, 1))

	assert.Equal(t, ActionUndo, ed.HandleKey(KeyEvent{Key: "z", Ctrl: true}))
	assert.Len(t, ed.Layers(), 1)

	assert.Equal(t, ActionRedo, ed.HandleKey(KeyEvent{Key: "Z", Ctrl: true, Shift: true}))
	assert.Len(t, ed.Layers(), 2)

	assert.Equal(t, ActionNone, ed.HandleKey(KeyEvent{Key: "z"}))
	assert.Len(t, ed.Layers(), 2)
}

func TestChangeHook(t *testing.T) {
	var got []Change
	var ed *Editor
	ed = New(StaticTool(newRecordingTool("crosshair")), WithChangeHook(func(c Change) {
		got = append(got, c)
		// The hook runs unlocked and may query the editor.
		_ = ed.Flatten()
	}))

	require.NoError(t, ed.Load(solidImage(10, 10, opaqueRed)))
	stroke(ed, image.Pt(1, 1))
	ed.Undo()
	ed.Undo() // no-op, not reported
	ed.Redo()
	ed.PointerMove(image.Pt(2, 2)) // not engaged, not reported

	assert.Equal(t, []Change{
		{Kind: ChangeLoad, Layers: 1},
		{Kind: ChangeCommit, Layers: 2},
		{Kind: ChangeUndo, Layers: 1, Redo: 1},
		{Kind: ChangeRedo, Layers: 2},
	}, got)
}

func TestFrame(t *testing.T) {
	ed := New(StaticTool(newRecordingTool("crosshair")))
	_, ok := ed.Frame()
	assert.False(t, ok)

	require.NoError(t, ed.Load(solidImage(10, 10, opaqueRed)))
	stroke(ed, image.Pt(1, 1))
	stroke(ed, image.Pt(2, 2))
	ed.Undo()

	f, ok := ed.Frame()
	require.True(t, ok)
	assert.Equal(t, 2, f.Layers)
	assert.Equal(t, 1, f.Redo)
	assert.Equal(t, "crosshair", f.Cursor)
	assert.Equal(t, opaqueBlue, f.Image.At(1, 1))
	assert.Equal(t, opaqueRed, f.Image.At(2, 2))
}

func TestFrameMatchesItsImage(t *testing.T) {
	ed := loadedEditor(t, StaticTool(newRecordingTool("crosshair")))
	const strokes = 40

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range strokes {
			stroke(ed, image.Pt(i, 0))
		}
	}()

	check := func() bool {
		f, ok := ed.Frame()
		require.True(t, ok)
		blue := 0
		for x := range strokes {
			if f.Image.At(x, 0) == opaqueBlue {
				blue++
			}
		}
		assert.Equal(t, f.Layers-1, blue, "counters describe the image")
		return f.Layers == strokes+1
	}
	for !check() {
	}
	<-done
}

func TestEditorConcurrentUse(t *testing.T) {
	ed := loadedEditor(t, StaticTool(cursorTool("default")))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ed.PointerUp(image.Pt(j, j))
				ed.Undo()
				ed.Redo()
				_ = ed.Flatten()
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, len(ed.Layers()), 1)
	assert.Equal(t, opaqueRed, ed.Flatten().At(0, 0).(color.RGBA))
}
