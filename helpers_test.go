package imgedit

import (
	"image"
	"image/color"
)

var (
	opaqueRed  = color.RGBA{R: 255, A: 255}
	opaqueBlue = color.RGBA{B: 255, A: 255}
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b, a := c.RGBA()
		img.Pix[i+0] = uint8(r >> 8)
		img.Pix[i+1] = uint8(g >> 8)
		img.Pix[i+2] = uint8(b >> 8)
		img.Pix[i+3] = uint8(a >> 8)
	}
	return img
}

// call records one handler invocation of recordingTool.
type call struct {
	kind    PointerKind
	pos     image.Point
	surface uint64
}

// recordingTool implements every handler, records each call and paints
// one pixel at the event position.
type recordingTool struct {
	cursor string
	color  color.Color
	calls  []call
}

func newRecordingTool(cursor string) *recordingTool {
	return &recordingTool{cursor: cursor, color: opaqueBlue}
}

func (t *recordingTool) Cursor() string { return t.cursor }

func (t *recordingTool) Start(ev PointerEvent, dst *Surface) { t.record(ev, dst) }
func (t *recordingTool) Drag(ev PointerEvent, dst *Surface)  { t.record(ev, dst) }
func (t *recordingTool) End(ev PointerEvent, dst *Surface)   { t.record(ev, dst) }

func (t *recordingTool) record(ev PointerEvent, dst *Surface) {
	t.calls = append(t.calls, call{kind: ev.Kind, pos: ev.Pos, surface: dst.ID()})
	dst.Set(ev.Pos.X, ev.Pos.Y, t.color)
}

func (t *recordingTool) kinds() []PointerKind {
	out := make([]PointerKind, len(t.calls))
	for i, c := range t.calls {
		out[i] = c.kind
	}
	return out
}

// cursorTool has no handlers.
type cursorTool string

func (t cursorTool) Cursor() string { return string(t) }

// startOnlyTool only reacts to pointer-down.
type startOnlyTool struct{ starts int }

func (t *startOnlyTool) Cursor() string               { return "cell" }
func (t *startOnlyTool) Start(PointerEvent, *Surface) { t.starts++ }

// switchable is a ToolProvider whose tool can be swapped between events.
type switchable struct{ tool Tool }

func (s *switchable) CurrentTool() Tool { return s.tool }

// stroke sends a full down/move/up sequence.
func stroke(ed *Editor, pts ...image.Point) {
	ed.PointerDown(pts[0])
	for _, p := range pts[1:] {
		ed.PointerMove(p)
	}
	ed.PointerUp(pts[len(pts)-1])
}

func ids(layers []*Surface) []uint64 {
	out := make([]uint64, len(layers))
	for i, l := range layers {
		out[i] = l.ID()
	}
	return out
}
