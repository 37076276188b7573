package imgedit

import (
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/imgedit/internal/pool"
)

// Load errors.
var (
	// ErrNilImage is returned by Load when no image is given.
	ErrNilImage = errors.New("imgedit: nil image")

	// ErrEmptyImage is returned by Load for an image with no pixels.
	ErrEmptyImage = errors.New("imgedit: empty image")
)

// ChangeKind identifies what changed the editor state.
type ChangeKind uint8

const (
	// ChangeLoad is reported after a new base image was loaded.
	ChangeLoad ChangeKind = iota

	// ChangeCommit is reported after a stroke became a layer.
	ChangeCommit

	// ChangeUndo is reported after a layer moved to the redo list.
	ChangeUndo

	// ChangeRedo is reported after a layer was restored.
	ChangeRedo
)

// String returns the name of the change.
func (k ChangeKind) String() string {
	switch k {
	case ChangeLoad:
		return "load"
	case ChangeCommit:
		return "commit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Change describes a state change reported to the change hook.
type Change struct {
	Kind   ChangeKind
	Layers int // committed layers, including the base
	Redo   int // layers waiting on the redo list
}

// Editor owns one document: the layer stack, the redo list and the active
// layer of the stroke being drawn.
//
// Editor is a monitor: every method takes the editor lock, so events from
// several goroutines are applied one at a time in the order they acquire
// it. Tool handlers run under the lock and must not call the editor.
//
// Before Load is called the editor has no document; pointer events, Undo
// and Redo are no-ops and Flatten returns nil.
type Editor struct {
	mu    sync.Mutex
	tools ToolProvider
	stack *Stack
	sess  *session
	pool  *pool.Pool

	log        *slog.Logger
	changeHook func(Change)
}

// New creates an editor that draws with the tools resolved by tools.
// A nil provider behaves as a tool with no handlers.
func New(tools ToolProvider, opts ...Option) *Editor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}

	return &Editor{
		tools:      tools,
		pool:       pool.New(o.poolSize),
		log:        log,
		changeHook: o.changeHook,
	}
}

// Load makes img the base layer of a new document, replacing any previous
// document together with its redo list and active layer. The base has
// exactly the dimensions of img. On error the editor is left unchanged.
func (e *Editor) Load(img image.Image) error {
	if img == nil {
		return ErrNilImage
	}
	if img.Bounds().Empty() {
		return ErrEmptyImage
	}
	base := SurfaceFromImage(img)

	e.mu.Lock()
	if e.sess != nil {
		e.sess.disp.cancel()
		e.sess = nil
	}
	e.stack = NewStack(base)
	e.openSessionLocked()
	ch := e.changeLocked(ChangeLoad)
	e.mu.Unlock()

	e.log.Info("imgedit: document loaded", "width", base.Width(), "height", base.Height())
	e.notify(ch)
	return nil
}

// Loaded reports whether a base image has been loaded.
func (e *Editor) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack != nil
}

// HandlePointer routes a pointer event to the current tool.
// Pointer-up always commits the active layer.
func (e *Editor) HandlePointer(ev PointerEvent) {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		return
	}
	if !e.sess.disp.route(ev) {
		e.mu.Unlock()
		return
	}
	e.commitLocked()
	ch := e.changeLocked(ChangeCommit)
	e.mu.Unlock()

	e.notify(ch)
}

// PointerDown routes a pointer-down event at pos.
func (e *Editor) PointerDown(pos image.Point) {
	e.HandlePointer(PointerEvent{Kind: PointerDown, Pos: pos})
}

// PointerMove routes a pointer-move event at pos.
func (e *Editor) PointerMove(pos image.Point) {
	e.HandlePointer(PointerEvent{Kind: PointerMove, Pos: pos})
}

// PointerUp routes a pointer-up event at pos and commits the active layer.
func (e *Editor) PointerUp(pos image.Point) {
	e.HandlePointer(PointerEvent{Kind: PointerUp, Pos: pos})
}

// Undo hides the top layer and moves it to the redo list.
// It reports false, changing nothing, when only the base layer remains.
// The active layer is never affected.
func (e *Editor) Undo() bool {
	return e.step(ChangeUndo, (*Stack).Undo)
}

// Redo restores the most recently undone layer.
// It reports false, changing nothing, when the redo list is empty.
func (e *Editor) Redo() bool {
	return e.step(ChangeRedo, (*Stack).Redo)
}

func (e *Editor) step(kind ChangeKind, fn func(*Stack) bool) bool {
	e.mu.Lock()
	if e.stack == nil || !fn(e.stack) {
		e.mu.Unlock()
		return false
	}
	ch := e.changeLocked(kind)
	e.mu.Unlock()

	e.log.Debug("imgedit: "+kind.String(), "layers", ch.Layers, "redo", ch.Redo)
	e.notify(ch)
	return true
}

// HandleKey applies the action bound to k, if any, and returns it.
func (e *Editor) HandleKey(k KeyEvent) Action {
	action := ActionForKey(k)
	switch action {
	case ActionUndo:
		e.Undo()
	case ActionRedo:
		e.Redo()
	}
	return action
}

// Flatten composites the committed layers into a new surface.
// It returns nil before Load.
func (e *Editor) Flatten() *Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stack == nil {
		return nil
	}
	return e.stack.Flatten()
}

// Frame is a consistent view of the document for display.
type Frame struct {
	Image  *Surface // flattened committed layers
	Layers int      // committed layers, including the base
	Redo   int      // layers waiting on the redo list
	Cursor string   // cursor style of the active layer
}

// Frame flattens the document and reads its counters under one lock, so
// the counters describe exactly the returned image. It reports false
// before Load.
func (e *Editor) Frame() (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stack == nil {
		return Frame{}, false
	}
	return Frame{
		Image:  e.stack.Flatten(),
		Layers: e.stack.Len(),
		Redo:   e.stack.RedoLen(),
		Cursor: e.sess.active.cursor,
	}, true
}

// Peek returns the top committed layer, or nil before Load.
func (e *Editor) Peek() *Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Peek()
}

// Layers returns the committed layers, bottom to top.
func (e *Editor) Layers() []*Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stack == nil {
		return nil
	}
	return e.stack.Layers()
}

// RedoLayers returns the redo list; the layer the next Redo restores is last.
func (e *Editor) RedoLayers() []*Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stack == nil {
		return nil
	}
	return e.stack.RedoLayers()
}

// Active returns the layer of the stroke being drawn, or nil before Load.
// The active layer is not part of Flatten until it is committed.
func (e *Editor) Active() *Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil
	}
	return e.sess.active
}

// Cursor returns the cursor style of the active layer.
func (e *Editor) Cursor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return ""
	}
	return e.sess.active.cursor
}

// Engaged reports whether a stroke started by a tool is in progress.
func (e *Editor) Engaged() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess != nil && e.sess.disp.engaged
}

// Size returns the document dimensions, or zeros before Load.
func (e *Editor) Size() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	base := e.stack.Base()
	if base == nil {
		return 0, 0
	}
	return base.Width(), base.Height()
}

func (e *Editor) changeLocked(kind ChangeKind) Change {
	return Change{Kind: kind, Layers: e.stack.Len(), Redo: e.stack.RedoLen()}
}

func (e *Editor) notify(ch Change) {
	if e.changeHook != nil {
		e.changeHook(ch)
	}
}
