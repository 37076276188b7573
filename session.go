package imgedit

import "image"

// session is the active layer of the stroke being drawn together with the
// dispatcher subscribed to it. An editor holds at most one session.
type session struct {
	active *Surface
	disp   *dispatcher
}

// openSessionLocked replaces the current session with a fresh transparent
// layer of base dimensions. The previous dispatcher is cancelled first so
// only one subscription is ever live. The cursor is taken from the tool
// selected at this moment.
func (e *Editor) openSessionLocked() {
	if e.sess != nil {
		e.sess.disp.cancel()
	}

	base := e.stack.Base()
	active := newSurface(e.pool.Get(base.Width(), base.Height()))
	active.visible = false

	var tool Tool
	if e.tools != nil {
		tool = e.tools.CurrentTool()
	}
	active.cursor = cursorOf(tool)

	e.sess = &session{
		active: active,
		disp:   newDispatcher(active, e.tools),
	}
	e.log.Debug("imgedit: session opened", "surface", active.id, "cursor", active.cursor)
}

// commitLocked commits the active layer: the redo list is discarded, the
// active surface becomes the new top layer and the next session opens.
// Commit happens even if the tool drew nothing.
func (e *Editor) commitLocked() {
	for _, dropped := range e.stack.ClearRedo() {
		e.pool.Put(dropped.img)
		dropped.release()
	}

	e.stack.Push(e.sess.active)
	e.log.Debug("imgedit: layer committed", "surface", e.sess.active.id, "layers", e.stack.Len())
	e.openSessionLocked()
}

// release detaches a discarded surface from its buffer, which may be
// reused by a later session.
func (s *Surface) release() {
	s.img = image.NewRGBA(image.Rectangle{})
	s.visible = false
}
