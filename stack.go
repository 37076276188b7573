package imgedit

// Stack is the ordered list of committed layers together with the redo list.
//
// Element 0 of the layer list is the base image and is never removed.
// A surface is owned by at most one of the two lists: Undo and Redo move
// surfaces between them, they never copy.
//
// Stack is not safe for concurrent use; [Editor] serializes access to it.
type Stack struct {
	layers []*Surface
	redo   []*Surface
}

// NewStack creates a stack whose base layer is base.
func NewStack(base *Surface) *Stack {
	base.visible = true
	layers := make([]*Surface, 1, 8)
	layers[0] = base
	return &Stack{layers: layers}
}

// Push appends a surface on top of the layer list.
// The redo list is left untouched; callers committing a new stroke must
// clear it with ClearRedo.
func (s *Stack) Push(layer *Surface) {
	layer.visible = true
	s.layers = append(s.layers, layer)
}

// Undo moves the top layer to the redo list and hides it.
// If only the base layer remains, Undo does nothing and returns false.
func (s *Stack) Undo() bool {
	if len(s.layers) <= 1 {
		return false
	}

	top := s.layers[len(s.layers)-1]
	s.layers[len(s.layers)-1] = nil
	s.layers = s.layers[:len(s.layers)-1]

	top.visible = false
	s.redo = append(s.redo, top)
	return true
}

// Redo moves the most recently undone layer back on top of the layer list.
// If the redo list is empty, Redo does nothing and returns false.
func (s *Stack) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}

	top := s.redo[len(s.redo)-1]
	s.redo[len(s.redo)-1] = nil
	s.redo = s.redo[:len(s.redo)-1]

	top.visible = true
	s.layers = append(s.layers, top)
	return true
}

// Peek returns the top layer without removing it.
// It returns nil only for an empty stack.
func (s *Stack) Peek() *Surface {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// Base returns the base layer.
func (s *Stack) Base() *Surface {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	return s.layers[0]
}

// ClearRedo empties the redo list and returns the discarded surfaces,
// most recently undone last.
func (s *Stack) ClearRedo() []*Surface {
	dropped := s.redo
	s.redo = nil
	return dropped
}

// Len returns the number of committed layers, including the base.
func (s *Stack) Len() int {
	return len(s.layers)
}

// RedoLen returns the number of layers waiting on the redo list.
func (s *Stack) RedoLen() int {
	return len(s.redo)
}

// Layers returns the committed layers, bottom to top.
// The returned slice is a copy.
func (s *Stack) Layers() []*Surface {
	out := make([]*Surface, len(s.layers))
	copy(out, s.layers)
	return out
}

// RedoLayers returns the redo list in stack order: the layer that the next
// Redo would restore is last. The returned slice is a copy.
func (s *Stack) RedoLayers() []*Surface {
	out := make([]*Surface, len(s.redo))
	copy(out, s.redo)
	return out
}
