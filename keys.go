package imgedit

import "golang.org/x/text/cases"

// KeyEvent is a key press as reported by the host.
// Key follows the DOM KeyboardEvent.key convention: printable keys are
// their character ("z", "Z", "y"), named keys their name ("Undo", "Redo").
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// Action is an editor command bound to a key.
type Action uint8

const (
	// ActionNone means the key is not bound.
	ActionNone Action = iota

	// ActionUndo undoes the most recent layer.
	ActionUndo

	// ActionRedo restores the most recently undone layer.
	ActionRedo
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	default:
		return "none"
	}
}

// ActionForKey maps a key press to an editor action.
//
// Undo: the "Undo" key, or ctrl+Z without shift.
// Redo: the "Redo" key, ctrl+Y, or ctrl+shift+Z.
func ActionForKey(k KeyEvent) Action {
	z := cases.Fold().String(k.Key) == "z"
	switch {
	case k.Key == "Undo" || (z && k.Ctrl && !k.Shift):
		return ActionUndo
	case k.Key == "Redo" || (k.Ctrl && (k.Key == "y" || (k.Shift && z))):
		return ActionRedo
	default:
		return ActionNone
	}
}
