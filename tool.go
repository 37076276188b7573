package imgedit

import "image"

// PointerKind identifies the phase of a pointer interaction.
type PointerKind uint8

const (
	// PointerDown starts a stroke.
	PointerDown PointerKind = iota

	// PointerMove continues a stroke while the pointer is held.
	PointerMove

	// PointerUp ends a stroke and commits the active layer.
	PointerUp
)

// String returns the name of the pointer phase.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer event in surface coordinates.
type PointerEvent struct {
	Kind PointerKind
	Pos  image.Point

	// Button is the pressed button index, 0 for the primary button.
	Button int

	Shift bool
	Ctrl  bool
	Alt   bool
}

// Tool is a drawing tool. The only required capability is a cursor style;
// event handling is expressed through the optional [Starter], [Dragger] and
// [Ender] interfaces, which the editor queries on every event.
//
// The editor never mutates a Tool. Handlers run while the editor is locked
// and must not call back into the editor.
type Tool interface {
	// Cursor returns the CSS-style cursor name shown over the active layer.
	Cursor() string
}

// Starter is implemented by tools that react to pointer-down.
type Starter interface {
	Start(ev PointerEvent, dst *Surface)
}

// Dragger is implemented by tools that react to pointer movement while
// a stroke is in progress.
type Dragger interface {
	Drag(ev PointerEvent, dst *Surface)
}

// Ender is implemented by tools that react to pointer-up.
type Ender interface {
	End(ev PointerEvent, dst *Surface)
}

// ToolProvider resolves the currently selected tool.
type ToolProvider interface {
	CurrentTool() Tool
}

// ToolProviderFunc adapts a function to the ToolProvider interface.
type ToolProviderFunc func() Tool

// CurrentTool calls f.
func (f ToolProviderFunc) CurrentTool() Tool {
	return f()
}

// StaticTool returns a ToolProvider that always resolves to t.
func StaticTool(t Tool) ToolProvider {
	return ToolProviderFunc(func() Tool { return t })
}

// Capabilities describes which optional handlers a tool implements.
type Capabilities struct {
	Start bool
	Drag  bool
	End   bool
}

// CapabilitiesOf reports the optional handlers implemented by t.
// A nil tool has no capabilities.
func CapabilitiesOf(t Tool) Capabilities {
	if t == nil {
		return Capabilities{}
	}
	_, start := t.(Starter)
	_, drag := t.(Dragger)
	_, end := t.(Ender)
	return Capabilities{Start: start, Drag: drag, End: end}
}

// cursorOf returns the cursor of t, or "" for a nil tool.
func cursorOf(t Tool) string {
	if t == nil {
		return ""
	}
	return t.Cursor()
}
