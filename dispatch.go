package imgedit

// dispatcher routes pointer events of one session to the current tool.
//
// The tool is resolved on every event rather than once per stroke, so
// switching tools in the middle of a drag changes how the remaining events
// of that stroke are handled.
type dispatcher struct {
	target    *Surface
	tools     ToolProvider
	engaged   bool
	cancelled bool
}

func newDispatcher(target *Surface, tools ToolProvider) *dispatcher {
	return &dispatcher{target: target, tools: tools}
}

// cancel detaches the dispatcher from its surface. Events routed to a
// cancelled dispatcher are dropped.
func (d *dispatcher) cancel() {
	d.cancelled = true
	d.engaged = false
}

// route delivers ev to the current tool and reports whether the event
// must commit the active layer. Every pointer-up commits, whether or not
// a stroke was started and whether or not the tool handles it.
func (d *dispatcher) route(ev PointerEvent) (commit bool) {
	if d.cancelled {
		return false
	}

	tool := d.currentTool()
	switch ev.Kind {
	case PointerDown:
		if d.engaged {
			return false
		}
		if st, ok := tool.(Starter); ok {
			d.engaged = true
			st.Start(ev, d.target)
		}
	case PointerMove:
		if !d.engaged {
			return false
		}
		if dr, ok := tool.(Dragger); ok {
			dr.Drag(ev, d.target)
		}
	case PointerUp:
		if d.engaged {
			d.engaged = false
			if en, ok := tool.(Ender); ok {
				en.End(ev, d.target)
			}
		}
		return true
	}
	return false
}

func (d *dispatcher) currentTool() Tool {
	if d.tools == nil {
		return nil
	}
	return d.tools.CurrentTool()
}
