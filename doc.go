// Package imgedit provides a layered raster image editing engine.
//
// # Overview
//
// An Editor composes an image from an ordered stack of layers. The bottom
// layer is the loaded image; every other layer is produced by exactly one
// stroke, the pointer interaction between a pointer-down and the matching
// pointer-up. Undo and Redo move whole layers between the layer stack and
// a redo list.
//
// # Quick Start
//
//	import "github.com/gogpu/imgedit"
//
//	ed := imgedit.New(imgedit.StaticTool(pen))
//	if err := ed.Load(img); err != nil {
//	    return err
//	}
//
//	ed.PointerDown(image.Pt(10, 10))
//	ed.PointerMove(image.Pt(40, 25))
//	ed.PointerUp(image.Pt(40, 25)) // the stroke becomes layer 1
//
//	ed.Undo()
//	ed.Redo()
//
//	out := ed.Flatten() // image.Image of all committed layers
//
// # Strokes
//
// Pointer events are drawn into the active layer, a transparent surface
// the size of the base image. On pointer-up the active layer is committed
// on top of the stack, the redo list is discarded and a new active layer is
// opened. A pointer-up always commits, even when the tool drew nothing.
//
// # Tools
//
// A [Tool] only has to report a cursor style. Tools that draw implement
// any of [Starter], [Dragger] and [Ender]. The editor resolves the current
// tool through a [ToolProvider] on every event, so selecting another tool
// in the middle of a stroke affects the rest of that stroke. Concrete tools
// live in the tools sub-package.
//
// # Keyboard
//
// [ActionForKey] maps the "Undo" key and ctrl+Z to undo, and the "Redo"
// key, ctrl+Y and ctrl+shift+Z to redo. [Editor.HandleKey] applies it.
//
// # Architecture
//
// The module is organized into:
//   - imgedit: Editor, Stack, Surface, tool capabilities, keyboard mapping
//   - ingest: decoding and validation of uploaded, dropped or pasted images
//   - tools: pen, rectangle and hand tools plus a selectable palette
//   - server: WebSocket transport for a browser front end
//   - replay: scripted event playback
//   - config: TOML and environment configuration
//
// # Coordinate System
//
// Surface coordinates have their origin at the top-left pixel of the base
// image, X increasing right and Y increasing down.
package imgedit
