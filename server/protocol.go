// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"image"

	"github.com/gogpu/imgedit"
)

// Client message types.
const (
	MsgLoad    = "load"
	MsgPointer = "pointer"
	MsgKey     = "key"
	MsgUndo    = "undo"
	MsgRedo    = "redo"
	MsgTool    = "tool"
)

// Server message types.
const (
	MsgHello    = "hello"
	MsgFrame    = "frame"
	MsgRejected = "rejected"
	MsgError    = "error"
)

// ClientMessage is a JSON text message sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`

	// load and tool; Name is the file name or the tool name
	Name string `json:"name,omitempty"`
	MIME string `json:"mime,omitempty"`
	Data []byte `json:"data,omitempty"` // base64 in JSON

	// pointer
	Phase  string `json:"phase,omitempty"` // down, move, up
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Button int    `json:"button,omitempty"`

	// key, and modifiers of pointer events
	Key   string `json:"key,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
}

// HelloMessage is sent once when a connection opens.
type HelloMessage struct {
	Type  string   `json:"type"`
	Tools []string `json:"tools"`
	Tool  string   `json:"tool"`
}

// FrameMessage precedes every binary PNG frame of the flattened image.
type FrameMessage struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Layers int    `json:"layers"`
	Redo   int    `json:"redo"`
	Cursor string `json:"cursor"`
	Tool   string `json:"tool"`
}

// RejectedMessage reports an ingestion item that was not loaded.
type RejectedMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ErrorMessage reports a malformed or unsupported client message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// pointerEvent converts a pointer message to an editor event.
func (m *ClientMessage) pointerEvent() (imgedit.PointerEvent, bool) {
	var kind imgedit.PointerKind
	switch m.Phase {
	case "down":
		kind = imgedit.PointerDown
	case "move":
		kind = imgedit.PointerMove
	case "up":
		kind = imgedit.PointerUp
	default:
		return imgedit.PointerEvent{}, false
	}
	return imgedit.PointerEvent{
		Kind:   kind,
		Pos:    image.Pt(m.X, m.Y),
		Button: m.Button,
		Shift:  m.Shift,
		Ctrl:   m.Ctrl,
		Alt:    m.Alt,
	}, true
}

func (m *ClientMessage) keyEvent() imgedit.KeyEvent {
	return imgedit.KeyEvent{Key: m.Key, Ctrl: m.Ctrl, Shift: m.Shift, Alt: m.Alt, Meta: m.Meta}
}
