// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/gorilla/websocket"

	"github.com/gogpu/imgedit"
	"github.com/gogpu/imgedit/config"
	"github.com/gogpu/imgedit/ingest"
	"github.com/gogpu/imgedit/tools"
)

// outQueue is the number of control messages buffered for the writer.
const outQueue = 16

// conn is one browser session. The read loop is the only goroutine that
// feeds events into the editor, so messages, loads included, are applied
// in arrival order. The write loop is the only goroutine that writes to
// the socket.
type conn struct {
	ws        *websocket.Conn
	ed        *imgedit.Editor
	palette   *tools.Palette
	log       *slog.Logger
	maxPixels int64

	render chan struct{}
	out    chan any
}

func newConn(ws *websocket.Conn, cfg config.Config, log *slog.Logger) (*conn, error) {
	palette, err := tools.NewPalette(cfg.Tools)
	if err != nil {
		return nil, err
	}

	c := &conn{
		ws:        ws,
		palette:   palette,
		log:       log,
		maxPixels: cfg.MaxPixels,
		render:    make(chan struct{}, 1),
		out:       make(chan any, outQueue),
	}
	c.ed = imgedit.New(palette,
		imgedit.WithLogger(log),
		imgedit.WithChangeHook(func(imgedit.Change) { c.requestRender() }),
	)
	ws.SetReadLimit(cfg.MaxUploadBytes)
	return c, nil
}

func (c *conn) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Closing the socket unblocks the read loop when ctx ends first.
	stop := context.AfterFunc(ctx, func() { _ = c.ws.Close() })
	defer stop()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(ctx)
	}()

	c.send(ctx, HelloMessage{Type: MsgHello, Tools: c.palette.Names(), Tool: c.palette.Current()})
	c.log.Info("server: session opened")

	c.readLoop(ctx)

	cancel()
	<-writerDone
	_ = c.ws.Close()
	c.log.Info("server: session closed")
}

func (c *conn) readLoop(ctx context.Context) {
	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("server: read failed", "err", err)
			}
			return
		}
		if typ != websocket.TextMessage {
			c.fail(ctx, "expected a JSON text message")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.fail(ctx, fmt.Sprintf("malformed message: %v", err))
			continue
		}
		c.handle(ctx, &msg)
	}
}

func (c *conn) handle(ctx context.Context, msg *ClientMessage) {
	switch msg.Type {
	case MsgLoad:
		// Decoding blocks the read loop; later messages wait for the
		// document they were meant for.
		item := ingest.Item{Name: msg.Name, MIME: msg.MIME, Data: msg.Data}
		err := ingest.Ingest(ctx, item, c.ed, ingest.WithMaxPixels(c.maxPixels))
		if err != nil && ctx.Err() == nil {
			c.send(ctx, RejectedMessage{Type: MsgRejected, Name: item.Name, Reason: err.Error()})
		}
	case MsgPointer:
		ev, ok := msg.pointerEvent()
		if !ok {
			c.fail(ctx, fmt.Sprintf("unknown pointer phase %q", msg.Phase))
			return
		}
		c.ed.HandlePointer(ev)
	case MsgKey:
		c.ed.HandleKey(msg.keyEvent())
	case MsgUndo:
		c.ed.Undo()
	case MsgRedo:
		c.ed.Redo()
	case MsgTool:
		if err := c.palette.Select(msg.Name); err != nil {
			c.fail(ctx, err.Error())
		}
	default:
		c.fail(ctx, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (c *conn) writeLoop(ctx context.Context) {
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case m := <-c.out:
			err = c.ws.WriteJSON(m)
		case <-c.render:
			err = c.writeFrame()
		}
		if err != nil {
			c.log.Warn("server: write failed", "err", err)
			_ = c.ws.Close()
			return
		}
	}
}

// writeFrame sends the frame header and the flattened image as PNG.
func (c *conn) writeFrame() error {
	f, ok := c.ed.Frame()
	if !ok {
		return nil
	}

	hdr := FrameMessage{
		Type:   MsgFrame,
		Width:  f.Image.Width(),
		Height: f.Image.Height(),
		Layers: f.Layers,
		Redo:   f.Redo,
		Cursor: f.Cursor,
		Tool:   c.palette.Current(),
	}
	if err := c.ws.WriteJSON(hdr); err != nil {
		return err
	}

	w, err := c.ws.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := imgio.PNGEncoder()(w, f.Image.RGBA()); err != nil {
		_ = w.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return w.Close()
}

// requestRender schedules a frame. Requests made while one is pending
// collapse into it.
func (c *conn) requestRender() {
	select {
	case c.render <- struct{}{}:
	default:
	}
}

func (c *conn) send(ctx context.Context, m any) {
	select {
	case c.out <- m:
	case <-ctx.Done():
	}
}

// fail reports a bad client message. The connection stays open.
func (c *conn) fail(ctx context.Context, reason string) {
	c.log.Warn("server: bad message", "reason", reason)
	c.send(ctx, ErrorMessage{Type: MsgError, Message: reason})
}
