// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package replay drives an editor from a YAML script of input events.
//
// A script is a list of steps, each naming exactly one action:
//
//	steps:
//	  - tool: rect
//	  - down: [2, 2]
//	  - move: [10, 10]
//	  - up: [10, 10]
//	  - key: ctrl+z
//	  - redo: true
//
// Keys are written either as a chord ("ctrl+shift+z") or as a mapping
// with the fields of imgedit.KeyEvent.
package replay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/imgedit"
)

var (
	// ErrBadStep is returned for a step that names no action or several.
	ErrBadStep = errors.New("replay: step must name exactly one action")

	// ErrNoPalette is returned when a tool step runs without a Selector.
	ErrNoPalette = errors.New("replay: tool step without a palette")
)

// Script is a parsed replay script.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one scripted action.
type Step struct {
	Tool string `yaml:"tool,omitempty"`
	Down *Point `yaml:"down,omitempty"`
	Move *Point `yaml:"move,omitempty"`
	Up   *Point `yaml:"up,omitempty"`
	Key  *Key   `yaml:"key,omitempty"`
	Undo bool   `yaml:"undo,omitempty"`
	Redo bool   `yaml:"redo,omitempty"`
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Tool != "", s.Down != nil, s.Move != nil, s.Up != nil, s.Key != nil, s.Undo, s.Redo} {
		if set {
			n++
		}
	}
	return n
}

// Point is a pointer position written as [x, y].
type Point image.Point

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	var xy []int
	if err := n.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("replay: line %d: point needs two coordinates, got %d", n.Line, len(xy))
	}
	*p = Point{X: xy[0], Y: xy[1]}
	return nil
}

// Key is a scripted key press.
type Key imgedit.KeyEvent

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Key) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return k.parseChord(n.Value)
	}
	var m struct {
		Key   string `yaml:"key"`
		Ctrl  bool   `yaml:"ctrl"`
		Shift bool   `yaml:"shift"`
		Alt   bool   `yaml:"alt"`
		Meta  bool   `yaml:"meta"`
	}
	if err := n.Decode(&m); err != nil {
		return err
	}
	*k = Key{Key: m.Key, Ctrl: m.Ctrl, Shift: m.Shift, Alt: m.Alt, Meta: m.Meta}
	return nil
}

// parseChord reads "ctrl+shift+z". The last part is the key.
func (k *Key) parseChord(s string) error {
	parts := strings.Split(s, "+")
	ev := Key{Key: parts[len(parts)-1]}
	if ev.Key == "" {
		return fmt.Errorf("replay: empty key in %q", s)
	}
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "ctrl", "control":
			ev.Ctrl = true
		case "shift":
			ev.Shift = true
		case "alt":
			ev.Alt = true
		case "meta", "cmd":
			ev.Meta = true
		default:
			return fmt.Errorf("replay: unknown modifier %q in %q", mod, s)
		}
	}
	*k = ev
	return nil
}

// Parse reads a script. Unknown fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("replay: parse: %w", err)
	}
	for i, st := range s.Steps {
		if st.actions() != 1 {
			return nil, fmt.Errorf("step %d: %w", i, ErrBadStep)
		}
	}
	return &s, nil
}

// ParseFile reads a script from path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Target receives the scripted events. *imgedit.Editor implements Target.
type Target interface {
	HandlePointer(ev imgedit.PointerEvent)
	HandleKey(k imgedit.KeyEvent) imgedit.Action
	Undo() bool
	Redo() bool
}

// Selector switches the current tool. *tools.Palette implements Selector.
type Selector interface {
	Select(name string) error
}

// Run applies every step of s to dst in order. It stops at the first
// failing step or when ctx is done. palette may be nil for scripts
// without tool steps.
func Run(ctx context.Context, dst Target, palette Selector, s *Script) error {
	log := imgedit.Logger()
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(dst, palette, st); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		log.Debug("replay: step applied", "step", i)
	}
	log.Info("replay: script finished", "steps", len(s.Steps))
	return nil
}

func apply(dst Target, palette Selector, st Step) error {
	switch {
	case st.Tool != "":
		if palette == nil {
			return ErrNoPalette
		}
		return palette.Select(st.Tool)
	case st.Down != nil:
		dst.HandlePointer(imgedit.PointerEvent{Kind: imgedit.PointerDown, Pos: image.Point(*st.Down)})
	case st.Move != nil:
		dst.HandlePointer(imgedit.PointerEvent{Kind: imgedit.PointerMove, Pos: image.Point(*st.Move)})
	case st.Up != nil:
		dst.HandlePointer(imgedit.PointerEvent{Kind: imgedit.PointerUp, Pos: image.Point(*st.Up)})
	case st.Key != nil:
		dst.HandleKey(imgedit.KeyEvent(*st.Key))
	case st.Undo:
		dst.Undo()
	case st.Redo:
		dst.Redo()
	default:
		return ErrBadStep
	}
	return nil
}
