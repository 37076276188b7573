// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tools

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/imgedit"
	"github.com/gogpu/imgedit/config"
)

// Tool names registered by NewPalette.
const (
	NamePen  = "pen"
	NameRect = "rect"
	NameHand = "hand"
)

// ErrUnknownTool is returned when selecting a tool that is not registered.
var ErrUnknownTool = errors.New("tools: unknown tool")

// Palette is a set of named tools with one current selection.
// It implements imgedit.ToolProvider.
//
// Palette is safe for concurrent use; the selection may change from another
// goroutine while an editor is routing events.
type Palette struct {
	mu      sync.RWMutex
	tools   map[string]imgedit.Tool
	current string
}

var _ imgedit.ToolProvider = (*Palette)(nil)

// NewPalette creates a palette with the pen, rect and hand tools
// configured from cfg, selecting cfg.Default.
func NewPalette(cfg config.ToolConfig) (*Palette, error) {
	p := &Palette{}
	if err := p.Configure(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Configure replaces the built-in tools with ones built from cfg and
// selects cfg.Default. On error the palette is unchanged.
func (p *Palette) Configure(cfg config.ToolConfig) error {
	penColor, err := config.ParseColor(cfg.PenColor)
	if err != nil {
		return err
	}
	shapeColor, err := config.ParseColor(cfg.ShapeColor)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tools == nil {
		p.tools = make(map[string]imgedit.Tool)
	}
	if _, ok := p.tools[cfg.Default]; !ok && !isBuiltin(cfg.Default) {
		return fmt.Errorf("%w: %q", ErrUnknownTool, cfg.Default)
	}

	p.tools[NamePen] = &Pen{Color: penColor, Width: cfg.PenWidth}
	p.tools[NameRect] = &Rect{Color: shapeColor, Width: cfg.ShapeWidth}
	p.tools[NameHand] = Hand{}
	p.current = cfg.Default
	return nil
}

func isBuiltin(name string) bool {
	return name == NamePen || name == NameRect || name == NameHand
}

// Register adds or replaces a named tool.
func (p *Palette) Register(name string, t imgedit.Tool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tools == nil {
		p.tools = make(map[string]imgedit.Tool)
	}
	p.tools[name] = t
}

// Select makes the named tool current.
func (p *Palette) Select(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.tools[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	p.current = name
	return nil
}

// Current returns the name of the selected tool.
func (p *Palette) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Names returns the registered tool names in sorted order.
func (p *Palette) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.tools))
	for name := range p.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CurrentTool implements imgedit.ToolProvider.
func (p *Palette) CurrentTool() imgedit.Tool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tools[p.current]
}
