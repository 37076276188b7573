// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ingest validates and decodes images handed to the editor by a
// file picker, a drag-and-drop or a clipboard paste.
//
// [Ingest] decodes an item and either loads the result into the editor or
// reports why the item was rejected. Non-image input, and images larger
// than the configured pixel limit, never reach the editor. [LoadAsync]
// runs Ingest in its own goroutine; loads started that way finish in
// decode order, so a host that must apply loads in arrival order calls
// Ingest from its event loop instead.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/imgedit"
)

// Ingestion errors.
var (
	// ErrNotImage is returned for items that are not images, either by
	// their declared MIME type or by their content.
	ErrNotImage = errors.New("ingest: not an image")

	// ErrEmptyData is returned for items without data.
	ErrEmptyData = errors.New("ingest: empty data")

	// ErrNoItems is returned by Pick when no item is an image.
	ErrNoItems = errors.New("ingest: no image items")

	// ErrTooLarge is returned for images whose declared dimensions exceed
	// the pixel limit.
	ErrTooLarge = errors.New("ingest: image too large")
)

const (
	// sniffLen is the number of leading bytes inspected for content sniffing.
	sniffLen = 261

	// DefaultMaxPixels is the pixel limit used when none is configured.
	DefaultMaxPixels = 8192 * 8192
)

// Option configures decoding.
type Option func(*options)

type options struct {
	maxPixels int64
}

func buildOptions(opts []Option) options {
	o := options{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxPixels limits the width×height of decoded images. The limit is
// checked against the image header before any pixel is decoded.
// Values below 1 keep the default.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}

// Item is one candidate resource: a picked file, a dropped file or a
// pasted clipboard entry.
type Item struct {
	// Name is a display name, usually the file name.
	Name string

	// MIME is the MIME type declared by the source. It may be empty, in
	// which case only the content decides.
	MIME string

	// Data is the raw resource.
	Data []byte
}

// FromFile reads an item from disk. The MIME type is taken from the content.
func FromFile(path string) (Item, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Item{}, fmt.Errorf("ingest: read file: %w", err)
	}
	return Item{Name: filepath.Base(path), MIME: sniffMIME(data), Data: data}, nil
}

// FromReader reads an item with a declared MIME type from r.
func FromReader(name, mime string, r io.Reader) (Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Item{}, fmt.Errorf("ingest: read %s: %w", name, err)
	}
	return Item{Name: name, MIME: mime, Data: data}, nil
}

// Check reports whether item may be handed to the editor. It rejects items
// whose declared MIME type is not an image type and items whose content is
// not recognized as an image.
func Check(item Item) error {
	if len(item.Data) == 0 {
		return ErrEmptyData
	}
	if item.MIME != "" && !strings.HasPrefix(item.MIME, "image") {
		return fmt.Errorf("%w: invalid MIME type %q", ErrNotImage, item.MIME)
	}
	if !filetype.IsImage(head(item.Data)) {
		return fmt.Errorf("%w: unrecognized content", ErrNotImage)
	}
	return nil
}

// Decode checks and decodes item.
func Decode(ctx context.Context, item Item, opts ...Option) (image.Image, error) {
	o := buildOptions(opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Check(item); err != nil {
		return nil, err
	}

	hdr, _, err := image.DecodeConfig(bytes.NewReader(item.Data))
	if err != nil {
		return nil, fmt.Errorf("ingest: decode %s: %w", item.Name, err)
	}
	if px := int64(hdr.Width) * int64(hdr.Height); px > o.maxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d, limit is %d pixels",
			ErrTooLarge, item.Name, hdr.Width, hdr.Height, o.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(item.Data))
	if err != nil {
		return nil, fmt.Errorf("ingest: decode %s: %w", item.Name, err)
	}

	imgedit.Logger().Debug("ingest: decoded", "name", item.Name, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

// Pick selects the item a paste or drop should load. Items that are not
// images are logged and skipped. When several images are offered the last
// one wins, matching what loading each of them in turn would leave behind.
func Pick(items []Item) (Item, error) {
	var (
		picked Item
		found  bool
	)
	for _, item := range items {
		if err := Check(item); err != nil {
			reject(item, err)
			continue
		}
		picked, found = item, true
	}
	if !found {
		return Item{}, ErrNoItems
	}
	return picked, nil
}

func head(data []byte) []byte {
	if len(data) > sniffLen {
		return data[:sniffLen]
	}
	return data
}

func sniffMIME(data []byte) string {
	kind, err := filetype.Match(head(data))
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// reject logs a rejected item. Rejections are not fatal.
func reject(item Item, err error) {
	imgedit.Logger().Warn("ingest: rejected", "name", item.Name, "mime", item.MIME, "err", err)
}
