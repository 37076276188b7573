// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ingest

import (
	"context"
	"image"
)

// Loader receives a decoded image. *imgedit.Editor implements Loader.
type Loader interface {
	Load(img image.Image) error
}

// Ingest decodes item and loads it into dst. On any error dst is not
// called and its state is unchanged; non-image rejections are logged.
func Ingest(ctx context.Context, item Item, dst Loader, opts ...Option) error {
	img, err := Decode(ctx, item, opts...)
	if err != nil {
		reject(item, err)
		return err
	}
	// The decode may have outlived the caller.
	if err := ctx.Err(); err != nil {
		return err
	}
	return dst.Load(img)
}

// LoadAsync runs Ingest in a new goroutine. The returned channel receives
// exactly one value, nil on success, and is then closed.
func LoadAsync(ctx context.Context, item Item, dst Loader, opts ...Option) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- Ingest(ctx, item, dst, opts...)
	}()
	return done
}
