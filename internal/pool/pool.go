// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pool recycles RGBA buffers of identical dimensions.
package pool

import (
	"image"
	"sync"
)

// Pool is a thread-safe pool for reusing *image.RGBA buffers.
//
// Pool groups buffers by their dimensions. Editors draw a buffer for every
// stroke and release the buffers of layers that can no longer be redone,
// so sizes repeat and reuse is the common case.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[image.Point][]*image.RGBA
	maxSize int // max buffers per bucket
}

// New creates a buffer pool that retains at most maxPerBucket buffers of
// each size. A maxPerBucket of 0 means unlimited.
func New(maxPerBucket int) *Pool {
	if maxPerBucket < 0 {
		maxPerBucket = 0
	}
	return &Pool{
		buckets: make(map[image.Point][]*image.RGBA),
		maxSize: maxPerBucket,
	}
}

// Get returns a fully transparent buffer of the given size with bounds
// starting at (0, 0), reusing a pooled one when available.
func (p *Pool) Get(width, height int) *image.RGBA {
	key := image.Pt(width, height)

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		bucket[len(bucket)-1] = nil
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return buf
	}
	p.mu.Unlock()

	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Put returns a buffer to the pool. The buffer is cleared before it is
// stored. Nil buffers, sub-images and buffers for a full bucket are
// discarded.
func (p *Pool) Put(buf *image.RGBA) {
	if buf == nil || buf.Rect.Min != (image.Point{}) || buf.Stride != 4*buf.Rect.Dx() {
		return
	}

	clear(buf.Pix)
	key := buf.Rect.Size()

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of buffers currently pooled for the given size.
func (p *Pool) Len(width, height int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[image.Pt(width, height)])
}
