// Copyright 2025 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package buf implements the segmented byte buffer that every Source and
// Sink in this module reads from or writes into: an ordered sequence of
// pooled, fixed-size segment.Segment chunks linked into a single ring, with
// O(1) whole-segment transfer between buffers and arbitrary random-access
// reads within the buffered range.
//
// A Buffer is not safe for concurrent use; callers owning a Buffer across
// goroutines must provide their own synchronization.
package buf

import (
	"errors"

	"github.com/wirepath/transportio/segment"
)

var errNegativeCount = errors.New("buf: negative byte count")

// Buffer is an ordered byte sequence backed by a circular doubly-linked
// list of segments, reachable from a single head pointer. The head holds
// the oldest byte; head.Prev holds the newest segment (the tail). An empty
// Buffer has a nil head and a zero length.
type Buffer struct {
	head   *segment.Segment
	length int64
}

// New returns an empty Buffer.
func New() *Buffer { return &Buffer{} }

// Len returns the number of bytes currently buffered.
func (b *Buffer) Len() int64 { return b.length }

// Clear recycles every segment owned by b, returning it to empty. It is
// always safe to call, including on an already-empty Buffer.
func (b *Buffer) Clear() {
	for b.head != nil {
		s := b.head
		b.head = s.Pop()
		segment.Recycle(s)
	}
	b.length = 0
}

// Close implements io.Closer by recycling b's segments. Double-close is a
// no-op.
func (b *Buffer) Close() error {
	b.Clear()
	return nil
}

func (b *Buffer) tail() *segment.Segment {
	if b.head == nil {
		return nil
	}
	return b.head.Prev
}

// writableSegment returns the tail segment if it has at least minNeeded
// free bytes, otherwise it appends and returns a fresh pooled segment.
func (b *Buffer) writableSegment(minNeeded int) *segment.Segment {
	if b.head == nil {
		s := segment.Take()
		b.head = s
		return s
	}
	tail := b.head.Prev
	if tail.WritableBytes() >= minNeeded {
		return tail
	}
	return tail.Push(segment.Take())
}

// appendSegment links a detached segment s (as produced by Segment.Pop) in
// as b's new tail, without copying any bytes.
func (b *Buffer) appendSegment(s *segment.Segment) {
	if b.head == nil {
		s.Prev, s.Next = s, s
		b.head = s
		return
	}
	b.head.Prev.Push(s)
}

// IndexOf returns the smallest absolute index i >= start with byte i equal
// to target, or -1 if no such byte is buffered.
func (b *Buffer) IndexOf(target byte, start int64) int64 {
	if start < 0 {
		start = 0
	}
	if b.head == nil || start >= b.length {
		return -1
	}
	s := b.head
	base := int64(0)
	for start-base >= int64(s.ReadableBytes()) {
		base += int64(s.ReadableBytes())
		s = s.Next
	}
	pos := s.Pos + int(start-base)
	for base < b.length {
		limit := s.Limit
		for p := pos; p < limit; p++ {
			if s.Data[p] == target {
				return base + int64(p-s.Pos)
			}
		}
		base += int64(limit - s.Pos)
		s = s.Next
		pos = s.Pos
	}
	return -1
}

// VisitBytes calls fn, possibly more than once, with read-only slices that
// together cover the n bytes starting at absolute offset `offset`, without
// copying or consuming anything. It is used by checksum-style consumers
// (e.g. gzipsource's running CRC-32) that need to scan buffered bytes
// without disturbing them.
func (b *Buffer) VisitBytes(offset, n int64, fn func(p []byte)) {
	if n <= 0 || b.head == nil {
		return
	}
	s := b.head
	base := int64(0)
	for offset-base >= int64(s.ReadableBytes()) {
		base += int64(s.ReadableBytes())
		s = s.Next
	}
	pos := s.Pos + int(offset-base)
	remaining := n
	for remaining > 0 {
		avail := s.Limit - pos
		take := avail
		if int64(take) > remaining {
			take = int(remaining)
		}
		fn(s.Data[pos : pos+take])
		remaining -= int64(take)
		s = s.Next
		pos = s.Pos
	}
}

// ReadInto transfers n bytes from b into dst. Whole segments move by
// relinking (O(1), no byte copy); a partial segment at the boundary is
// copied once. When the moved segment is small enough to fit in dst's
// existing tail, the bytes are compacted into that tail and the donor
// segment is recycled instead of being linked in, avoiding a buildup of
// small fragments.
func (b *Buffer) ReadInto(dst *Buffer, n int64) (int64, error) {
	if n < 0 {
		return 0, errNegativeCount
	}
	if b.length < n {
		return 0, errEOF
	}
	remaining := n
	for remaining > 0 {
		head := b.head
		m := int64(head.ReadableBytes())
		if m <= remaining {
			b.head = head.Pop()
			b.length -= m
			if tail := dst.tail(); tail != nil && tail.WritableBytes() >= int(m) {
				copy(tail.Data[tail.Limit:], head.Data[head.Pos:head.Limit])
				tail.Limit += int(m)
				segment.Recycle(head)
			} else {
				dst.appendSegment(head)
			}
			dst.length += m
			remaining -= m
		} else {
			tail := dst.writableSegment(int(remaining))
			toCopy := int(remaining)
			copy(tail.Data[tail.Limit:], head.Data[head.Pos:head.Pos+toCopy])
			tail.Limit += toCopy
			head.Pos += toCopy
			b.length -= remaining
			dst.length += remaining
			remaining = 0
		}
	}
	return n, nil
}
