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

// Package segment implements the fixed-size byte chunk that backs every
// Buffer in this module, plus the bounded free-list that recycles them.
package segment

import "github.com/bytedance/gopkg/lang/mcache"

// Size is the capacity of a single Segment, in bytes. Changing it is an
// ABI-incompatible change: callers that assume whole-segment moves happen
// at this boundary (e.g. in tests) will break.
const Size = 2048

// Segment is a fixed-capacity byte chunk with two in-range offsets, Pos and
// Limit, bounding the live byte range [Pos, Limit). Segments participate in
// at most one doubly-linked ring at a time via Prev/Next; a detached segment
// as returned by Pool.Take has Prev == Next == itself. While idle in the
// pool a segment is linked through Next only (see Pool), and Pop leaves
// both links nil.
type Segment struct {
	Data       []byte
	Pos, Limit int
	Prev, Next *Segment
}

func newDetached() *Segment {
	s := &Segment{Data: mcache.Malloc(Size)}
	s.Prev, s.Next = s, s
	return s
}

func (s *Segment) reset() {
	s.Pos, s.Limit = 0, 0
	s.Prev, s.Next = s, s
}

// WritableBytes returns how many more bytes can be appended to s.
func (s *Segment) WritableBytes() int { return Size - s.Limit }

// ReadableBytes returns how many unread bytes remain in s.
func (s *Segment) ReadableBytes() int { return s.Limit - s.Pos }

// Push inserts seg immediately after s in s's ring and returns seg.
func (s *Segment) Push(seg *Segment) *Segment {
	seg.Prev = s
	seg.Next = s.Next
	seg.Next.Prev = seg
	s.Next = seg
	return seg
}

// Pop removes s from its ring and returns the segment that was s.Next, or
// nil if s was the ring's only member. The caller is responsible for
// updating any head pointer that referenced s.
func (s *Segment) Pop() *Segment {
	var result *Segment
	if s.Next != s {
		result = s.Next
	}
	s.Prev.Next = s.Next
	s.Next.Prev = s.Prev
	s.Next, s.Prev = nil, nil
	return result
}
