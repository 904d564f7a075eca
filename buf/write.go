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

package buf

import (
	"encoding/binary"

	"github.com/wirepath/transportio/unsafex"
)

// Write appends p and satisfies io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	off := 0
	for off < len(p) {
		tail := b.writableSegment(1)
		n := copy(tail.Data[tail.Limit:], p[off:])
		tail.Limit += n
		off += n
		b.length += int64(n)
	}
	return len(p), nil
}

// WriteString appends the UTF-8 bytes of s, viewed without copying.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write(unsafex.StringToBinary(s))
}

// WriteByte appends a single byte and returns b for chaining. Note this
// is not io.ByteWriter's WriteByte(byte) error signature, so *Buffer does
// not satisfy that interface; chaining won, since every other write here
// returns *Buffer too.
func (b *Buffer) WriteByte(v byte) *Buffer {
	tail := b.writableSegment(1)
	tail.Data[tail.Limit] = v
	tail.Limit++
	b.length++
	return b
}

// WriteShort appends v as 2 big-endian bytes and returns b for chaining.
// writableSegment(n) always yields a segment with at least n contiguous
// free bytes for n <= segment.Size, so fixed-width writes never split
// across a segment boundary.
func (b *Buffer) WriteShort(v int16) *Buffer {
	tail := b.writableSegment(2)
	binary.BigEndian.PutUint16(tail.Data[tail.Limit:], uint16(v))
	tail.Limit += 2
	b.length += 2
	return b
}

// WriteShortLE appends v as 2 little-endian bytes and returns b for
// chaining.
func (b *Buffer) WriteShortLE(v int16) *Buffer {
	tail := b.writableSegment(2)
	binary.LittleEndian.PutUint16(tail.Data[tail.Limit:], uint16(v))
	tail.Limit += 2
	b.length += 2
	return b
}

// WriteInt appends v as 4 big-endian bytes and returns b for chaining.
func (b *Buffer) WriteInt(v int32) *Buffer {
	tail := b.writableSegment(4)
	binary.BigEndian.PutUint32(tail.Data[tail.Limit:], uint32(v))
	tail.Limit += 4
	b.length += 4
	return b
}

// WriteIntLE appends v as 4 little-endian bytes and returns b for
// chaining.
func (b *Buffer) WriteIntLE(v int32) *Buffer {
	tail := b.writableSegment(4)
	binary.LittleEndian.PutUint32(tail.Data[tail.Limit:], uint32(v))
	tail.Limit += 4
	b.length += 4
	return b
}

// WriteLong appends v as 8 big-endian bytes and returns b for chaining.
func (b *Buffer) WriteLong(v int64) *Buffer {
	tail := b.writableSegment(8)
	binary.BigEndian.PutUint64(tail.Data[tail.Limit:], uint64(v))
	tail.Limit += 8
	b.length += 8
	return b
}

// WriteLongLE appends v as 8 little-endian bytes and returns b for
// chaining.
func (b *Buffer) WriteLongLE(v int64) *Buffer {
	tail := b.writableSegment(8)
	binary.LittleEndian.PutUint64(tail.Data[tail.Limit:], uint64(v))
	tail.Limit += 8
	b.length += 8
	return b
}
