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

	"github.com/wirepath/transportio/segment"
)

// ReadByte consumes and returns the first buffered byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.length < 1 {
		return 0, errEOF
	}
	s := b.head
	c := s.Data[s.Pos]
	s.Pos++
	b.length--
	if s.Pos == s.Limit {
		b.head = s.Pop()
		segment.Recycle(s)
	}
	return c, nil
}

// ReadShort consumes 2 big-endian bytes.
func (b *Buffer) ReadShort() (int16, error) {
	if b.length < 2 {
		return 0, errEOF
	}
	if b.head.ReadableBytes() >= 2 {
		s := b.head
		v := int16(binary.BigEndian.Uint16(s.Data[s.Pos:]))
		b.advance(s, 2)
		return v, nil
	}
	hi, _ := b.ReadByte()
	lo, _ := b.ReadByte()
	return int16(uint16(hi)<<8 | uint16(lo)), nil
}

// ReadShortLE consumes 2 little-endian bytes.
func (b *Buffer) ReadShortLE() (int16, error) {
	if b.length < 2 {
		return 0, errEOF
	}
	if b.head.ReadableBytes() >= 2 {
		s := b.head
		v := int16(binary.LittleEndian.Uint16(s.Data[s.Pos:]))
		b.advance(s, 2)
		return v, nil
	}
	lo, _ := b.ReadByte()
	hi, _ := b.ReadByte()
	return int16(uint16(hi)<<8 | uint16(lo)), nil
}

// ReadInt consumes 4 big-endian bytes.
func (b *Buffer) ReadInt() (int32, error) {
	if b.length < 4 {
		return 0, errEOF
	}
	if b.head.ReadableBytes() >= 4 {
		s := b.head
		v := int32(binary.BigEndian.Uint32(s.Data[s.Pos:]))
		b.advance(s, 4)
		return v, nil
	}
	var tmp [4]byte
	for i := range tmp {
		tmp[i], _ = b.ReadByte()
	}
	return int32(binary.BigEndian.Uint32(tmp[:])), nil
}

// ReadIntLE consumes 4 little-endian bytes.
func (b *Buffer) ReadIntLE() (int32, error) {
	if b.length < 4 {
		return 0, errEOF
	}
	if b.head.ReadableBytes() >= 4 {
		s := b.head
		v := int32(binary.LittleEndian.Uint32(s.Data[s.Pos:]))
		b.advance(s, 4)
		return v, nil
	}
	var tmp [4]byte
	for i := range tmp {
		tmp[i], _ = b.ReadByte()
	}
	return int32(binary.LittleEndian.Uint32(tmp[:])), nil
}

// ReadLong consumes 8 big-endian bytes.
func (b *Buffer) ReadLong() (int64, error) {
	if b.length < 8 {
		return 0, errEOF
	}
	if b.head.ReadableBytes() >= 8 {
		s := b.head
		v := int64(binary.BigEndian.Uint64(s.Data[s.Pos:]))
		b.advance(s, 8)
		return v, nil
	}
	var tmp [8]byte
	for i := range tmp {
		tmp[i], _ = b.ReadByte()
	}
	return int64(binary.BigEndian.Uint64(tmp[:])), nil
}

// ReadLongLE consumes 8 little-endian bytes.
func (b *Buffer) ReadLongLE() (int64, error) {
	if b.length < 8 {
		return 0, errEOF
	}
	if b.head.ReadableBytes() >= 8 {
		s := b.head
		v := int64(binary.LittleEndian.Uint64(s.Data[s.Pos:]))
		b.advance(s, 8)
		return v, nil
	}
	var tmp [8]byte
	for i := range tmp {
		tmp[i], _ = b.ReadByte()
	}
	return int64(binary.LittleEndian.Uint64(tmp[:])), nil
}

// advance is the shared bookkeeping for the segment-local fast paths above:
// move s.Pos forward by n and recycle s if it's now empty.
func (b *Buffer) advance(s *segment.Segment, n int) {
	s.Pos += n
	b.length -= int64(n)
	if s.Pos == s.Limit {
		b.head = s.Pop()
		segment.Recycle(s)
	}
}

// ReadByteString consumes and returns a freshly allocated copy of the next
// n bytes. The returned slice never aliases pooled segment storage.
func (b *Buffer) ReadByteString(n int64) ([]byte, error) {
	if n < 0 {
		return nil, errNegativeCount
	}
	if b.length < n {
		return nil, errEOF
	}
	out := make([]byte, n)
	var off int64
	for off < n {
		s := b.head
		chunk := int64(s.ReadableBytes())
		if chunk > n-off {
			chunk = n - off
		}
		copy(out[off:], s.Data[s.Pos:s.Pos+int(chunk)])
		off += chunk
		b.advance(s, int(chunk))
	}
	return out, nil
}

// GetByte returns the byte at absolute index i without consuming it.
func (b *Buffer) GetByte(i int64) (byte, error) {
	if i < 0 || i >= b.length {
		return 0, errEOF
	}
	s := b.head
	for {
		segLen := int64(s.ReadableBytes())
		if i < segLen {
			return s.Data[s.Pos+int(i)], nil
		}
		i -= segLen
		s = s.Next
	}
}

// Skip discards the next n bytes without copying them anywhere.
func (b *Buffer) Skip(n int64) error {
	if n < 0 {
		return errNegativeCount
	}
	if b.length < n {
		return errEOF
	}
	for n > 0 {
		s := b.head
		chunk := int64(s.ReadableBytes())
		if chunk > n {
			chunk = n
		}
		n -= chunk
		b.advance(s, int(chunk))
	}
	return nil
}

// ReadFront copies as many bytes as are currently available (up to
// len(p)) from the front of b into p, consuming them. It never blocks and
// never errors: an empty Buffer simply yields 0. This is the primitive
// decompressors in this module use to drain their shared input window.
func (b *Buffer) ReadFront(p []byte) int {
	n := 0
	for n < len(p) && b.head != nil {
		s := b.head
		c := copy(p[n:], s.Data[s.Pos:s.Limit])
		n += c
		b.advance(s, c)
	}
	return n
}
