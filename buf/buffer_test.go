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
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wirepath/transportio/segment"
)

func TestWriteReadByte(t *testing.T) {
	b := New()
	b.WriteByte(1).WriteByte(2).WriteByte(3)
	require.EqualValues(t, 3, b.Len())

	v, err := b.ReadByte()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
	require.EqualValues(t, 2, b.Len())
}

func TestReadByteEmptyIsEOF(t *testing.T) {
	b := New()
	_, err := b.ReadByte()
	require.ErrorIs(t, err, errEOF)
}

func TestFixedWidthRoundTrip(t *testing.T) {
	b := New()
	b.WriteShort(0x0102).WriteIntLE(0x01020304).WriteLong(-1)

	s, err := b.ReadShort()
	require.NoError(t, err)
	require.EqualValues(t, 0x0102, s)

	i, err := b.ReadIntLE()
	require.NoError(t, err)
	require.EqualValues(t, 0x01020304, i)

	l, err := b.ReadLong()
	require.NoError(t, err)
	require.EqualValues(t, -1, l)
	require.Zero(t, b.Len())
}

func TestWriteIntNearTailBoundaryAllocatesFreshSegment(t *testing.T) {
	b := New()
	// Leave only 1 free byte in the tail segment; WriteInt needs 4
	// contiguous bytes, so it must start a fresh segment rather than
	// splitting the int across the boundary.
	for i := 0; i < segment.Size-1; i++ {
		b.WriteByte(0)
	}
	b.WriteInt(0x11223344)
	require.NoError(t, b.Skip(int64(segment.Size-1)))

	v, err := b.ReadInt()
	require.NoError(t, err)
	require.EqualValues(t, 0x11223344, v)
}

// TestReadIntReadSideFallback forces ReadInt's byte-by-byte fallback by
// leaving only 2 readable bytes in the head segment, with the rest of the
// int's bytes in the next segment. Write, unlike WriteInt, splits across
// segment boundaries, so it can produce this layout directly.
func TestReadIntReadSideFallback(t *testing.T) {
	a := New()
	a.Write(make([]byte, segment.Size-2))
	var encoded [4]byte
	binary.BigEndian.PutUint32(encoded[:], 0x0a0b0c0d)
	a.Write(encoded[:])
	require.NoError(t, a.Skip(int64(segment.Size-2)))

	v, err := a.ReadInt()
	require.NoError(t, err)
	require.EqualValues(t, 0x0a0b0c0d, v)
}

func TestWriteStringAndByteString(t *testing.T) {
	b := New()
	b.WriteString("hello, transportio")
	out, err := b.ReadByteString(int64(len("hello, transportio")))
	require.NoError(t, err)
	require.Equal(t, "hello, transportio", string(out))
}

func TestGetByteDoesNotConsume(t *testing.T) {
	b := New()
	b.Write([]byte("abcdef"))
	c, err := b.GetByte(2)
	require.NoError(t, err)
	require.EqualValues(t, 'c', c)
	require.EqualValues(t, 6, b.Len())
}

func TestIndexOf(t *testing.T) {
	b := New()
	b.Write([]byte("abc\ndef\n"))
	require.EqualValues(t, 3, b.IndexOf('\n', 0))
	require.EqualValues(t, 7, b.IndexOf('\n', 4))
	require.EqualValues(t, -1, b.IndexOf('z', 0))
}

func TestSkip(t *testing.T) {
	b := New()
	b.Write([]byte("abcdef"))
	require.NoError(t, b.Skip(3))
	rest, err := b.ReadByteString(3)
	require.NoError(t, err)
	require.Equal(t, "def", string(rest))
}

// TestReadIntoWholeSegments mirrors the module's canonical splice scenario:
// write two full segments (4096 bytes) into A, then move 3000 bytes into B.
// A should retain exactly 1096 bytes.
func TestReadIntoWholeSegments(t *testing.T) {
	a, b := New(), New()
	payload := make([]byte, 2*segment.Size)
	for i := range payload {
		payload[i] = byte(i)
	}
	a.Write(payload)
	require.EqualValues(t, 2*segment.Size, a.Len())

	n, err := a.ReadInto(b, 3000)
	require.NoError(t, err)
	require.EqualValues(t, 3000, n)
	require.EqualValues(t, 1096, a.Len())
	require.EqualValues(t, 3000, b.Len())

	got, err := b.ReadByteString(3000)
	require.NoError(t, err)
	require.Equal(t, payload[:3000], got)

	rest, err := a.ReadByteString(1096)
	require.NoError(t, err)
	require.Equal(t, payload[3000:], rest)
}

func TestReadIntoMoreThanBufferedIsEOF(t *testing.T) {
	a, b := New(), New()
	a.Write([]byte("short"))
	_, err := a.ReadInto(b, 100)
	require.ErrorIs(t, err, errEOF)
}

func TestVisitBytesDoesNotConsume(t *testing.T) {
	b := New()
	b.Write([]byte("0123456789"))
	var collected []byte
	b.VisitBytes(2, 5, func(p []byte) {
		collected = append(collected, p...)
	})
	require.Equal(t, "23456", string(collected))
	require.EqualValues(t, 10, b.Len())
}

func TestReadFrontPartialWhenEmpty(t *testing.T) {
	b := New()
	buf := make([]byte, 16)
	require.Zero(t, b.ReadFront(buf))

	b.Write([]byte("hi"))
	n := b.ReadFront(buf)
	require.EqualValues(t, 2, n)
	require.Equal(t, "hi", string(buf[:n]))
}

func TestClearRecyclesSegments(t *testing.T) {
	b := New()
	b.Write(make([]byte, 3*segment.Size))
	b.Clear()
	require.Zero(t, b.Len())
	_, err := b.ReadByte()
	require.ErrorIs(t, err, errEOF)
}
