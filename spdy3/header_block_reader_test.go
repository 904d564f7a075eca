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

package spdy3

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/iostream"
)

// rawPairs builds the pre-compression bytes of a Name/Value block: a
// 4-byte pair count followed by length-prefixed name/value pairs.
func rawPairs(pairs [][2]string) []byte {
	var raw bytes.Buffer
	binary.Write(&raw, binary.BigEndian, int32(len(pairs)))
	for _, p := range pairs {
		for _, s := range p {
			binary.Write(&raw, binary.BigEndian, int32(len(s)))
			raw.WriteString(s)
		}
	}
	return raw.Bytes()
}

// encodeBlock deflates a Name/Value block as a zlib stream seeded with
// the SPDY/3 preset dictionary, matching the real wire format.
func encodeBlock(t *testing.T, pairs [][2]string) []byte {
	var compressed bytes.Buffer
	w, err := zlib.NewWriterLevelDict(&compressed, zlib.DefaultCompression, Dictionary)
	require.NoError(t, err)
	_, err = w.Write(rawPairs(pairs))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return compressed.Bytes()
}

func TestHeaderBlockReaderDecodesPairs(t *testing.T) {
	block := encodeBlock(t, [][2]string{
		{"Content-Type", "text/html"},
		{":status", "200"},
	})

	source := iostream.NewStreamSource(bytes.NewReader(block))
	r, err := NewHeaderBlockReader(buf.New(), source)
	require.NoError(t, err)

	headers, err := r.ReadHeaderBlock(int64(len(block)), iostream.NONE)
	require.NoError(t, err)
	require.Len(t, headers, 2)
	require.Equal(t, "content-type", string(headers[0].Name))
	require.Equal(t, "text/html", string(headers[0].Value))
	require.Equal(t, ":status", string(headers[1].Name))
	require.Equal(t, "200", string(headers[1].Value))
}

func TestHeaderBlockReaderRejectsEmptyName(t *testing.T) {
	block := encodeBlock(t, [][2]string{{"", "value"}})
	source := iostream.NewStreamSource(bytes.NewReader(block))
	r, err := NewHeaderBlockReader(buf.New(), source)
	require.NoError(t, err)

	_, err = r.ReadHeaderBlock(int64(len(block)), iostream.NONE)
	require.Error(t, err)
	var coreErr *iostream.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, iostream.KindMalformedInput, coreErr.Kind)
}

func TestHeaderBlockReaderRejectsTooManyPairs(t *testing.T) {
	var compressed bytes.Buffer
	w, err := zlib.NewWriterLevelDict(&compressed, zlib.DefaultCompression, Dictionary)
	require.NoError(t, err)
	var raw bytes.Buffer
	require.NoError(t, binary.Write(&raw, binary.BigEndian, int32(maxPairs+1)))
	_, err = w.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	block := compressed.Bytes()

	source := iostream.NewStreamSource(bytes.NewReader(block))
	r, err := NewHeaderBlockReader(buf.New(), source)
	require.NoError(t, err)

	_, err = r.ReadHeaderBlock(int64(len(block)), iostream.NONE)
	require.Error(t, err)
	var coreErr *iostream.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, iostream.KindMalformedInput, coreErr.Kind)
}

func TestHeaderBlockReaderResidueNotFullyDeclaredFails(t *testing.T) {
	block := encodeBlock(t, [][2]string{{"a", "1"}})

	// Declare a block length longer than the source actually has: once
	// the pairs are decoded, doneReading tries to drain the rest of the
	// declared length and hits a genuine end of source with bytes still
	// owed, which must surface as malformed input rather than being
	// silently ignored.
	source := iostream.NewStreamSource(bytes.NewReader(block))
	r, err := NewHeaderBlockReader(buf.New(), source)
	require.NoError(t, err)

	_, err = r.ReadHeaderBlock(int64(len(block))+16, iostream.NONE)
	require.Error(t, err)
	var coreErr *iostream.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, iostream.KindMalformedInput, coreErr.Kind)
}

func TestHeaderBlockReaderDrainsPreBufferedBytes(t *testing.T) {
	block := encodeBlock(t, [][2]string{{"x-test", "value"}})

	// Split the block so that some of it is already sitting in the frame
	// parser's buffer (as it would be after reading a frame header that
	// happened to pull in part of the body too) and the rest still has to
	// come from the raw source.
	split := len(block) / 2
	sourceBuffer := buf.New()
	sourceBuffer.Write(block[:split])
	source := iostream.NewStreamSource(bytes.NewReader(block[split:]))

	r, err := NewHeaderBlockReader(sourceBuffer, source)
	require.NoError(t, err)
	headers, err := r.ReadHeaderBlock(int64(len(block)), iostream.NONE)
	require.NoError(t, err)
	require.Len(t, headers, 1)
	require.Equal(t, "x-test", string(headers[0].Name))
	require.Equal(t, "value", string(headers[0].Value))
}
