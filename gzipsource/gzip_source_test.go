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

package gzipsource

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/iostream"
)

func gzipBytes(t *testing.T, configure func(*gzip.Writer), plain []byte) []byte {
	var out bytes.Buffer
	w, err := gzip.NewWriterLevel(&out, gzip.BestCompression)
	require.NoError(t, err)
	if configure != nil {
		configure(w)
	}
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.Bytes()
}

func decodeAll(t *testing.T, raw []byte) []byte {
	g := New(iostream.NewStreamSource(bytes.NewReader(raw)))
	dst := buf.New()
	for {
		_, err := g.Read(dst, 4096, iostream.NONE)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	out, err := dst.ReadByteString(dst.Len())
	require.NoError(t, err)
	return out
}

func TestGzipSourcePlainRoundTrip(t *testing.T) {
	plain := bytes.Repeat([]byte("gzip framing round trip. "), 500)
	raw := gzipBytes(t, nil, plain)
	require.Equal(t, plain, decodeAll(t, raw))
}

func TestGzipSourceWithNameAndComment(t *testing.T) {
	plain := []byte("short payload")
	raw := gzipBytes(t, func(w *gzip.Writer) {
		w.Name = "example.txt"
		w.Comment = "a test file"
	}, plain)
	require.Equal(t, plain, decodeAll(t, raw))
}

func TestGzipSourceWithExtraHeaderField(t *testing.T) {
	plain := []byte("payload with an extra field in the header")
	raw := gzipBytes(t, func(w *gzip.Writer) {
		w.Extra = []byte("vendor-specific-extra-data")
	}, plain)
	require.Equal(t, plain, decodeAll(t, raw))
}

func TestGzipSourceCorruptTrailerFails(t *testing.T) {
	plain := []byte("data whose trailer we're about to corrupt")
	raw := gzipBytes(t, nil, plain)
	// Invert one byte of the CRC32 trailer (last 8 bytes are CRC32+ISIZE).
	raw[len(raw)-5] ^= 0xff

	g := New(iostream.NewStreamSource(bytes.NewReader(raw)))
	dst := buf.New()
	var lastErr error
	for {
		_, err := g.Read(dst, 4096, iostream.NONE)
		if err != nil {
			lastErr = err
			break
		}
	}
	require.Error(t, lastErr)
	var coreErr *iostream.CoreError
	require.ErrorAs(t, lastErr, &coreErr)
	require.Equal(t, iostream.KindChecksumMismatch, coreErr.Kind)
}

func TestGzipSourceBadMagicFails(t *testing.T) {
	g := New(iostream.NewStreamSource(bytes.NewReader([]byte{0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0})))
	dst := buf.New()
	_, err := g.Read(dst, 4096, iostream.NONE)
	require.Error(t, err)
	var coreErr *iostream.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, iostream.KindMalformedInput, coreErr.Kind)
}
