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

package inflate

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/iostream"
)

func deflate(t *testing.T, plain []byte) []byte {
	var out bytes.Buffer
	w, err := flate.NewWriter(&out, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.Bytes()
}

func TestInflaterSourceRoundTrip(t *testing.T) {
	plain := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)
	compressed := deflate(t, plain)

	src := New(iostream.NewStreamSource(bytes.NewReader(compressed)))
	dst := buf.New()
	for {
		_, err := src.Read(dst, 4096, iostream.NONE)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	got, err := dst.ReadByteString(dst.Len())
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func zlibDict(t *testing.T, dict, plain []byte) []byte {
	var out bytes.Buffer
	w, err := zlib.NewWriterLevelDict(&out, zlib.DefaultCompression, dict)
	require.NoError(t, err)
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.Bytes()
}

func TestInflaterSourceWithDictionary(t *testing.T) {
	dict := []byte("preset-dictionary-words-go-here")
	plain := []byte("words-go-here words-go-here preset-dictionary")
	compressed := zlibDict(t, dict, plain)

	src, err := NewWithDictionary(iostream.NewStreamSource(bytes.NewReader(compressed)), dict)
	require.NoError(t, err)

	dst := buf.New()
	for {
		_, err := src.Read(dst, 4096, iostream.NONE)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	got, err := dst.ReadByteString(dst.Len())
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestInflaterSourceWrongDictionaryFails(t *testing.T) {
	dict := []byte("right-dictionary")
	plain := bytes.Repeat([]byte("right-dictionary payload needs enough bytes to force a back-reference. "), 50)
	compressed := zlibDict(t, dict, plain)

	src, err := NewWithDictionary(iostream.NewStreamSource(bytes.NewReader(compressed)), []byte("wrong-dictionary"))
	require.NoError(t, err)

	dst := buf.New()
	var lastErr error
	for {
		_, err := src.Read(dst, 4096, iostream.NONE)
		if err != nil {
			lastErr = err
			break
		}
	}
	require.Error(t, lastErr)
	require.NotErrorIs(t, lastErr, io.EOF)
	var coreErr *iostream.CoreError
	require.ErrorAs(t, lastErr, &coreErr)
	require.Equal(t, iostream.KindMalformedInput, coreErr.Kind)
}
