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

// Package inflate implements a Source that decompresses DEFLATE data
// pulled from an upstream Source. The compressed bytes it hasn't yet
// consumed live in an ordinary buf.Buffer shared with the decompressor,
// so "how many compressed bytes are still unread" is always just that
// Buffer's length rather than separate bookkeeping.
package inflate

import (
	"compress/flate"
	"compress/zlib"
	"io"

	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/iostream"
	"github.com/wirepath/transportio/segment"
)

var _ iostream.Source = (*InflaterSource)(nil)

// InflaterSource decompresses bytes pulled from an upstream Source.
type InflaterSource struct {
	upstream   iostream.Source
	compressed *buf.Buffer
	window     *windowReader
	reader     io.ReadCloser
	open       func() (io.ReadCloser, error)
	scratch    []byte
}

// windowReader is the io.Reader (and io.ByteReader) flate/zlib pulls
// compressed input from. It drains whatever's already sitting in the
// shared compressed Buffer, and refills that Buffer from upstream one
// segment at a time when it runs dry. Bytes the decompressor never asked
// for stay physically in the Buffer, satisfying "unconsumed input equals
// what the Buffer still holds" by construction.
//
// Implementing ReadByte matters: without it, flate/zlib wrap this reader
// in a bufio.Reader, whose first ReadByte call greedily fills bufio's own
// 4KiB private buffer -- silently draining the shared Buffer (and pulling
// further bytes from upstream) far past the end of the compressed stream,
// into bufio's private storage where neither the trailer parser (gzip)
// nor the residue drain (spdy3) can see them.
type windowReader struct {
	buffer   *buf.Buffer
	upstream iostream.Source
	deadline iostream.Deadline
}

var _ io.ByteReader = (*windowReader)(nil)

func (w *windowReader) fill() error {
	if w.buffer.Len() > 0 {
		return nil
	}
	n, err := w.upstream.Read(w.buffer, segment.Size, w.deadline)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return err
	}
	return nil
}

func (w *windowReader) Read(p []byte) (int, error) {
	if err := w.fill(); err != nil {
		return 0, err
	}
	return w.buffer.ReadFront(p), nil
}

func (w *windowReader) ReadByte() (byte, error) {
	if err := w.fill(); err != nil {
		return 0, err
	}
	return w.buffer.ReadByte()
}

// New returns an InflaterSource with no preset dictionary, for plain
// DEFLATE streams (as used by gzip bodies). Its compressed-byte window is
// private to it.
func New(upstream iostream.Source) *InflaterSource {
	return NewSharingWindow(upstream, buf.New())
}

// NewSharingWindow is New, but lets the caller supply the compressed-byte
// window instead of a private one. A caller that also needs to read
// framing bytes immediately before and after the DEFLATE stream (gzipsource
// reading its header and trailer) passes the same Buffer it uses for that
// framing, so bytes read too eagerly by one side are still there for the
// other: the upstream Source's unread compressed byte count is always
// exactly window.Len(), regardless of which side last touched it.
func NewSharingWindow(upstream iostream.Source, window *buf.Buffer) *InflaterSource {
	w := &windowReader{buffer: window, upstream: upstream}
	return &InflaterSource{
		upstream:   upstream,
		compressed: window,
		window:     w,
		reader:     flate.NewReader(w),
		scratch:    make([]byte, segment.Size),
	}
}

// NewWithDictionary returns an InflaterSource that decompresses a zlib
// stream (RFC 1950) seeded with the given preset dictionary, as SPDY/3
// header blocks do. Construction of the underlying zlib reader is
// deferred to the first Read: zlib.NewReaderDict reads the 2-byte zlib
// header (and, if present, the dictionary's Adler-32 check) immediately,
// and a caller that throttles how many compressed bytes are available
// (spdy3's per-block byte budget) hasn't set that budget yet at
// construction time -- building the reader eagerly would see zero bytes
// available and fail before a single block is ever read.
func NewWithDictionary(upstream iostream.Source, dict []byte) (*InflaterSource, error) {
	return NewWithDictionarySharingWindow(upstream, buf.New(), dict)
}

// NewWithDictionarySharingWindow is NewWithDictionary, but lets the caller
// supply the compressed-byte window; see NewSharingWindow.
func NewWithDictionarySharingWindow(upstream iostream.Source, window *buf.Buffer, dict []byte) (*InflaterSource, error) {
	w := &windowReader{buffer: window, upstream: upstream}
	return &InflaterSource{
		upstream:   upstream,
		compressed: window,
		window:     w,
		open:       func() (io.ReadCloser, error) { return zlib.NewReaderDict(w, dict) },
		scratch:    make([]byte, segment.Size),
	}, nil
}

// Read decompresses into dst and returns how many plaintext bytes were
// appended.
func (s *InflaterSource) Read(dst *buf.Buffer, maxBytes int64, deadline iostream.Deadline) (int64, error) {
	if err := deadline.ThrowIfReached(); err != nil {
		return 0, err
	}
	s.window.deadline = deadline
	if s.reader == nil {
		r, err := s.open()
		if err != nil {
			return 0, wrapMalformed(err)
		}
		s.reader = r
	}
	chunk := maxBytes
	if chunk > int64(len(s.scratch)) {
		chunk = int64(len(s.scratch))
	}
	n, err := s.reader.Read(s.scratch[:chunk])
	if n > 0 {
		dst.Write(s.scratch[:n])
	}
	if err != nil {
		if err == io.EOF {
			return int64(n), io.EOF
		}
		return int64(n), wrapMalformed(err)
	}
	return int64(n), nil
}

// Close closes the decompressor and the upstream Source. If Read was
// never called (and so the dictionary reader was never opened), only the
// upstream Source is closed.
func (s *InflaterSource) Close() error {
	var err error
	if s.reader != nil {
		err = s.reader.Close()
	}
	if cerr := s.upstream.Close(); err == nil {
		err = cerr
	}
	return err
}

func wrapMalformed(err error) error {
	return &iostream.CoreError{Kind: iostream.KindMalformedInput, Msg: "inflate failed", Err: err}
}
