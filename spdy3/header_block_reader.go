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

// Package spdy3 decodes SPDY/3 Name/Value header blocks: a zlib-deflated,
// dictionary-seeded run of length-prefixed name/value pairs embedded in a
// SYN_STREAM/SYN_REPLY/HEADERS frame.
package spdy3

import (
	"fmt"
	"io"

	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/inflate"
	"github.com/wirepath/transportio/iostream"
	"github.com/wirepath/transportio/segment"
)

// maxPairs bounds how many name/value pairs a single header block may
// declare, guarding against a hostile peer claiming an enormous count to
// force an oversized allocation.
const maxPairs = 1024

// Header is one decoded name/value pair. Name has already been lowercased;
// Value is exactly the bytes the peer sent.
type Header struct {
	Name  []byte
	Value []byte
}

// throttleSource limits reads to the bytes declared for the current
// header block, pulling first from any bytes the frame parser already
// buffered (sourceBuffer) and only then from the raw connection source.
// It returns io.EOF once limit reaches zero, regardless of whether the
// underlying source has more data -- that data belongs to the next frame,
// not this header block.
type throttleSource struct {
	sourceBuffer *buf.Buffer
	source       iostream.Source
	limit        int64
}

func (t *throttleSource) Read(dst *buf.Buffer, maxBytes int64, deadline iostream.Deadline) (int64, error) {
	if t.limit == 0 {
		return 0, io.EOF
	}
	if maxBytes > t.limit {
		maxBytes = t.limit
	}
	var n int64
	var err error
	if t.sourceBuffer.Len() > 0 {
		if maxBytes > t.sourceBuffer.Len() {
			maxBytes = t.sourceBuffer.Len()
		}
		n, err = t.sourceBuffer.ReadInto(dst, maxBytes)
	} else {
		n, err = t.source.Read(dst, maxBytes, deadline)
	}
	t.limit -= n
	return n, err
}

func (t *throttleSource) Close() error { return t.source.Close() }

// HeaderBlockReader decodes the Name/Value blocks of a single SPDY/3
// connection. Every frame's header block shares the same Inflater (and
// therefore the same Dictionary-seeded compression history), so a
// HeaderBlockReader must be reused across frames on one connection rather
// than recreated per frame.
type HeaderBlockReader struct {
	throttle *throttleSource
	inflater *inflate.InflaterSource
	inflated *buf.Buffer
}

// NewHeaderBlockReader returns a HeaderBlockReader. sourceBuffer is the
// connection parser's own buffer: any bytes it has already pulled from
// source but not yet handed to this reader are drained from there first.
func NewHeaderBlockReader(sourceBuffer *buf.Buffer, source iostream.Source) (*HeaderBlockReader, error) {
	throttle := &throttleSource{sourceBuffer: sourceBuffer, source: source}
	inflater, err := inflate.NewWithDictionary(throttle, Dictionary)
	if err != nil {
		return nil, err
	}
	return &HeaderBlockReader{
		throttle: throttle,
		inflater: inflater,
		inflated: buf.New(),
	}, nil
}

// ReadHeaderBlock decodes the length-byte compressed Name/Value block that
// follows in the frame, returning its pairs in wire order.
func (h *HeaderBlockReader) ReadHeaderBlock(length int64, deadline iostream.Deadline) ([]Header, error) {
	h.throttle.limit += length

	if err := iostream.Require(h.inflater, h.inflated, 4, deadline); err != nil {
		return nil, err
	}
	count, err := h.inflated.ReadInt()
	if err != nil {
		return nil, err
	}
	numPairs := int64(count)
	if numPairs < 0 {
		return nil, malformed("numberOfPairs < 0: %d", numPairs)
	}
	if numPairs > maxPairs {
		return nil, malformed("numberOfPairs > %d: %d", maxPairs, numPairs)
	}

	entries := make([]Header, 0, numPairs)
	for i := int64(0); i < numPairs; i++ {
		name, err := h.readByteString(deadline)
		if err != nil {
			return nil, err
		}
		name = iostream.ToAsciiLowercase(name)
		value, err := h.readByteString(deadline)
		if err != nil {
			return nil, err
		}
		if len(name) == 0 {
			return nil, malformed("name.size == 0")
		}
		entries = append(entries, Header{Name: name, Value: value})
	}

	if err := h.doneReading(deadline); err != nil {
		return nil, err
	}
	return entries, nil
}

func (h *HeaderBlockReader) readByteString(deadline iostream.Deadline) ([]byte, error) {
	if err := iostream.Require(h.inflater, h.inflated, 4, deadline); err != nil {
		return nil, err
	}
	n, err := h.inflated.ReadInt()
	if err != nil {
		return nil, err
	}
	length := int64(n)
	if length < 0 {
		return nil, malformed("byteString length < 0: %d", length)
	}
	if err := iostream.Require(h.inflater, h.inflated, length, deadline); err != nil {
		return nil, err
	}
	return h.inflated.ReadByteString(length)
}

// doneReading drains any compressed bytes declared for this block but not
// yet pulled into the inflater -- deflate's sync-flush framing can leave a
// few trailing bytes per block that aren't needed to produce output, but
// still must be consumed before the next block starts.
func (h *HeaderBlockReader) doneReading(deadline iostream.Deadline) error {
	if h.throttle.limit > 0 {
		_, err := h.inflater.Read(h.inflated, segment.Size, deadline)
		if err != nil && err != io.EOF {
			return err
		}
		if h.throttle.limit != 0 {
			return malformed("compressedLimit > 0: %d", h.throttle.limit)
		}
	}
	return nil
}

// Close closes the underlying Inflater and connection source.
func (h *HeaderBlockReader) Close() error { return h.inflater.Close() }

func malformed(format string, args ...interface{}) error {
	return &iostream.CoreError{Kind: iostream.KindMalformedInput, Msg: fmt.Sprintf(format, args...)}
}
