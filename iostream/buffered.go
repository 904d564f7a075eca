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

package iostream

import (
	"io"

	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/segment"
)

// BufferedSource is an io.Reader view of a Source, refilling from it one
// segment at a time whenever its internal buffer runs dry. It may read
// more from source than a given Read call needs.
type BufferedSource struct {
	source Source
	buffer *buf.Buffer
}

// NewBufferedSource returns a BufferedSource reading from source.
func NewBufferedSource(source Source) *BufferedSource {
	return &BufferedSource{source: source, buffer: buf.New()}
}

func (r *BufferedSource) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.buffer.Len() == 0 {
		n, err := r.source.Read(r.buffer, segment.Size, NONE)
		if n == 0 && err != nil {
			return 0, err
		}
	}
	return r.buffer.ReadFront(p), nil
}

// Buffered returns the number of bytes currently held without reading
// from the underlying Source.
func (r *BufferedSource) Buffered() int64 { return r.buffer.Len() }

// Close closes the underlying Source.
func (r *BufferedSource) Close() error { return r.source.Close() }

// BufferedSink is an io.Writer view of a Sink. It accumulates up to one
// segment of data before flushing to the underlying Sink, so short writes
// don't each incur a full Sink.Write call.
type BufferedSink struct {
	sink   Sink
	buffer *buf.Buffer
}

// NewBufferedSink returns a BufferedSink writing to sink.
func NewBufferedSink(sink Sink) *BufferedSink {
	return &BufferedSink{sink: sink, buffer: buf.New()}
}

func (w *BufferedSink) Write(p []byte) (int, error) {
	off := 0
	for off < len(p) {
		tail := p[off:]
		n, _ := w.buffer.Write(tail[:min(len(tail), segment.Size)])
		off += n
		if w.buffer.Len() >= segment.Size {
			if err := w.flushFullSegments(); err != nil {
				return off, err
			}
		}
	}
	return off, nil
}

func (w *BufferedSink) flushFullSegments() error {
	n := (w.buffer.Len() / segment.Size) * segment.Size
	if n == 0 {
		return nil
	}
	return w.sink.Write(w.buffer, n, NONE)
}

// Flush drains any buffered bytes to the underlying Sink.
func (w *BufferedSink) Flush() error {
	if w.buffer.Len() == 0 {
		return nil
	}
	return w.sink.Write(w.buffer, w.buffer.Len(), NONE)
}

// Close flushes remaining bytes and closes the underlying Sink.
func (w *BufferedSink) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	return w.sink.Close()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var _ io.Reader = (*BufferedSource)(nil)
var _ io.Writer = (*BufferedSink)(nil)
