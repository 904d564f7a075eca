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
)

// Source is a producer of bytes: a pull-based handle that appends whatever
// it can to dst. There is no implicit background goroutine and no async
// cancellation; the only way to bound how long a call may block is
// Deadline.
type Source interface {
	// Read appends up to maxBytes bytes to dst and returns how many were
	// appended. It returns (0, io.EOF) when exhausted.
	Read(dst *buf.Buffer, maxBytes int64, deadline Deadline) (int64, error)
	io.Closer
}

// Sink is a consumer of bytes: a push-based handle that drains bytes out
// of src.
type Sink interface {
	// Write removes byteCount bytes from src and transmits them.
	Write(src *buf.Buffer, byteCount int64, deadline Deadline) error
	io.Closer
}

// streamSource adapts an io.Reader to Source.
type streamSource struct {
	r   io.Reader
	tmp []byte
}

// NewStreamSource wraps r as a Source. Deadlines are checked once, on
// entry to each Read, before r is called: plain io.Reader has no native
// deadline support, so a call already blocked inside r is not interrupted
// when the Deadline passes. For net.Conn-backed sources, NewConnSource
// applies the Deadline through SetReadDeadline instead.
func NewStreamSource(r io.Reader) Source {
	return &streamSource{r: r}
}

func (s *streamSource) Read(dst *buf.Buffer, maxBytes int64, deadline Deadline) (int64, error) {
	if err := deadline.ThrowIfReached(); err != nil {
		return 0, err
	}
	if maxBytes <= 0 {
		return 0, nil
	}
	if int64(len(s.tmp)) < maxBytes && len(s.tmp) < 65536 {
		size := maxBytes
		if size > 65536 {
			size = 65536
		}
		s.tmp = make([]byte, size)
	}
	n, err := s.r.Read(s.tmp[:min64(maxBytes, int64(len(s.tmp)))])
	if n > 0 {
		dst.Write(s.tmp[:n])
	}
	if err != nil {
		if err == io.EOF {
			return int64(n), io.EOF
		}
		return int64(n), wrapErr(KindIO, err, "stream source read failed")
	}
	return int64(n), nil
}

func (s *streamSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// streamSink adapts an io.Writer to Sink.
type streamSink struct {
	w io.Writer
}

// NewStreamSink wraps w as a Sink.
func NewStreamSink(w io.Writer) Sink {
	return &streamSink{w: w}
}

func (s *streamSink) Write(src *buf.Buffer, byteCount int64, deadline Deadline) error {
	for byteCount > 0 {
		if err := deadline.ThrowIfReached(); err != nil {
			return err
		}
		chunk := byteCount
		if chunk > 65536 {
			chunk = 65536
		}
		var writeErr error
		src.VisitBytes(0, chunk, func(p []byte) {
			if writeErr != nil {
				return
			}
			if _, err := s.w.Write(p); err != nil {
				writeErr = err
			}
		})
		if writeErr != nil {
			return wrapErr(KindIO, writeErr, "stream sink write failed")
		}
		if err := src.Skip(chunk); err != nil {
			return wrapErr(KindIO, err, "short buffer in sink write")
		}
		byteCount -= chunk
	}
	return nil
}

func (s *streamSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
