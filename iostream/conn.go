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
	"net"
	"time"

	"github.com/wirepath/transportio/buf"
)

// deadlineTime returns the time.Time to hand to SetReadDeadline /
// SetWriteDeadline for d, or the zero time (meaning "no deadline") for
// NONE.
func deadlineTime(d Deadline) time.Time {
	if !d.HasDeadline() {
		return time.Time{}
	}
	return d.Time()
}

// connSource adapts a net.Conn to Source, honoring Deadline via the
// connection's native SetReadDeadline instead of a timer goroutine.
type connSource struct {
	conn  net.Conn
	inner Source
}

// NewConnSource wraps conn as a deadline-aware Source.
func NewConnSource(conn net.Conn) Source {
	return &connSource{conn: conn, inner: NewStreamSource(conn)}
}

func (s *connSource) Read(dst *buf.Buffer, maxBytes int64, deadline Deadline) (int64, error) {
	if err := s.conn.SetReadDeadline(deadlineTime(deadline)); err != nil {
		return 0, wrapErr(KindIO, err, "set read deadline")
	}
	return s.inner.Read(dst, maxBytes, NONE)
}

func (s *connSource) Close() error { return s.conn.Close() }

// connSink adapts a net.Conn to Sink, honoring Deadline via the
// connection's native SetWriteDeadline.
type connSink struct {
	conn  net.Conn
	inner Sink
}

// NewConnSink wraps conn as a deadline-aware Sink.
func NewConnSink(conn net.Conn) Sink {
	return &connSink{conn: conn, inner: NewStreamSink(conn)}
}

func (s *connSink) Write(src *buf.Buffer, byteCount int64, deadline Deadline) error {
	if err := s.conn.SetWriteDeadline(deadlineTime(deadline)); err != nil {
		return wrapErr(KindIO, err, "set write deadline")
	}
	return s.inner.Write(src, byteCount, NONE)
}

func (s *connSink) Close() error { return s.conn.Close() }
