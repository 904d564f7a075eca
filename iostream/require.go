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

// Seek returns the index of target in buffer, pulling more bytes from
// source into buffer until target turns up. It reads an unbounded number
// of bytes and returns a KindEOF CoreError wrapping io.EOF if source is
// exhausted first.
func Seek(buffer *buf.Buffer, target byte, source Source, deadline Deadline) (int64, error) {
	start := int64(0)
	for {
		if idx := buffer.IndexOf(target, start); idx != -1 {
			return idx, nil
		}
		start = buffer.Len()
		n, err := source.Read(buffer, segment.Size, deadline)
		if n == 0 && err == io.EOF {
			return 0, wrapErr(KindEOF, io.EOF, "seek: source exhausted before finding %q", target)
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
	}
}

// Require blocks until sink holds at least byteCount buffered bytes,
// pulling from source as needed. It returns a KindEOF CoreError wrapping
// io.EOF if source is exhausted first.
func Require(source Source, sink *buf.Buffer, byteCount int64, deadline Deadline) error {
	for sink.Len() < byteCount {
		n, err := source.Read(sink, segment.Size, deadline)
		if n == 0 && err == io.EOF {
			return wrapErr(KindEOF, io.EOF, "require: need %d bytes, source exhausted", byteCount)
		}
		if err != nil && err != io.EOF {
			return err
		}
	}
	return nil
}

// Skip reads and discards byteCount bytes from source, using buffer as
// scratch space. It returns a KindEOF CoreError wrapping io.EOF if source
// is exhausted first.
func Skip(source Source, buffer *buf.Buffer, byteCount int64, deadline Deadline) error {
	for byteCount > 0 {
		if buffer.Len() == 0 {
			n, err := source.Read(buffer, segment.Size, deadline)
			if n == 0 && err == io.EOF {
				return wrapErr(KindEOF, io.EOF, "skip: source exhausted with %d bytes left", byteCount)
			}
			if err != nil && err != io.EOF {
				return err
			}
		}
		toSkip := byteCount
		if toSkip > buffer.Len() {
			toSkip = buffer.Len()
		}
		if err := buffer.Skip(toSkip); err != nil {
			return err
		}
		byteCount -= toSkip
	}
	return nil
}
