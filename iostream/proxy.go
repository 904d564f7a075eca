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
	"net"

	"github.com/wirepath/transportio/buf"
)

// ConnProxy copies bytes from src to dst until src is exhausted or an
// error occurs. On Linux, when both ends are *net.TCPConn or
// *net.UnixConn, it tries trySplice first so the bytes never cross
// into userspace; anything that can't take that path (the kernel lacking
// splice support, or either end being some other net.Conn) falls back to
// the ordinary Source/Sink copy loop through scratch.
func ConnProxy(dst, src net.Conn, scratch *buf.Buffer) (int64, error) {
	if n, ok, err := trySplice(dst, src); ok {
		return n, err
	}
	return copyThroughBuffer(NewConnSink(dst), NewConnSource(src), scratch)
}

func copyThroughBuffer(sink Sink, source Source, scratch *buf.Buffer) (int64, error) {
	var total int64
	for {
		n, err := source.Read(scratch, 65536, NONE)
		if n > 0 {
			if werr := sink.Write(scratch, n, NONE); werr != nil {
				return total, werr
			}
			total += n
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}
