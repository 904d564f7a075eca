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

//go:build linux

package iostream

import (
	"io"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// spliceChunk bounds a single splice(2) call so one huge transfer doesn't
// monopolize the intermediate pipe's buffer.
const spliceChunk = 1 << 20

// trySplice attempts a kernel-level, userspace-bypassing copy from src to
// dst using splice(2) through an intermediate pipe. ok is false whenever
// the fast path doesn't apply (conn types with no raw fd access) or
// isn't supported by the running kernel, signaling the caller to fall
// back to the ordinary Source/Sink copy loop.
func trySplice(dst, src net.Conn) (n int64, ok bool, err error) {
	srcFd, srcOK := rawFd(src)
	dstFd, dstOK := rawFd(dst)
	if !srcOK || !dstOK {
		return 0, false, nil
	}

	pr, pw, perr := os.Pipe()
	if perr != nil {
		return 0, false, nil
	}
	defer pr.Close()
	defer pw.Close()
	prFd, pwFd := int(pr.Fd()), int(pw.Fd())

	var total int64
	for {
		in, serr := unix.Splice(srcFd, nil, pwFd, nil, spliceChunk, unix.SPLICE_F_MOVE)
		if serr != nil {
			if serr == syscall.EINTR || serr == syscall.EAGAIN {
				continue
			}
			if serr == syscall.ENOSYS || serr == syscall.EINVAL {
				// Kernel or conn type doesn't support splice; let the
				// caller retry with the userspace fallback. Report
				// whatever we already moved as having gone through this
				// path so the byte count is never double-counted.
				return total, total > 0, serr
			}
			return total, true, serr
		}
		if in == 0 {
			return total, true, nil
		}
		var drained int64
		for drained < in {
			out, oerr := unix.Splice(prFd, nil, dstFd, nil, int(in-drained), unix.SPLICE_F_MOVE)
			if oerr != nil {
				if oerr == syscall.EINTR || oerr == syscall.EAGAIN {
					continue
				}
				return total, true, oerr
			}
			if out == 0 {
				return total, true, io.ErrShortWrite
			}
			drained += out
		}
		total += in
	}
}

// rawFd extracts the raw file descriptor backing conn, for the net.Conn
// implementations (TCP and Unix sockets) that expose one via
// syscall.Conn. splice(2) needs a real fd, so anything else reports ok
// == false and the caller falls back to the userspace copy loop.
func rawFd(conn net.Conn) (fd int, ok bool) {
	sc, isSyscallConn := conn.(syscall.Conn)
	if !isSyscallConn {
		return 0, false
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, false
	}
	var ctrlErr error
	if err := raw.Control(func(f uintptr) { fd = int(f) }); err != nil {
		ctrlErr = err
	}
	return fd, ctrlErr == nil
}
