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

import "fmt"

// Kind classifies the failures this module's Sources and Sinks can
// produce, so callers can branch on category without parsing messages.
type Kind int

const (
	// KindIO covers everything bubbled up from an underlying io.Reader,
	// io.Writer or net.Conn.
	KindIO Kind = iota
	// KindEOF marks an upstream source exhausted before satisfying a
	// required read.
	KindEOF
	// KindTimeout marks a Deadline that was reached mid-call.
	KindTimeout
	// KindMalformedInput marks data that violates a wire format this
	// module decodes (gzip framing, SPDY/3 header blocks, ...).
	KindMalformedInput
	// KindChecksumMismatch marks a checksum embedded in a stream that
	// didn't match the data it covers.
	KindChecksumMismatch
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindEOF:
		return "eof"
	case KindTimeout:
		return "timeout"
	case KindMalformedInput:
		return "malformed input"
	case KindChecksumMismatch:
		return "checksum mismatch"
	default:
		return "unknown"
	}
}

// CoreError is the single error type this module raises for stream
// decoding failures. Use errors.Is against the exported sentinels, or
// inspect Kind directly, to branch on failure category.
type CoreError struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *CoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transportio: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("transportio: %s: %s", e.Kind, e.Msg)
}

func (e *CoreError) Unwrap() error { return e.Err }

// Is makes CoreError comparable against the Kind-only sentinels below via
// errors.Is, independent of Msg/Err.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	return ok && t.Err == nil && t.Msg == "" && e.Kind == t.Kind
}

func newErr(kind Kind, format string, args ...interface{}) *CoreError {
	return &CoreError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, err error, format string, args ...interface{}) *CoreError {
	return &CoreError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Sentinels for errors.Is. They carry no message or cause; CoreError.Is
// matches any CoreError of the same Kind against them.
var (
	// ErrDeadlineExceeded is returned when a Deadline is reached before a
	// blocking call completes.
	ErrDeadlineExceeded = &CoreError{Kind: KindTimeout}
	// ErrMalformedInput is returned for data violating a wire format this
	// module decodes.
	ErrMalformedInput = &CoreError{Kind: KindMalformedInput}
	// ErrChecksumMismatch is returned when a decoded checksum doesn't
	// match the data it covers.
	ErrChecksumMismatch = &CoreError{Kind: KindChecksumMismatch}
)
