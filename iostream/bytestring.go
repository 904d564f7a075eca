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

import "github.com/wirepath/transportio/buf"

// ReadFromStream pulls exactly n bytes of payload out of source into an
// immutable byte slice, blocking on more Source.Read calls as needed.
func ReadFromStream(source Source, scratch *buf.Buffer, n int64, deadline Deadline) ([]byte, error) {
	if err := Require(source, scratch, n, deadline); err != nil {
		return nil, err
	}
	return scratch.ReadByteString(n)
}

// ReadLowercaseFromStream is ReadFromStream followed by ToAsciiLowercase.
// SPDY/3 header names are matched case-insensitively but stored lowercase;
// this is the read side of that normalization.
func ReadLowercaseFromStream(source Source, scratch *buf.Buffer, n int64, deadline Deadline) ([]byte, error) {
	raw, err := ReadFromStream(source, scratch, n, deadline)
	if err != nil {
		return nil, err
	}
	return ToAsciiLowercase(raw), nil
}

// ToAsciiLowercase returns b with every ASCII uppercase byte lowered.
// If no byte needs changing, the input slice is returned unmodified and
// unaliased-copy-free; otherwise a fresh copy is made so the original is
// left untouched.
func ToAsciiLowercase(b []byte) []byte {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			out := make([]byte, len(b))
			copy(out, b)
			for j := i; j < len(out); j++ {
				if out[j] >= 'A' && out[j] <= 'Z' {
					out[j] += 'a' - 'A'
				}
			}
			return out
		}
	}
	return b
}
