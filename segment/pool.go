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

package segment

import (
	"sync"

	"github.com/bytedance/gopkg/lang/mcache"
)

// defaultPoolMax is the spec's stated lower bound for the pool's byte
// budget: 64 segments.
const defaultPoolMax = 64 * Size

// Pool is a process-wide, thread-safe, bounded free-list of Segments. It is
// the only global mutable state in this module; it has no teardown and its
// contents are purely an allocation cache, safe to discard at any time.
type Pool struct {
	mu       sync.Mutex
	head     *Segment // singly-linked via Next; Prev is unused while pooled
	byteSize int
	max      int
}

var shared = &Pool{max: defaultPoolMax}

// Shared returns the process-wide SegmentPool.
func Shared() *Pool { return shared }

// SetPoolMax adjusts the shared pool's byte budget. It is safe to call
// concurrently with Take/Recycle. Segments already pooled when the cap is
// lowered stay in the pool until Take hands them out; while the pool holds
// more than the new cap, every Recycle drops its segment.
func SetPoolMax(max int) { shared.SetMax(max) }

// SetMax adjusts p's byte budget.
func (p *Pool) SetMax(max int) {
	p.mu.Lock()
	p.max = max
	p.mu.Unlock()
}

// Take returns a detached segment with Pos == Limit == 0. It pops the pool's
// head if non-empty, otherwise it allocates a fresh segment.
func (p *Pool) Take() *Segment {
	p.mu.Lock()
	s := p.head
	if s != nil {
		p.head = s.Next
		p.byteSize -= Size
		p.mu.Unlock()
		s.reset()
		return s
	}
	p.mu.Unlock()
	return newDetached()
}

// Recycle returns s to the pool if there is room for it, otherwise its
// backing array is released and s is dropped.
func (p *Pool) Recycle(s *Segment) {
	p.mu.Lock()
	if p.byteSize+Size > p.max {
		p.mu.Unlock()
		mcache.Free(s.Data)
		return
	}
	s.Pos, s.Limit = 0, 0
	s.Prev = nil
	s.Next = p.head
	p.head = s
	p.byteSize += Size
	p.mu.Unlock()
}

// Take is shorthand for Shared().Take().
func Take() *Segment { return shared.Take() }

// Recycle is shorthand for Shared().Recycle(s).
func Recycle(s *Segment) { shared.Recycle(s) }
