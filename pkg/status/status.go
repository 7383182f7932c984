// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Sink receives progress ticks.
type Sink func(done, total int)

// 📊 Tracker counts progress of one operation at a time
type Tracker struct {
	mu        sync.Mutex
	total     int
	done      int
	started   bool
	sink      Sink
	formatter Formatter
}

// 🏭 NewTracker creates a tracker that reports to sink. Both arguments may be nil.
func NewTracker(sink Sink, formatter Formatter) *Tracker {
	if formatter == nil {
		formatter = NewDefaultFormatter()
	}
	return &Tracker{sink: sink, formatter: formatter}
}

// ▶️ Start resets the tracker for an operation of total units and emits a 0 tick
func (t *Tracker) Start(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if total < 0 {
		total = 0
	}
	t.total = total
	t.done = 0
	t.started = true
	t.emitLocked(ctx)
}

// ⏩ Advance adds n finished units, holding at the total
func (t *Tracker) Advance(ctx context.Context, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || n <= 0 {
		return
	}
	t.done = min(t.done+n, t.total)
	t.emitLocked(ctx)
}

// ✅ Finish emits the final tick with done == total
func (t *Tracker) Finish(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}
	t.done = t.total
	t.emitLocked(ctx)
	t.started = false
}

// Snapshot returns the last reported counts.
func (t *Tracker) Snapshot() (done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done, t.total
}

func (t *Tracker) emitLocked(ctx context.Context) {
	zerolog.Ctx(ctx).Debug().
		Int("done", t.done).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.done, t.total))

	if t.sink != nil {
		t.sink(t.done, t.total)
	}
}
