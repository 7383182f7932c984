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

package status_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/twinpane/pkg/status"
)

type tick struct{ done, total int }

type recorder struct {
	mu    sync.Mutex
	ticks []tick
}

func (r *recorder) sink(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, tick{done, total})
}

// 🧪 TestTrackerSequence tests the tick sequence of one operation
func TestTrackerSequence(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())
	rec := &recorder{}

	tr := status.NewTracker(rec.sink, nil)
	tr.Advance(ctx, 1) // before start: ignored
	tr.Start(ctx, 3)
	tr.Advance(ctx, 1)
	tr.Advance(ctx, 5) // clamped
	tr.Advance(ctx, 0) // ignored
	tr.Finish(ctx)
	tr.Finish(ctx) // already finished: ignored

	assert.Equal(t, []tick{{0, 3}, {1, 3}, {3, 3}, {3, 3}}, rec.ticks)
}

// 🧪 TestTrackerFinishWithSkippedUnits tests that the last tick always reaches the total
func TestTrackerFinishWithSkippedUnits(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}

	tr := status.NewTracker(rec.sink, status.NewDefaultFormatter())
	tr.Start(ctx, 10)
	tr.Advance(ctx, 4)
	tr.Finish(ctx)

	last := rec.ticks[len(rec.ticks)-1]
	assert.Equal(t, tick{10, 10}, last)
	done, total := tr.Snapshot()
	assert.Equal(t, 10, done)
	assert.Equal(t, 10, total)
}

// 🧪 TestTrackerConcurrentAdvance tests monotonic ticks under concurrent workers
func TestTrackerConcurrentAdvance(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	tr := status.NewTracker(rec.sink, nil)
	tr.Start(ctx, 100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Advance(ctx, 1)
		}()
	}
	wg.Wait()
	tr.Finish(ctx)

	prev := -1
	for _, tk := range rec.ticks {
		assert.GreaterOrEqual(t, tk.done, prev)
		assert.LessOrEqual(t, tk.done, tk.total)
		prev = tk.done
	}
	assert.Len(t, rec.ticks, 102)
}

// 🧪 TestTrackerNilSink tests that a tracker without a sink still counts
func TestTrackerNilSink(t *testing.T) {
	tr := status.NewTracker(nil, nil)
	tr.Start(context.Background(), 2)
	tr.Advance(context.Background(), 1)
	done, _ := tr.Snapshot()
	assert.Equal(t, 1, done)
}
