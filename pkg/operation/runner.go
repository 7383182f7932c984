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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Task is a unit of engine work.
type Task func(ctx context.Context) error

// 🏃 Runner executes tasks, optionally off the caller's goroutine
type Runner struct {
	async bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(async bool) *Runner {
	return &Runner{async: async}
}

// 🏃 Run executes task. An async run returns as soon as ctx is canceled; the
// task itself keeps running until it observes the cancellation.
func (r *Runner) Run(ctx context.Context, name string, task Task) error {
	zerolog.Ctx(ctx).Debug().Str("task", name).Bool("async", r.async).Msg("running task")
	if r.async {
		return r.runAsync(ctx, name, task)
	}
	return r.runSync(ctx, task)
}

// 🔄 runSync runs a task on the caller's goroutine
func (r *Runner) runSync(ctx context.Context, task Task) error {
	return task(ctx)
}

// ⚡ runAsync runs a task on its own goroutine
func (r *Runner) runAsync(ctx context.Context, name string, task Task) error {
	result := make(chan error, 1)
	go func() {
		result <- task(ctx)
	}()

	select {
	case err := <-result:
		if err != nil {
			return errors.Errorf("running %s: %w", name, err)
		}
		return nil
	case <-ctx.Done():
		// a result that raced the cancellation still wins
		select {
		case err := <-result:
			if err != nil {
				return errors.Errorf("running %s: %w", name, err)
			}
			return nil
		default:
		}
		return errors.Errorf("%s cancelled: %w", name, ctx.Err())
	}
}
