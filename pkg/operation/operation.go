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
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/conflict"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/metrics"
	"github.com/walteh/twinpane/pkg/staging"
	"github.com/walteh/twinpane/pkg/text"
	"github.com/walteh/twinpane/pkg/treecopy"
	"gitlab.com/tozd/go/errors"
)

// 🖥️ Host is the user interface the engine talks to. Prompts return an
// error of kind CanceledByUser when the user dismisses them.
type Host interface {
	SelectAction(ctx context.Context) (Action, error)
	// PromptParallelism returns the raw text typed for the thread count
	PromptParallelism(ctx context.Context, action Action) (string, error)
	PromptFilterPattern(ctx context.Context, action Action) (string, error)
	PromptRename(ctx context.Context) (text.ReplacementRule, error)
	ReportProgress(done, total int)
	Confirm(ctx context.Context, msg string) (bool, error)
	Warn(msg string)
}

// 🗂️ PaneView is the part of a pane the engine reads and updates
type PaneView interface {
	CurrentPath() string
	Selection() []*catalog.Entry
	ClearSelection()
	Remove(entries ...*catalog.Entry)
	Relocate(e *catalog.Entry, newPath string)
	Refresh(ctx context.Context) error
}

// 🗑️ Trasher sends a path to the platform trash
type Trasher interface {
	Trash(ctx context.Context, path string) error
}

// 🔢 Counter returns the number of progress units of an entry
type Counter interface {
	EnsureItemCount(ctx context.Context, e *catalog.Entry) (int, error)
}

// 🔧 Options contains the collaborators of the engine
type Options struct {
	// Host is the user interface (required)
	Host Host
	// Staging holds copied items until they are pasted (required)
	Staging *staging.Store
	// Copier copies trees for paste and move (required)
	Copier *treecopy.Copier
	// Trash receives deleted items (required)
	Trash Trasher
	// Counter sizes the progress of an operation (required)
	Counter Counter
	// Policy decides on existing destinations, conflict.AbortOnExists when nil
	Policy conflict.Policy
	// Metrics is optional
	Metrics *metrics.Metrics
	// Console prints per-item operation lines, discarded when nil
	Console *log.Logger
	// Async runs dispatched commands off the caller's goroutine
	Async bool
}

// ⚙️ Engine orchestrates copy, paste, move, delete and rename across panes
type Engine struct {
	host    Host
	staging *staging.Store
	copier  *treecopy.Copier
	trash   Trasher
	counter Counter
	policy  conflict.Policy
	metrics *metrics.Metrics
	console *log.Logger
	runner  *Runner

	state atomic.Int32
}

// 🏭 New creates an engine with the given options
func New(opts Options) (*Engine, error) {
	if opts.Host == nil {
		return nil, errors.Errorf("host is required")
	}
	if opts.Staging == nil {
		return nil, errors.Errorf("staging store is required")
	}
	if opts.Copier == nil {
		return nil, errors.Errorf("copier is required")
	}
	if opts.Trash == nil {
		return nil, errors.Errorf("trash is required")
	}
	if opts.Counter == nil {
		return nil, errors.Errorf("counter is required")
	}

	policy := opts.Policy
	if policy == nil {
		policy = conflict.AbortOnExists{}
	}
	console := opts.Console
	if console == nil {
		console = log.NewWithLogger(io.Discard, zerolog.Nop())
	}

	return &Engine{
		host:    opts.Host,
		staging: opts.Staging,
		copier:  opts.Copier,
		trash:   opts.Trash,
		counter: opts.Counter,
		policy:  policy,
		metrics: opts.Metrics,
		console: console,
		runner:  NewRunner(opts.Async),
	}, nil
}

// Staged returns the paths waiting for a paste.
func (e *Engine) Staged() []string {
	return e.staging.Staged()
}

// progressFunc receives finished units, it may be nil
type progressFunc func(n int)

func (p progressFunc) advance(n int) {
	if p != nil && n > 0 {
		p(n)
	}
}

func (p progressFunc) perFile() treecopy.CallOption {
	return treecopy.OnFile(func(string, string, error) {
		p.advance(1)
	})
}

func unitsOf(e *catalog.Entry) int {
	if e.Kind == catalog.KindDirectory && e.ItemCount >= 0 {
		return e.ItemCount
	}
	return 1
}
