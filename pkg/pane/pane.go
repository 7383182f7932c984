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

// Package pane holds the browsing state of one side of the file manager.
package pane

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// DefaultSettleDelay gives the host time to show its loading indicator.
const DefaultSettleDelay = 100 * time.Millisecond

// ErrBusy is returned when a navigation is dropped because another one is loading.
var ErrBusy = errors.Base("pane is loading")

// 🔌 Lister produces the entries of a path ("" lists volumes)
type Lister interface {
	List(ctx context.Context, dir string, side catalog.Side) ([]*catalog.Entry, error)
}

// 🔌 Warner shows a message to the user
type Warner interface {
	Warn(msg string)
}

// Opener launches a file with its default application.
type Opener func(ctx context.Context, e *catalog.Entry) error

// 🔧 Options configures a Pane
type Options struct {
	Side        catalog.Side
	Lister      Lister // required
	Warner      Warner
	SettleDelay time.Duration // negative disables the delay
	Opener      Opener
}

// 🗂️ Pane is one browsable side. Navigation is gated by an atomic loading
// flag: while a listing is in flight further navigations are dropped.
type Pane struct {
	side        catalog.Side
	lister      Lister
	warner      Warner
	settleDelay time.Duration
	opener      Opener

	loading    atomic.Bool
	generation atomic.Uint64

	mu           sync.RWMutex
	currentPath  string
	previousPath string
	pendingPath  string
	entries      []*catalog.Entry
	selected     map[*catalog.Entry]struct{}
	selection    []*catalog.Entry
	sorter       catalog.Sorter
}

// 🏭 New creates a pane in drive-list mode with no entries
func New(opts Options) (*Pane, error) {
	if opts.Lister == nil {
		return nil, errors.Errorf("lister is required")
	}
	delay := opts.SettleDelay
	if delay == 0 {
		delay = DefaultSettleDelay
	}
	return &Pane{
		side:        opts.Side,
		lister:      opts.Lister,
		warner:      opts.Warner,
		settleDelay: max(delay, 0),
		opener:      opts.Opener,
		selected:    map[*catalog.Entry]struct{}{},
	}, nil
}

func (p *Pane) Side() catalog.Side { return p.side }

// Loading reports whether a listing is in flight.
func (p *Pane) Loading() bool { return p.loading.Load() }

func (p *Pane) CurrentPath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentPath
}

// PendingPath is the target of the listing in flight. It is empty when idle
// and for the drive list, and becomes CurrentPath only once the listing succeeds.
func (p *Pane) PendingPath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pendingPath
}

func (p *Pane) PreviousPath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.previousPath
}

// Entries returns a snapshot of the listing.
func (p *Pane) Entries() []*catalog.Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*catalog.Entry(nil), p.entries...)
}

// 🧭 Navigate lists target and makes it current. A navigation that arrives
// while another is loading is dropped with ErrBusy. When target cannot be
// listed the pane rolls back to the last good path and warns.
func (p *Pane) Navigate(ctx context.Context, target string) error {
	logger := zerolog.Ctx(ctx)

	if !p.loading.CompareAndSwap(false, true) {
		logger.Debug().Str("target", target).Msg("navigation dropped, pane is loading")
		return ErrBusy
	}
	gen := p.generation.Add(1)
	defer p.finish(gen)

	p.mu.Lock()
	p.pendingPath = target
	p.mu.Unlock()

	if err := p.settle(ctx); err != nil {
		p.rollback()
		return errors.Errorf("navigating to %s: %w", target, err)
	}

	entries, err := p.lister.List(ctx, target, p.side)
	if p.generation.Load() != gen {
		logger.Debug().Str("target", target).Msg("discarding abandoned listing")
		return nil
	}

	if err != nil {
		prev := p.rollback()
		p.warn(fserr.Message(err))
		logger.Debug().Err(err).Str("target", target).Str("previous", prev).Msg("navigation rolled back")

		if kind := fserr.Classify(err); (kind == fserr.KindAccessDenied || kind == fserr.KindNotFound) && prev != target {
			p.relist(ctx, gen, prev)
		}
		return err
	}

	p.mu.Lock()
	p.entries = entries
	p.previousPath = target
	p.currentPath = target
	p.pendingPath = ""
	p.clearSelectionLocked()
	p.sorter.Reset()
	p.mu.Unlock()

	logger.Debug().Str("path", target).Int("entries", len(entries)).Msg("navigated")
	return nil
}

// relist refreshes the rolled back path so the listing matches it again.
func (p *Pane) relist(ctx context.Context, gen uint64, path string) {
	entries, err := p.lister.List(ctx, path, p.side)
	if err != nil || p.generation.Load() != gen {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = entries
	p.clearSelectionLocked()
	p.sorter.Reset()
}

func (p *Pane) finish(gen uint64) {
	if p.generation.Load() == gen {
		p.loading.Store(false)
	}
}

// rollback drops the pending target and returns the path still shown.
func (p *Pane) rollback() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingPath = ""
	return p.currentPath
}

func (p *Pane) settle(ctx context.Context) error {
	if p.settleDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.settleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *Pane) warn(msg string) {
	if p.warner != nil {
		p.warner.Warn(msg)
	}
}

// ⬆️ NavigateToParent moves one level up; above a filesystem root it shows the volumes
func (p *Pane) NavigateToParent(ctx context.Context) error {
	cur := p.CurrentPath()
	if cur == "" {
		return nil
	}
	parent := filepath.Dir(cur)
	if parent == cur {
		parent = ""
	}
	return p.Navigate(ctx, parent)
}

// 🔄 Refresh lists the current path again
func (p *Pane) Refresh(ctx context.Context) error {
	return p.Navigate(ctx, p.CurrentPath())
}

// ⎋ Escape abandons an in-flight listing and shows the previous path again
func (p *Pane) Escape(ctx context.Context) error {
	if !p.loading.Load() {
		return nil
	}
	p.generation.Add(1)
	p.loading.Store(false)
	prev := p.rollback()
	zerolog.Ctx(ctx).Debug().Str("previous", prev).Msg("listing abandoned")
	return p.Navigate(ctx, prev)
}

// 📂 Open enters a container, goes up for the parent marker, or launches a file
func (p *Pane) Open(ctx context.Context, e *catalog.Entry) error {
	switch e.Kind {
	case catalog.KindParentMarker:
		return p.NavigateToParent(ctx)
	case catalog.KindDirectory, catalog.KindDrive:
		return p.Navigate(ctx, e.FullPath)
	default:
		if p.opener == nil {
			return nil
		}
		return p.opener(ctx, e)
	}
}

// 🔃 Sort reorders the listing by key, toggling direction on repeats
func (p *Pane) Sort(key catalog.SortKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = p.sorter.Apply(p.entries, key)
}

// Header returns the column title with its sort indicator.
func (p *Pane) Header(key catalog.SortKey) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sorter.Header(key)
}

// 🗑️ Remove drops entries from the listing and the selection
func (p *Pane) Remove(entries ...*catalog.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	drop := make(map[*catalog.Entry]bool, len(entries))
	for _, e := range entries {
		drop[e] = true
		p.deselectLocked(e)
	}
	kept := p.entries[:0:0]
	for _, e := range p.entries {
		if !drop[e] {
			kept = append(kept, e)
		}
	}
	p.entries = kept
}

// 🚚 Relocate points an entry at its new path after a move or rename
func (p *Pane) Relocate(e *catalog.Entry, newPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e.FullPath = newPath
	e.Name = filepath.Base(newPath)
}
