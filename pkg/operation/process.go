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
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
)

// Panes are the panes an operation updates. Either may be nil.
type Panes struct {
	Source PaneView
	Target PaneView
}

// 🎯 ProcessAction runs req with progress reporting. The progress total is the
// number of files involved, a directory counting as the files below it; the
// final tick of a successful run always has done == total.
func (e *Engine) ProcessAction(ctx context.Context, req *Request, panes Panes) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	action := req.Action()
	items := req.Items()

	total := e.units(ctx, req)

	tracker := status.NewTracker(e.host.ReportProgress, nil)
	tracker.Start(ctx, total)
	progress := progressFunc(func(n int) { tracker.Advance(ctx, n) })

	e.console.StartBatch(ctx, log.BatchOperation{
		Action:      action.String(),
		Source:      e.sourceOf(action, items),
		Destination: req.TargetPath(),
		Items:       len(items),
	})

	var err error
	switch action {
	case ActionCopy:
		_, err = e.copy(ctx, items, req.Parallelism(), progress)
		if err == nil && req.TargetPath() != "" {
			err = e.paste(ctx, req.TargetPath(), req.Filter(), req.Parallelism(), nil)
		}
	case ActionPaste:
		err = e.paste(ctx, req.TargetPath(), req.Filter(), req.Parallelism(), progress)
	case ActionMove:
		err = e.move(ctx, items, panes.Source, req.TargetPath(), req.Filter(), req.Parallelism(), progress)
	case ActionDelete:
		err = e.delete(ctx, items, panes.Source, progress)
	case ActionRename:
		err = e.rename(ctx, items, panes.Source, req.RenameRule(), progress)
	}

	if err != nil && ctx.Err() != nil && !fserr.IsKind(err, fserr.KindCanceledByUser) {
		err = fserr.New(fserr.KindCanceledByUser, action.String(), "", err)
	}
	if err == nil {
		tracker.Finish(ctx)
	}

	e.metrics.ObserveOperation(action.String(), err, time.Since(start))
	e.refresh(ctx, action, req, panes, err)
	failures := e.console.EndBatch(ctx)

	done, _ := tracker.Snapshot()
	logger.Debug().
		Str("action", action.String()).
		Int("done", done).
		Int("total", total).
		Int("failures", failures).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("operation finished")

	return err
}

// units sizes the progress of req. Entries that cannot be counted count once.
func (e *Engine) units(ctx context.Context, req *Request) int {
	logger := zerolog.Ctx(ctx)

	if req.Action() == ActionRename {
		return len(req.Items())
	}

	items := req.Items()
	if req.Action() == ActionPaste {
		items = nil
		for _, p := range e.staging.Staged() {
			entry, err := catalog.Stat(p, catalog.SideLeft)
			if err != nil {
				items = append(items, &catalog.Entry{Name: filepath.Base(p), FullPath: p, Kind: catalog.KindFile, ItemCount: -1})
				continue
			}
			items = append(items, entry)
		}
	}

	total := 0
	for _, item := range items {
		n, err := e.counter.EnsureItemCount(ctx, item)
		if err != nil {
			logger.Debug().Err(err).Str("item", item.FullPath).Msg("counting failed, counting once")
			n = 1
		}
		total += n
	}
	return total
}

func (e *Engine) sourceOf(action Action, items []*catalog.Entry) string {
	if action == ActionPaste || len(items) == 0 {
		return e.staging.Dir()
	}
	return filepath.Dir(items[0].FullPath)
}

// refresh re-lists the panes an action changed. Paste and copy refresh only
// after full success, a move refreshes after partial success too.
func (e *Engine) refresh(ctx context.Context, action Action, req *Request, panes Panes, err error) {
	var targets []PaneView
	switch action {
	case ActionCopy:
		if err == nil && req.TargetPath() != "" {
			targets = []PaneView{panes.Source, panes.Target}
		}
	case ActionPaste:
		if err == nil {
			targets = []PaneView{panes.Source, panes.Target}
		}
	case ActionMove:
		targets = []PaneView{panes.Source, panes.Target}
	case ActionRename:
		targets = []PaneView{panes.Source}
	}

	for _, p := range targets {
		if p == nil {
			continue
		}
		if rerr := p.Refresh(ctx); rerr != nil {
			zerolog.Ctx(ctx).Debug().Err(rerr).Str("path", p.CurrentPath()).Msg("refresh after operation failed")
		}
	}
}
