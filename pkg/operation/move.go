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
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/conflict"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
	"github.com/walteh/twinpane/pkg/treecopy"
	"gitlab.com/tozd/go/errors"
)

// 🚚 MoveSelection moves the selected items of source whose names pass
// pattern into target. Files are renamed, falling back to copy and remove
// across devices. Directories are copied and the original removed once the
// copy fully succeeded. A conflict stops the remaining items, any other
// failure skips only its item. Moved entries are relocated in place.
func (e *Engine) MoveSelection(ctx context.Context, source PaneView, target, pattern string, parallelism int) error {
	return e.move(ctx, source.Selection(), source, target, pattern, parallelism, nil)
}

func (e *Engine) move(ctx context.Context, items []*catalog.Entry, source PaneView, target, pattern string, parallelism int, progress progressFunc) error {
	logger := zerolog.Ctx(ctx)

	filter, err := CompileFilter(pattern)
	if err != nil {
		e.host.Warn(fserr.Message(err))
		logger.Debug().Err(err).Msg("filter matches nothing, move skipped")
		return nil
	}
	if err := treecopy.ValidateParallelism(parallelism); err != nil {
		return err
	}
	if err := ensureDirectory("move", target); err != nil {
		return err
	}

	var errs []error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, errors.Errorf("moving into %s: %w", target, err))...)
		}

		if !filter.Match(item.Name) {
			e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name, Kind: item.Kind.String(), Action: string(status.OpSkipped)})
			continue
		}

		// moving into the folder that already holds the item lands on itself,
		// which the existing destination reports as a conflict
		dest := filepath.Join(target, item.Name)
		if err := conflict.Check(ctx, e.policy, dest); err != nil {
			e.host.Warn(fserr.Message(err))
			return errors.Join(append(errs, err)...)
		}

		if item.Kind == catalog.KindDirectory && treecopy.Within(dest, item.FullPath) {
			err := fserr.New(fserr.KindInvalidParameter, "move", item.FullPath, errors.Errorf("cannot move a directory into itself"))
			e.host.Warn(fserr.Message(err))
			errs = append(errs, err)
			continue
		}

		err := e.relocate(ctx, item, dest, parallelism, progress)
		e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name, Kind: item.Kind.String(), Action: string(status.OpMoved), Err: err})
		if err != nil {
			e.host.Warn(fserr.Message(err))
			errs = append(errs, err)
			continue
		}

		if source != nil {
			source.Relocate(item, dest)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) relocate(ctx context.Context, item *catalog.Entry, dest string, parallelism int, progress progressFunc) error {
	if item.Kind == catalog.KindDirectory {
		if err := e.copier.CopyTree(ctx, item.FullPath, dest, true, parallelism, progress.perFile()); err != nil {
			return fserr.Wrap("move", item.FullPath, err)
		}
		if err := os.RemoveAll(item.FullPath); err != nil {
			return fserr.Wrap("remove moved directory", item.FullPath, err)
		}
		return nil
	}

	err := os.Rename(item.FullPath, dest)
	switch {
	case err == nil:
		progress.advance(1)
		return nil
	case errors.Is(err, syscall.EXDEV):
		if err := e.copier.CopyFile(ctx, item.FullPath, dest, progress.perFile()); err != nil {
			return fserr.Wrap("move", item.FullPath, err)
		}
		return fserr.Wrap("remove moved file", item.FullPath, os.Remove(item.FullPath))
	default:
		return fserr.Wrap("move", item.FullPath, err)
	}
}
