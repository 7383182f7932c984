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

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/conflict"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
	"github.com/walteh/twinpane/pkg/treecopy"
	"gitlab.com/tozd/go/errors"
)

// 📋 Copy stages items for a later Paste, replacing whatever was staged.
// Items are staged with up to parallelism workers and directories are copied
// with the same bound per level.
func (e *Engine) Copy(ctx context.Context, items []*catalog.Entry, parallelism int) ([]string, error) {
	return e.copy(ctx, items, parallelism, nil)
}

func (e *Engine) copy(ctx context.Context, items []*catalog.Entry, parallelism int, progress progressFunc) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("items", len(items)).Int("parallelism", parallelism).Msg("staging selection")

	staged, err := e.staging.StageCopy(ctx, items, parallelism, progress.perFile())

	stagedNames := make(map[string]bool, len(staged))
	for _, p := range staged {
		stagedNames[filepath.Base(p)] = true
	}
	for _, item := range items {
		var itemErr error
		if !stagedNames[item.Name] {
			itemErr = errors.New("not staged")
		}
		e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name, Kind: item.Kind.String(), Action: string(status.OpStaged), Err: itemErr})
	}

	if err != nil && ctx.Err() == nil {
		for _, f := range treecopy.Failures(err) {
			e.host.Warn(fserr.Message(f))
		}
	}
	return staged, err
}

// 📥 Paste copies the staged items whose names pass pattern into target.
// The first conflict or copy failure stops the paste and keeps the staged set,
// items pasted before it stay. A fully successful paste clears the staged set.
//
// A pattern that does not compile matches nothing: a warning is shown, nothing
// is pasted and the staged set is kept.
func (e *Engine) Paste(ctx context.Context, target, pattern string, parallelism int) error {
	return e.paste(ctx, target, pattern, parallelism, nil)
}

func (e *Engine) paste(ctx context.Context, target, pattern string, parallelism int, progress progressFunc) error {
	logger := zerolog.Ctx(ctx)

	filter, err := CompileFilter(pattern)
	if err != nil {
		e.host.Warn(fserr.Message(err))
		logger.Debug().Err(err).Msg("filter matches nothing, paste skipped")
		return nil
	}
	if err := treecopy.ValidateParallelism(parallelism); err != nil {
		return err
	}
	if err := ensureDirectory("paste", target); err != nil {
		return err
	}

	return e.staging.Drain(ctx, func(ctx context.Context, staged []string) error {
		for _, src := range staged {
			if err := ctx.Err(); err != nil {
				return errors.Errorf("pasting into %s: %w", target, err)
			}

			name := filepath.Base(src)
			if !filter.Match(name) {
				e.console.LogFileOperation(ctx, log.FileOperation{Path: name, Kind: "staged", Action: string(status.OpSkipped)})
				continue
			}

			dest := filepath.Join(target, name)
			if err := conflict.Check(ctx, e.policy, dest); err != nil {
				e.host.Warn(fserr.Message(err))
				return err
			}

			kind, err := e.place(ctx, src, dest, parallelism, progress)
			e.console.LogFileOperation(ctx, log.FileOperation{Path: name, Kind: kind, Action: string(status.OpCopied), Err: err})
			if err != nil {
				e.host.Warn(fserr.Message(err))
				return err
			}
		}
		logger.Debug().Int("staged", len(staged)).Str("target", target).Msg("paste complete")
		return nil
	})
}

// place copies src, a file or a whole tree, to dest.
func (e *Engine) place(ctx context.Context, src, dest string, parallelism int, progress progressFunc) (string, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return catalog.KindFile.String(), fserr.Wrap("paste", src, err)
	}
	if info.IsDir() {
		err = e.copier.CopyTree(ctx, src, dest, true, parallelism, progress.perFile())
		return catalog.KindDirectory.String(), fserr.Wrap("paste", dest, err)
	}
	err = e.copier.CopyFile(ctx, src, dest, progress.perFile())
	return catalog.KindFile.String(), fserr.Wrap("paste", dest, err)
}

func ensureDirectory(op, path string) error {
	if path == "" {
		return fserr.New(fserr.KindInvalidParameter, "target", "", errors.Errorf("%s needs a target directory", op))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fserr.Wrap(op, path, err)
	}
	if !info.IsDir() {
		return fserr.New(fserr.KindInvalidParameter, "target", path, errors.New("not a directory"))
	}
	return nil
}
