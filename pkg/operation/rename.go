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

	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/conflict"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
	"github.com/walteh/twinpane/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📝 Rename rewrites the names of the selected items of source with rule.
// Items whose name does not change are skipped. An existing target name stops
// the remaining items.
func (e *Engine) Rename(ctx context.Context, source PaneView, rule text.ReplacementRule) error {
	return e.rename(ctx, source.Selection(), source, rule, nil)
}

func (e *Engine) rename(ctx context.Context, items []*catalog.Entry, source PaneView, rule text.ReplacementRule, progress progressFunc) error {
	rewriter, err := text.NewNameRewriter([]text.ReplacementRule{rule})
	if err != nil {
		return err
	}

	var errs []error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, errors.Errorf("renaming: %w", err))...)
		}

		res := rewriter.Rewrite(item.Name)
		if !res.WasModified {
			e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name, Kind: item.Kind.String(), Action: string(status.OpSkipped)})
			progress.advance(1)
			continue
		}
		if err := text.ValidateName(res.Renamed); err != nil {
			e.host.Warn(fserr.Message(err))
			errs = append(errs, err)
			progress.advance(1)
			continue
		}

		dest := filepath.Join(filepath.Dir(item.FullPath), res.Renamed)
		if err := conflict.Check(ctx, e.policy, dest); err != nil {
			e.host.Warn(fserr.Message(err))
			return errors.Join(append(errs, err)...)
		}

		err := fserr.Wrap("rename", item.FullPath, os.Rename(item.FullPath, dest))
		e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name + " → " + res.Renamed, Kind: item.Kind.String(), Action: string(status.OpRenamed), Err: err})
		progress.advance(1)
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
