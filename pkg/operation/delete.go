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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🗑️ DeleteSelection asks for confirmation of every selected item and sends
// the confirmed ones to the trash. A failing item is warned about and the rest
// continue. The selection is always cleared.
func (e *Engine) DeleteSelection(ctx context.Context, source PaneView) error {
	return e.delete(ctx, source.Selection(), source, nil)
}

func (e *Engine) delete(ctx context.Context, items []*catalog.Entry, source PaneView, progress progressFunc) error {
	logger := zerolog.Ctx(ctx)
	if source != nil {
		defer source.ClearSelection()
	}

	var errs []error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, errors.Errorf("deleting: %w", err))...)
		}

		ok, err := e.host.Confirm(ctx, fmt.Sprintf("Move %s to the trash?", item.FullPath))
		if err != nil {
			logger.Debug().Err(err).Str("item", item.FullPath).Msg("confirmation dismissed, stopping")
			return errors.Join(append(errs, err)...)
		}
		if !ok {
			e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name, Kind: item.Kind.String(), Action: string(status.OpSkipped)})
			progress.advance(unitsOf(item))
			continue
		}

		err = fserr.Wrap("trash", item.FullPath, e.trash.Trash(ctx, item.FullPath))
		e.console.LogFileOperation(ctx, log.FileOperation{Path: item.Name, Kind: item.Kind.String(), Action: string(status.OpTrashed), Err: err})
		progress.advance(unitsOf(item))
		if err != nil {
			e.host.Warn(fserr.Message(err))
			errs = append(errs, err)
			continue
		}

		if source != nil {
			source.Remove(item)
		}
	}
	return errors.Join(errs...)
}
