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

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/pane"
	"gitlab.com/tozd/go/errors"
)

// 🚦 State is where the interactive flow currently is
type State int32

const (
	StateIdle State = iota
	StateSelecting
	StateAwaitingAction
	StateAwaitingParameters
	StateExecuting
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateAwaitingAction:
		return "awaiting action"
	case StateAwaitingParameters:
		return "awaiting parameters"
	case StateExecuting:
		return "executing"
	default:
		return "idle"
	}
}

// State returns the current state of the interactive flow.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(ctx context.Context, s State) {
	if State(e.state.Swap(int32(s))) != s {
		zerolog.Ctx(ctx).Debug().Str("state", s.String()).Msg("engine state")
	}
}

// ▶️ Run drives one operation on the selection of source: the host picks the
// action and its parameters, then the operation executes with target as the
// other pane. Invalid parameters are reported and the host is asked for an
// action again. Dismissing a prompt ends the flow without error.
func (e *Engine) Run(ctx context.Context, source, target PaneView) error {
	return e.run(ctx, source, target, nil)
}

// RunAction is Run with the action already chosen, as from a key binding.
func (e *Engine) RunAction(ctx context.Context, action Action, source, target PaneView) error {
	return e.run(ctx, source, target, &action)
}

// Dispatch implements pane.Dispatcher.
func (e *Engine) Dispatch(ctx context.Context, cmd pane.Command, source, target *pane.Pane) error {
	var action Action
	switch cmd {
	case pane.CommandCopy:
		action = ActionCopy
	case pane.CommandMove:
		action = ActionMove
	case pane.CommandDelete:
		action = ActionDelete
	case pane.CommandRename:
		action = ActionRename
	default:
		return errors.Errorf("unknown command %d", cmd)
	}
	return e.runner.Run(ctx, action.String(), func(ctx context.Context) error {
		return e.RunAction(ctx, action, source, target)
	})
}

var _ pane.Dispatcher = (*Engine)(nil)

func (e *Engine) run(ctx context.Context, source, target PaneView, fixed *Action) error {
	defer e.setState(ctx, StateIdle)

	e.setState(ctx, StateSelecting)
	items := source.Selection()

	for {
		e.setState(ctx, StateAwaitingAction)

		var action Action
		if fixed != nil {
			action = *fixed
		} else {
			a, err := e.host.SelectAction(ctx)
			if err != nil {
				return dismissed(ctx, err)
			}
			action = a
		}

		if err := e.precheck(action, items, source, target); err != nil {
			e.host.Warn(fserr.Message(err))
			if fixed != nil {
				return nil
			}
			continue
		}

		e.setState(ctx, StateAwaitingParameters)
		req, err := e.promptRequest(ctx, action, items, source, target)
		if err != nil {
			if fserr.IsKind(err, fserr.KindInvalidParameter) {
				e.host.Warn(fserr.Message(err))
				continue
			}
			return dismissed(ctx, err)
		}

		e.setState(ctx, StateExecuting)
		err = e.ProcessAction(ctx, req, Panes{Source: source, Target: target})
		if fserr.IsKind(err, fserr.KindInvalidParameter) {
			e.host.Warn(fserr.Message(err))
		}
		return err
	}
}

// precheck rejects an action that cannot run whatever parameters are given.
func (e *Engine) precheck(action Action, items []*catalog.Entry, source, target PaneView) error {
	if action.needsItems() && len(items) == 0 {
		return fserr.New(fserr.KindInvalidParameter, "selection", "", errors.Errorf("nothing selected to %s", action))
	}
	if path := targetFor(action, source, target); action.needsTarget() && path == "" {
		return fserr.New(fserr.KindInvalidParameter, "target", "", errors.Errorf("%s needs a directory, not the drive list", action))
	}
	if action == ActionPaste && len(e.staging.Staged()) == 0 {
		return fserr.New(fserr.KindInvalidParameter, "paste", "", errors.New("nothing has been copied"))
	}
	return nil
}

func (e *Engine) promptRequest(ctx context.Context, action Action, items []*catalog.Entry, source, target PaneView) (*Request, error) {
	params := RequestParams{
		Action:     action,
		Items:      items,
		TargetPath: targetFor(action, source, target),
	}

	if action.needsParallelism() {
		raw, err := e.host.PromptParallelism(ctx, action)
		if err != nil {
			return nil, err
		}
		if params.Parallelism, err = ParseParallelism(raw); err != nil {
			return nil, err
		}
	}

	if action.filtered() && params.TargetPath != "" {
		required := FilterRequired(items)
		if action == ActionPaste {
			required = e.stagedFilterRequired()
		}
		if required {
			pattern, err := e.host.PromptFilterPattern(ctx, action)
			if err != nil {
				return nil, err
			}
			params.FilterPattern = pattern
			params.FilterRequired = true
		}
	}

	if action == ActionRename {
		rule, err := e.host.PromptRename(ctx)
		if err != nil {
			return nil, err
		}
		params.Rename = &rule
	}

	return NewRequest(params)
}

// targetFor is the other pane for copy and move, the source pane for paste.
func targetFor(action Action, source, target PaneView) string {
	switch action {
	case ActionPaste:
		return source.CurrentPath()
	case ActionCopy, ActionMove:
		if target == nil {
			return ""
		}
		return target.CurrentPath()
	default:
		return ""
	}
}

func (e *Engine) stagedFilterRequired() bool {
	staged := e.staging.Staged()
	switch len(staged) {
	case 0:
		return false
	case 1:
		info, err := os.Stat(staged[0])
		return err == nil && info.IsDir()
	default:
		return true
	}
}

func dismissed(ctx context.Context, err error) error {
	if fserr.IsKind(err, fserr.KindCanceledByUser) {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("prompt dismissed")
		return nil
	}
	return err
}
