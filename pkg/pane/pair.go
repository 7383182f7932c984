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

package pane

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

// 🎹 Command is a bulk action triggered from the keyboard
type Command int

const (
	CommandCopy Command = iota
	CommandMove
	CommandDelete
	CommandRename
)

func (c Command) String() string {
	switch c {
	case CommandCopy:
		return "copy"
	case CommandMove:
		return "move"
	case CommandDelete:
		return "delete"
	case CommandRename:
		return "rename"
	default:
		return "unknown"
	}
}

// 🔌 Dispatcher runs a command with the active pane as source and the other pane as target
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd Command, source, target *Pane) error
}

// 👯 Pair is the left and right pane plus which one has focus
type Pair struct {
	left, right *Pane
	dispatcher  Dispatcher

	mu     sync.Mutex
	active catalog.Side
}

// 🏭 NewPair creates a pair with the left pane active
func NewPair(left, right *Pane, dispatcher Dispatcher) (*Pair, error) {
	if left == nil || right == nil {
		return nil, errors.Errorf("both panes are required")
	}
	if dispatcher == nil {
		return nil, errors.Errorf("dispatcher is required")
	}
	return &Pair{left: left, right: right, dispatcher: dispatcher, active: catalog.SideLeft}, nil
}

// Pane returns the pane on side.
func (p *Pair) Pane(side catalog.Side) *Pane {
	if side == catalog.SideRight {
		return p.right
	}
	return p.left
}

func (p *Pair) ActiveSide() catalog.Side {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Pair) SetActive(side catalog.Side) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = side
}

// Active returns the focused pane.
func (p *Pair) Active() *Pane {
	return p.Pane(p.ActiveSide())
}

// Inactive returns the pane without focus.
func (p *Pair) Inactive() *Pane {
	return p.Pane(p.ActiveSide().Other())
}

// Switch moves focus to the other pane.
func (p *Pair) Switch() catalog.Side {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = p.active.Other()
	return p.active
}

// ⌨️ HandleKey runs the binding of key and reports whether key is bound.
//
//	f5 refresh    f6 copy to other    f7 move to other   f8 delete
//	f2 rename     backspace parent    enter open         tab switch    escape abandon listing
func (p *Pair) HandleKey(ctx context.Context, key string) (bool, error) {
	active, other := p.Active(), p.Inactive()

	zerolog.Ctx(ctx).Debug().Str("key", key).Str("side", active.Side().String()).Msg("key pressed")

	switch strings.ToLower(key) {
	case "f5":
		return true, active.Refresh(ctx)
	case "f6":
		return true, p.dispatcher.Dispatch(ctx, CommandCopy, active, other)
	case "f7":
		return true, p.dispatcher.Dispatch(ctx, CommandMove, active, other)
	case "f8", "delete":
		return true, p.dispatcher.Dispatch(ctx, CommandDelete, active, other)
	case "f2":
		return true, p.dispatcher.Dispatch(ctx, CommandRename, active, other)
	case "backspace":
		if active.CurrentPath() == "" {
			return true, nil
		}
		return true, active.NavigateToParent(ctx)
	case "enter":
		sel := active.Selection()
		if len(sel) != 1 {
			return true, nil
		}
		return true, active.Open(ctx, sel[0])
	case "tab":
		p.Switch()
		return true, nil
	case "escape", "esc":
		return true, active.Escape(ctx)
	default:
		return false, nil
	}
}
