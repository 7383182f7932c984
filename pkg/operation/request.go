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
	"strconv"
	"strings"

	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// MaxThreads is the largest accepted degree of parallelism.
const MaxThreads = 255

// 🎬 Action is a bulk operation the user can pick
type Action int

const (
	ActionCopy Action = iota
	ActionMove
	ActionDelete
	ActionPaste
	ActionRename
)

var actionNames = [...]string{"copy", "move", "delete", "paste", "rename"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Actions lists every action in menu order.
func Actions() []Action {
	return []Action{ActionCopy, ActionMove, ActionDelete, ActionPaste, ActionRename}
}

// ParseAction maps a name such as "copy" onto an Action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Action(i), nil
		}
	}
	return 0, fserr.New(fserr.KindInvalidParameter, "action", "", errors.Errorf("unknown action %q", s))
}

func (a Action) needsParallelism() bool {
	return a == ActionCopy || a == ActionMove || a == ActionPaste
}

func (a Action) needsItems() bool {
	return a != ActionPaste
}

func (a Action) needsTarget() bool {
	return a == ActionMove || a == ActionPaste
}

func (a Action) filtered() bool {
	return a == ActionCopy || a == ActionMove || a == ActionPaste
}

// 🔢 ParseParallelism parses a thread count typed by the user. Out of range
// values are rejected, never clamped.
func ParseParallelism(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fserr.New(fserr.KindInvalidParameter, "thread count", "", errors.Errorf("%q is not a number", s))
	}
	if n < 1 || n > MaxThreads {
		return 0, fserr.New(fserr.KindInvalidParameter, "thread count", "", errors.Errorf("must be between 1 and %d", MaxThreads))
	}
	return n, nil
}

// FilterRequired reports whether a filter pattern must be given for items:
// more than one item, or a single directory.
func FilterRequired(items []*catalog.Entry) bool {
	switch len(items) {
	case 0:
		return false
	case 1:
		return items[0].Kind == catalog.KindDirectory
	default:
		return true
	}
}

// 📝 RequestParams are the inputs of NewRequest
type RequestParams struct {
	Action         Action
	Items          []*catalog.Entry
	Parallelism    int
	FilterPattern  string
	FilterRequired bool
	TargetPath     string
	Rename         *text.ReplacementRule
}

// 📦 Request is a validated, immutable operation request
type Request struct {
	action      Action
	items       []*catalog.Entry
	parallelism int
	filter      string
	target      string
	rename      text.ReplacementRule
}

// 🏭 NewRequest validates params. Every failure is an InvalidParameter error.
func NewRequest(p RequestParams) (*Request, error) {
	if p.Action < 0 || int(p.Action) >= len(actionNames) {
		return nil, fserr.New(fserr.KindInvalidParameter, "action", "", errors.Errorf("unknown action %d", p.Action))
	}

	r := &Request{
		action:      p.Action,
		items:       append([]*catalog.Entry(nil), p.Items...),
		parallelism: p.Parallelism,
		filter:      strings.TrimSpace(p.FilterPattern),
		target:      p.TargetPath,
	}

	if p.Action.needsItems() && len(r.items) == 0 {
		return nil, fserr.New(fserr.KindInvalidParameter, "selection", "", errors.Errorf("nothing selected to %s", p.Action))
	}
	for _, item := range r.items {
		if !item.Selectable() {
			return nil, fserr.New(fserr.KindInvalidParameter, "selection", item.FullPath, errors.Errorf("%s entries cannot be used", item.Kind))
		}
	}

	if p.Action.needsParallelism() {
		if p.Parallelism < 1 || p.Parallelism > MaxThreads {
			return nil, fserr.New(fserr.KindInvalidParameter, "thread count", "", errors.Errorf("must be between 1 and %d", MaxThreads))
		}
	} else {
		r.parallelism = 1
	}

	if p.Action.filtered() {
		if p.FilterRequired && r.filter == "" {
			return nil, fserr.New(fserr.KindInvalidParameter, "filter pattern", "", errors.New("a pattern is required for several items or a directory"))
		}
		if _, err := CompileFilter(r.filter); err != nil {
			return nil, err
		}
	} else {
		r.filter = ""
	}

	if p.Action.needsTarget() && r.target == "" {
		return nil, fserr.New(fserr.KindInvalidParameter, "target", "", errors.Errorf("%s needs a target directory", p.Action))
	}

	if p.Action == ActionRename {
		if p.Rename == nil {
			return nil, fserr.New(fserr.KindInvalidParameter, "rename rule", "", errors.New("a rule is required"))
		}
		if err := text.ValidateRules([]text.ReplacementRule{*p.Rename}); err != nil {
			return nil, err
		}
		r.rename = *p.Rename
	}

	return r, nil
}

func (r *Request) Action() Action { return r.action }

func (r *Request) Parallelism() int { return r.parallelism }

// Filter returns the trimmed filter pattern, empty when none applies.
func (r *Request) Filter() string { return r.filter }

func (r *Request) TargetPath() string { return r.target }

// Items returns a copy of the source items in selection order.
func (r *Request) Items() []*catalog.Entry {
	return append([]*catalog.Entry(nil), r.items...)
}

// RenameRule returns the rule of a rename request.
func (r *Request) RenameRule() text.ReplacementRule {
	return r.rename
}
