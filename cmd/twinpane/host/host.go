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


// Package host is the terminal user interface the operation engine talks to.
package host

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/operation"
	"github.com/walteh/twinpane/pkg/pane"
	"github.com/walteh/twinpane/pkg/text"
)

// CancelChoice is the menu entry that dismisses the action menu.
const CancelChoice = "cancel"

// 💬 Prompter asks the user for input
type Prompter interface {
	Select(title string, options []string) (string, error)
	Text(title string) (string, error)
	Confirm(msg string) (bool, error)
}

// 🔧 Options configures a Host
type Options struct {
	Prompter Prompter
	Console  *log.Logger
	Progress Progress
	// Parallelism is used when the thread count prompt is left empty
	Parallelism int
	// AssumeYes answers every confirmation with yes
	AssumeYes bool
}

// 🖥️ Host implements operation.Host on a terminal
type Host struct {
	opts Options
}

var (
	_ operation.Host = (*Host)(nil)
	_ pane.Warner    = (*Host)(nil)
)

// 🏭 New creates a host
func New(opts Options) *Host {
	if opts.Prompter == nil {
		opts.Prompter = Terminal{}
	}
	if opts.Progress == nil {
		opts.Progress = Discard{}
	}
	return &Host{opts: opts}
}

func (h *Host) SelectAction(ctx context.Context) (operation.Action, error) {
	var options []string
	for _, a := range operation.Actions() {
		options = append(options, a.String())
	}
	options = append(options, CancelChoice)

	choice, err := h.opts.Prompter.Select("Choose an action", options)
	if err != nil {
		return 0, dismissed("action", err)
	}
	if choice == CancelChoice {
		return 0, fserr.ErrCanceledByUser
	}
	return operation.ParseAction(choice)
}

func (h *Host) PromptParallelism(ctx context.Context, action operation.Action) (string, error) {
	raw, err := h.opts.Prompter.Text(fmt.Sprintf("Threads for %s (1-%d)", action, operation.MaxThreads))
	if err != nil {
		return "", dismissed("thread count", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" && h.opts.Parallelism > 0 {
		return strconv.Itoa(h.opts.Parallelism), nil
	}
	return raw, nil
}

func (h *Host) PromptFilterPattern(ctx context.Context, action operation.Action) (string, error) {
	raw, err := h.opts.Prompter.Text(fmt.Sprintf("Names to %s (regular expression, or %sPATTERN)", action, operation.GlobPrefix))
	if err != nil {
		return "", dismissed("filter pattern", err)
	}
	return raw, nil
}

func (h *Host) PromptRename(ctx context.Context) (text.ReplacementRule, error) {
	from, err := h.opts.Prompter.Text("Rename names matching")
	if err != nil {
		return text.ReplacementRule{}, dismissed("rename rule", err)
	}
	to, err := h.opts.Prompter.Text("Replace with")
	if err != nil {
		return text.ReplacementRule{}, dismissed("rename rule", err)
	}
	return text.ReplacementRule{FromText: from, ToText: to}, nil
}

func (h *Host) ReportProgress(done, total int) {
	h.opts.Progress.Report(done, total)
}

func (h *Host) Confirm(ctx context.Context, msg string) (bool, error) {
	if h.opts.AssumeYes {
		return true, nil
	}
	ok, err := h.opts.Prompter.Confirm(msg)
	if err != nil {
		return false, dismissed("confirmation", err)
	}
	return ok, nil
}

func (h *Host) Warn(msg string) {
	if h.opts.Console != nil {
		h.opts.Console.Warning(msg)
	}
}

// a prompt that fails to read input counts as dismissed
func dismissed(op string, err error) error {
	return fserr.New(fserr.KindCanceledByUser, op, "", err)
}
