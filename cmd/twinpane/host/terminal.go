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


package host

import (
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// ⌨️ Terminal prompts with pterm's interactive printers
type Terminal struct{}

var _ Prompter = Terminal{}

func (Terminal) Select(title string, options []string) (string, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(title).
		WithOptions(options).
		Show()
	if err != nil {
		return "", errors.Errorf("selecting %q: %w", title, err)
	}
	return choice, nil
}

func (Terminal) Text(title string) (string, error) {
	value, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText(title).
		Show()
	if err != nil {
		return "", errors.Errorf("reading %q: %w", title, err)
	}
	return value, nil
}

func (Terminal) Confirm(msg string) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(msg).
		Show()
	if err != nil {
		return false, errors.Errorf("confirming %q: %w", msg, err)
	}
	return ok, nil
}
