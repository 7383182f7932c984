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
	"github.com/walteh/twinpane/pkg/catalog"
)

// ✅ Select adds e to the selection. Only files and directories of the
// current listing can be selected.
func (p *Pane) Select(e *catalog.Entry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectLocked(e)
}

// Deselect removes e from the selection.
func (p *Pane) Deselect(e *catalog.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deselectLocked(e)
}

// Toggle flips the selection state of e and returns the new state.
func (p *Pane) Toggle(e *catalog.Entry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.selected[e]; ok {
		p.deselectLocked(e)
		return false
	}
	return p.selectLocked(e)
}

// SelectByName selects the entry with the given name, if listed.
func (p *Pane) SelectByName(name string) (*catalog.Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.Name == name {
			return e, p.selectLocked(e)
		}
	}
	return nil, false
}

// SelectAll selects every selectable entry of the listing.
func (p *Pane) SelectAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		p.selectLocked(e)
	}
}

// 📸 Selection returns the selected entries in the order they were selected
func (p *Pane) Selection() []*catalog.Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*catalog.Entry(nil), p.selection...)
}

// IsSelected reports whether e is selected.
func (p *Pane) IsSelected(e *catalog.Entry) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.selected[e]
	return ok
}

// ClearSelection empties the selection.
func (p *Pane) ClearSelection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearSelectionLocked()
}

func (p *Pane) selectLocked(e *catalog.Entry) bool {
	if e == nil || !e.Selectable() || !p.listedLocked(e) {
		return false
	}
	if _, ok := p.selected[e]; ok {
		return true
	}
	p.selected[e] = struct{}{}
	p.selection = append(p.selection, e)
	return true
}

func (p *Pane) deselectLocked(e *catalog.Entry) {
	if _, ok := p.selected[e]; !ok {
		return
	}
	delete(p.selected, e)
	for i, s := range p.selection {
		if s == e {
			p.selection = append(p.selection[:i:i], p.selection[i+1:]...)
			break
		}
	}
}

func (p *Pane) clearSelectionLocked() {
	p.selected = map[*catalog.Entry]struct{}{}
	p.selection = nil
}

func (p *Pane) listedLocked(e *catalog.Entry) bool {
	for _, l := range p.entries {
		if l == e {
			return true
		}
	}
	return false
}
