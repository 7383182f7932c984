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

// Package catalog lists directories and mounted volumes as pane entries.
package catalog

import (
	"path/filepath"
	"strings"
	"time"
)

// ParentMarkerName is the display name of the entry that leads one level up.
const ParentMarkerName = ".."

// 🏷️ Kind classifies a pane entry
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindDrive
	KindParentMarker
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindDrive:
		return "drive"
	case KindParentMarker:
		return "parent"
	default:
		return "file"
	}
}

// 🧭 Side identifies one of the two panes
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Other returns the opposite pane.
func (s Side) Other() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// 📄 Entry is one row of a pane listing
type Entry struct {
	Name         string
	FullPath     string
	Kind         Kind
	SizeBytes    int64
	HumanSize    string
	LastModified *time.Time // UTC, nil when the entry could not be stat'ed
	Hidden       bool
	IsSymlink    bool
	Side         Side
	Info         string

	// ItemCount is the number of files below a directory, -1 until counted.
	ItemCount int

	FreeBytes  uint64
	TotalBytes uint64
}

// NewParentMarker returns the ".." row placed at the top of directory listings.
func NewParentMarker(side Side) *Entry {
	return &Entry{Name: ParentMarkerName, Kind: KindParentMarker, Side: side, ItemCount: -1}
}

// IsContainer reports whether the entry can be navigated into.
func (e *Entry) IsContainer() bool {
	return e.Kind == KindDirectory || e.Kind == KindDrive
}

// Selectable reports whether the entry may take part in a bulk operation.
func (e *Entry) Selectable() bool {
	return e.Kind == KindFile || e.Kind == KindDirectory
}

// IsHiddenName reports whether a base name is hidden by convention.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func infoFor(name string, kind Kind, hidden bool) string {
	var parts []string
	if kind == KindFile {
		if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
			parts = append(parts, ext)
		}
	}
	if hidden {
		parts = append(parts, "(Hidden)")
	}
	return strings.Join(parts, " ")
}
