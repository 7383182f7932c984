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

package catalog

import (
	"cmp"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔑 SortKey is a sortable pane column
type SortKey int

const (
	SortByName SortKey = iota
	SortByInfo
	SortBySize
	SortByDate
)

var sortKeyNames = [...]string{"name", "info", "size", "date"}

var sortHeaders = [...]string{"Filename", "Info", "Size", "Date"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return "unknown"
	}
	return sortKeyNames[k]
}

// ParseSortKey maps a column name onto a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	for i, name := range sortKeyNames {
		if strings.EqualFold(s, name) {
			return SortKey(i), nil
		}
	}
	return 0, errors.Errorf("unknown sort key %q", s)
}

// ↕️ Direction is the order currently applied for a column
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAscending
	DirectionDescending
)

// Indicator is the marker appended to a column header.
func (d Direction) Indicator() string {
	switch d {
	case DirectionAscending:
		return "^"
	case DirectionDescending:
		return "v"
	default:
		return ""
	}
}

// 🔃 Sorter applies column sorts and remembers the indicator of each column.
// The zero value has every column neutral.
type Sorter struct {
	directions [len(sortKeyNames)]Direction
}

// Direction returns the indicator state of key.
func (s *Sorter) Direction(key SortKey) Direction {
	return s.directions[key]
}

// Header returns the column title with its indicator, e.g. "Size v".
func (s *Sorter) Header(key SortKey) string {
	if ind := s.directions[key].Indicator(); ind != "" {
		return sortHeaders[key] + " " + ind
	}
	return sortHeaders[key]
}

// Reset sets every column back to neutral, as after a fresh listing.
func (s *Sorter) Reset() {
	s.directions = [len(sortKeyNames)]Direction{}
}

// 🎯 Apply sorts entries by key and returns the new order. When the entries are
// already ascending by key they are sorted descending, otherwise ascending.
// Containers stay ahead of files and the parent marker stays at index 0.
func (s *Sorter) Apply(entries []*Entry, key SortKey) []*Entry {
	var marker *Entry
	rest := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == KindParentMarker {
			marker = e
			continue
		}
		rest = append(rest, e)
	}

	asc := directional(key, 1)
	desc := directional(key, -1)

	var dir Direction
	switch isAsc, isDesc := slices.IsSortedFunc(rest, asc), slices.IsSortedFunc(rest, desc); {
	case isAsc && isDesc:
		// nothing distinguishes the two orders, flip the indicator only
		dir = DirectionAscending
		if s.directions[key] == DirectionAscending {
			dir = DirectionDescending
		}
	case isAsc:
		dir = DirectionDescending
	default:
		dir = DirectionAscending
	}

	if dir == DirectionAscending {
		slices.SortStableFunc(rest, asc)
	} else {
		slices.SortStableFunc(rest, desc)
	}

	s.Reset()
	s.directions[key] = dir

	if marker != nil {
		return append([]*Entry{marker}, rest...)
	}
	return rest
}

func directional(key SortKey, sign int) func(a, b *Entry) int {
	return func(a, b *Entry) int {
		if ra, rb := listingRank(a), listingRank(b); ra != rb {
			return ra - rb
		}
		return sign * compareByKey(key, a, b)
	}
}

func compareByKey(key SortKey, a, b *Entry) int {
	var c int
	switch key {
	case SortByInfo:
		c = strings.Compare(strings.ToLower(a.Info), strings.ToLower(b.Info))
	case SortBySize:
		c = cmp.Compare(a.SizeBytes, b.SizeBytes)
	case SortByDate:
		c = compareTimes(a, b)
	}
	if c != 0 {
		return c
	}
	return compareNames(a.Name, b.Name)
}

func compareTimes(a, b *Entry) int {
	switch {
	case a.LastModified == nil && b.LastModified == nil:
		return 0
	case a.LastModified == nil:
		return -1
	case b.LastModified == nil:
		return 1
	default:
		return a.LastModified.Compare(*b.LastModified)
	}
}
