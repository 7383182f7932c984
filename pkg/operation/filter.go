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
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// GlobPrefix marks a filter pattern as a doublestar glob instead of a regular expression.
const GlobPrefix = "glob:"

// 🔍 Filter decides which file names take part in a paste or move. Regular
// expressions match anywhere in the name, globs must match the whole name.
type Filter struct {
	pattern string
	re      *regexp.Regexp
	glob    string
}

// 🏭 CompileFilter parses pattern. An empty pattern matches every name.
func CompileFilter(pattern string) (*Filter, error) {
	pattern = strings.TrimSpace(pattern)
	f := &Filter{pattern: pattern}

	switch {
	case pattern == "":
		return f, nil
	case strings.HasPrefix(pattern, GlobPrefix):
		f.glob = strings.TrimPrefix(pattern, GlobPrefix)
		if f.glob == "" || !doublestar.ValidatePattern(f.glob) {
			return nil, fserr.New(fserr.KindInvalidParameter, "filter pattern", "", errors.Errorf("%q is not a valid glob", f.glob))
		}
		return f, nil
	default:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fserr.New(fserr.KindInvalidParameter, "filter pattern", "", errors.Errorf("%q is not a valid regular expression: %w", pattern, err))
		}
		f.re = re
		return f, nil
	}
}

// Match reports whether name passes the filter.
func (f *Filter) Match(name string) bool {
	switch {
	case f.re != nil:
		return f.re.MatchString(name)
	case f.glob != "":
		ok, err := doublestar.Match(f.glob, name)
		return err == nil && ok
	default:
		return true
	}
}

func (f *Filter) String() string {
	return f.pattern
}
