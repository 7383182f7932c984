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


package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/walteh/twinpane/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

const dateLayout = "2006-01-02 15:04"

type headerFunc func(key catalog.SortKey) string

// 🧾 renderEntries writes entries as a table with one column per sort key
func renderEntries(w io.Writer, entries []*catalog.Entry, header headerFunc, selected func(*catalog.Entry) bool) error {
	data := pterm.TableData{{
		" ",
		header(catalog.SortByName),
		header(catalog.SortByInfo),
		header(catalog.SortBySize),
		header(catalog.SortByDate),
	}}
	for _, e := range entries {
		mark := " "
		if selected != nil && selected(e) {
			mark = "*"
		}
		date := ""
		if e.LastModified != nil {
			date = e.LastModified.Local().Format(dateLayout)
		}
		name := e.Name
		if e.IsContainer() && e.Kind != catalog.KindDrive {
			name += "/"
		}
		data = append(data, []string{mark, name, e.Info, e.HumanSize, date})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
