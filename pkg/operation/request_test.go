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

package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/operation"
	"github.com/walteh/twinpane/pkg/text"
)

func TestNewRequest(t *testing.T) {
	file := &catalog.Entry{Name: "a.txt", FullPath: "/src/a.txt", Kind: catalog.KindFile}
	dir := &catalog.Entry{Name: "d", FullPath: "/src/d", Kind: catalog.KindDirectory}
	drive := &catalog.Entry{Name: "/", FullPath: "/", Kind: catalog.KindDrive}

	tests := []struct {
		name    string
		params  operation.RequestParams
		wantErr bool
	}{
		{name: "copy_ok", params: operation.RequestParams{Action: operation.ActionCopy, Items: []*catalog.Entry{file}, Parallelism: 4}},
		{name: "copy_no_items", params: operation.RequestParams{Action: operation.ActionCopy, Parallelism: 4}, wantErr: true},
		{name: "zero_threads", params: operation.RequestParams{Action: operation.ActionCopy, Items: []*catalog.Entry{file}, Parallelism: 0}, wantErr: true},
		{name: "max_threads", params: operation.RequestParams{Action: operation.ActionCopy, Items: []*catalog.Entry{file}, Parallelism: operation.MaxThreads}},
		{name: "too_many_threads", params: operation.RequestParams{Action: operation.ActionCopy, Items: []*catalog.Entry{file}, Parallelism: operation.MaxThreads + 1}, wantErr: true},
		{name: "drive_not_selectable", params: operation.RequestParams{Action: operation.ActionCopy, Items: []*catalog.Entry{drive}, Parallelism: 1}, wantErr: true},
		{name: "filter_required_empty", params: operation.RequestParams{Action: operation.ActionMove, Items: []*catalog.Entry{dir}, Parallelism: 1, TargetPath: "/dst", FilterRequired: true, FilterPattern: "  "}, wantErr: true},
		{name: "filter_invalid_regex", params: operation.RequestParams{Action: operation.ActionMove, Items: []*catalog.Entry{dir}, Parallelism: 1, TargetPath: "/dst", FilterPattern: "("}, wantErr: true},
		{name: "move_needs_target", params: operation.RequestParams{Action: operation.ActionMove, Items: []*catalog.Entry{file}, Parallelism: 1}, wantErr: true},
		{name: "paste_without_items", params: operation.RequestParams{Action: operation.ActionPaste, Parallelism: 2, TargetPath: "/dst"}},
		{name: "delete_ignores_threads", params: operation.RequestParams{Action: operation.ActionDelete, Items: []*catalog.Entry{file, dir}}},
		{name: "rename_needs_rule", params: operation.RequestParams{Action: operation.ActionRename, Items: []*catalog.Entry{file}}, wantErr: true},
		{name: "rename_bad_rule", params: operation.RequestParams{Action: operation.ActionRename, Items: []*catalog.Entry{file}, Rename: &text.ReplacementRule{FromText: "["}}, wantErr: true},
		{name: "rename_ok", params: operation.RequestParams{Action: operation.ActionRename, Items: []*catalog.Entry{file}, Rename: &text.ReplacementRule{FromText: "a", ToText: "b"}}},
		{name: "unknown_action", params: operation.RequestParams{Action: operation.Action(42)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := operation.NewRequest(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, fserr.IsKind(err, fserr.KindInvalidParameter), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.params.Action, req.Action())
		})
	}
}

func TestRequestIsImmutable(t *testing.T) {
	a := &catalog.Entry{Name: "a", FullPath: "/a", Kind: catalog.KindFile}
	b := &catalog.Entry{Name: "b", FullPath: "/b", Kind: catalog.KindFile}
	items := []*catalog.Entry{a, b}

	req, err := operation.NewRequest(operation.RequestParams{Action: operation.ActionDelete, Items: items})
	require.NoError(t, err)

	items[0] = b
	got := req.Items()
	got[1] = a

	assert.Equal(t, []string{"a", "b"}, entryNames(req.Items()))
	assert.Equal(t, 1, req.Parallelism(), "delete runs sequentially")
	assert.Empty(t, req.Filter())
}

func TestParseParallelism(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: " 8 ", want: 8},
		{in: "255", want: 255},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "256", wantErr: true},
		{in: "eight", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := operation.ParseParallelism(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, fserr.IsKind(err, fserr.KindInvalidParameter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range operation.Actions() {
		got, err := operation.ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := operation.ParseAction("shred")
	assert.Error(t, err)
}

func TestFilterRequired(t *testing.T) {
	file := &catalog.Entry{Name: "a", Kind: catalog.KindFile}
	dir := &catalog.Entry{Name: "d", Kind: catalog.KindDirectory}

	assert.False(t, operation.FilterRequired(nil))
	assert.False(t, operation.FilterRequired([]*catalog.Entry{file}))
	assert.True(t, operation.FilterRequired([]*catalog.Entry{dir}))
	assert.True(t, operation.FilterRequired([]*catalog.Entry{file, file}))
}
