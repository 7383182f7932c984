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

package fserr_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestClassify tests mapping of raw errors onto kinds
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want fserr.Kind
	}{
		{name: "nil", err: nil, want: fserr.KindUnknown},
		{name: "permission", err: &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, want: fserr.KindAccessDenied},
		{name: "eacces_errno", err: &fs.PathError{Op: "open", Path: "/x", Err: syscall.EACCES}, want: fserr.KindAccessDenied},
		{name: "not_exist", err: &fs.PathError{Op: "stat", Path: "/x", Err: fs.ErrNotExist}, want: fserr.KindNotFound},
		{name: "exists", err: fs.ErrExist, want: fserr.KindConflict},
		{name: "not_empty", err: syscall.ENOTEMPTY, want: fserr.KindConflict},
		{name: "no_space", err: &fs.PathError{Op: "write", Path: "/x", Err: syscall.ENOSPC}, want: fserr.KindIOFailure},
		{name: "canceled", err: errors.Errorf("copying: %w", context.Canceled), want: fserr.KindCanceledByUser},
		{name: "already_classified", err: errors.Errorf("wrapped: %w", fserr.New(fserr.KindSourceNotFound, "copy", "/src", nil)), want: fserr.KindSourceNotFound},
		{name: "plain", err: errors.New("boom"), want: fserr.KindIOFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fserr.Classify(tt.err))
		})
	}
}

// 🧪 TestWrapRealFilesystemErrors tests classification of errors produced by the os package
func TestWrapRealFilesystemErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := os.Stat(missing)
	require.Error(t, err)

	wrapped := fserr.Wrap("stat", missing, err)
	assert.True(t, fserr.IsKind(wrapped, fserr.KindNotFound))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist, "original cause should stay reachable")
	assert.Contains(t, fserr.Message(wrapped), missing)

	assert.NoError(t, fserr.Wrap("stat", missing, nil))
}

// 🧪 TestWrapKeepsInnerPath tests that an already classified error keeps its own path
func TestWrapKeepsInnerPath(t *testing.T) {
	inner := fserr.New(fserr.KindConflict, "paste", "/dst/a.txt", nil)
	outer := fserr.Wrap("paste", "/dst", errors.Errorf("pasting: %w", inner))

	var fe *fserr.Error
	require.True(t, errors.As(outer, &fe))
	assert.Equal(t, "/dst/a.txt", fe.Path)
}

// 🧪 TestIsMatchesKind tests sentinel comparison by kind
func TestIsMatchesKind(t *testing.T) {
	err := errors.Errorf("prompt: %w", fserr.New(fserr.KindCanceledByUser, "threads", "", nil))
	assert.ErrorIs(t, err, fserr.ErrCanceledByUser)
	assert.NotErrorIs(t, err, &fserr.Error{Kind: fserr.KindConflict})
}

// 🧪 TestMessage tests the user facing message per kind
func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "denied", err: fserr.New(fserr.KindAccessDenied, "list", "/root", nil), want: `Access to "/root" was denied`},
		{name: "conflict", err: fserr.New(fserr.KindConflict, "paste", "/dst/a", nil), want: `"/dst/a" already exists`},
		{name: "source", err: fserr.New(fserr.KindSourceNotFound, "copy tree", "/src", nil), want: `Source "/src" is not a directory or does not exist`},
		{name: "invalid", err: fserr.New(fserr.KindInvalidParameter, "thread count", "", errors.New("must be between 1 and 255")), want: "Invalid thread count: must be between 1 and 255"},
		{name: "io", err: fserr.New(fserr.KindIOFailure, "trash", "/a/b", errors.New("busy")), want: `trash "/a/b" failed: busy`},
		{name: "canceled", err: fserr.ErrCanceledByUser, want: "Operation canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fserr.Message(tt.err))
		})
	}
}
