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

package trash_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/trash"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestTrashFreedesktopLayout tests files/ and info/ entries
func TestTrashFreedesktopLayout(t *testing.T) {
	ctx := testContext(t)
	binDir := t.TempDir()
	bin := trash.New(binDir)

	work := t.TempDir()
	victim := filepath.Join(work, "old report.txt")
	require.NoError(t, os.WriteFile(victim, []byte("bye"), 0o644))

	require.NoError(t, bin.Trash(ctx, victim))
	assert.NoFileExists(t, victim)

	data, err := os.ReadFile(filepath.Join(bin.FilesDir(), "old report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bye", string(data))

	info, err := os.ReadFile(filepath.Join(binDir, "info", "old report.txt.trashinfo"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(info)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[Trash Info]", lines[0])
	assert.Equal(t, "Path="+strings.ReplaceAll(victim, " ", "%20"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "DeletionDate="))
}

// 🧪 TestTrashNameCollisions tests that equal names get numbered suffixes
func TestTrashNameCollisions(t *testing.T) {
	ctx := testContext(t)
	bin := trash.New(t.TempDir())

	for i := 0; i < 3; i++ {
		dir := t.TempDir()
		p := filepath.Join(dir, "same.txt")
		require.NoError(t, os.WriteFile(p, []byte{byte('a' + i)}, 0o644))
		require.NoError(t, bin.Trash(ctx, p))
	}

	for _, name := range []string{"same.txt", "same.txt.2", "same.txt.3"} {
		assert.FileExists(t, filepath.Join(bin.FilesDir(), name))
	}
}

// 🧪 TestTrashDirectoryAndFlat tests trashing a directory into a flat bin
func TestTrashDirectoryAndFlat(t *testing.T) {
	ctx := testContext(t)
	flat := t.TempDir()
	bin := trash.NewFlat(flat)

	dir := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main"), 0o644))

	require.NoError(t, bin.Trash(ctx, dir))
	assert.NoDirExists(t, dir)
	assert.FileExists(t, filepath.Join(flat, "project", "src", "main.go"))
}

// 🧪 TestTrashMissing tests the error for a path that is already gone
func TestTrashMissing(t *testing.T) {
	err := trash.New(t.TempDir()).Trash(testContext(t), filepath.Join(t.TempDir(), "ghost"))
	require.Error(t, err)
	assert.True(t, fserr.IsKind(err, fserr.KindNotFound))
}

// 🧪 TestDefaultOverride tests the explicit directory override
func TestDefaultOverride(t *testing.T) {
	dir := t.TempDir()
	bin, err := trash.Default(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "files"), bin.FilesDir())
}
