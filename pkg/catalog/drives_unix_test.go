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

//go:build !windows

package catalog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
)

// 🧪 TestListDrivesFromMountTable tests volume discovery from a mount table
func TestListDrivesFromMountTable(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	spaced := filepath.Join(dir, "my disk")
	require.NoError(t, os.Mkdir(spaced, 0o755))

	table := filepath.Join(dir, "mounts")
	content := fmt.Sprintf(
		"/dev/sda1 %s ext4 rw,relatime 0 0\nproc /proc proc rw 0 0\n/dev/sdb1 %s xfs rw 0 0\n/dev/sda1 %s ext4 rw 0 0\n",
		dir, filepath.Join(dir, `my\040disk`), dir,
	)
	require.NoError(t, os.WriteFile(table, []byte(content), 0o644))

	cat := catalog.New(catalog.Options{MountTable: table})
	entries, err := cat.List(ctx, "", catalog.SideRight)
	require.NoError(t, err)
	require.Len(t, entries, 2, "pseudo filesystems and duplicates are skipped")

	assert.Equal(t, dir, entries[0].FullPath)
	assert.Equal(t, spaced, entries[1].FullPath)
	for _, e := range entries {
		assert.Equal(t, catalog.KindDrive, e.Kind)
		assert.Equal(t, catalog.SideRight, e.Side)
		assert.NotZero(t, e.TotalBytes)
		assert.LessOrEqual(t, e.FreeBytes, e.TotalBytes)
		assert.Contains(t, e.HumanSize, " / ")
	}
	assert.Equal(t, "ext4 --- /dev/sda1", entries[0].Info)
	assert.Equal(t, "xfs --- /dev/sdb1", entries[1].Info)
}

// 🧪 TestListDrivesFallback tests the root-only fallback without a mount table
func TestListDrivesFallback(t *testing.T) {
	ctx := testContext(t)
	cat := catalog.New(catalog.Options{MountTable: filepath.Join(t.TempDir(), "absent")})

	entries, err := cat.ListDrives(ctx, catalog.SideLeft)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/", entries[0].FullPath)
}

// 🧪 TestListDrivesUnreadableVolumes tests the error when no volume can be stat'ed
func TestListDrivesUnreadableVolumes(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	table := filepath.Join(dir, "mounts")
	require.NoError(t, os.WriteFile(table, []byte("/dev/x "+filepath.Join(dir, "missing")+" ext4 rw 0 0\n"), 0o644))

	_, err := catalog.New(catalog.Options{MountTable: table}).ListDrives(ctx, catalog.SideLeft)
	require.Error(t, err)
	assert.True(t, fserr.IsKind(err, fserr.KindNotFound))
}

// 🧪 TestFreeSpace tests the free space lookup
func TestFreeSpace(t *testing.T) {
	free, err := catalog.FreeSpace(t.TempDir())
	require.NoError(t, err)
	assert.NotZero(t, free)

	_, err = catalog.FreeSpace(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
