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

package staging_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/staging"
	"github.com/walteh/twinpane/pkg/treecopy"
	"gitlab.com/tozd/go/errors"
)

type fixture struct {
	ctx   context.Context
	store *staging.Store
	src   string
}

func newFixture(t *testing.T, opts staging.Options) *fixture {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	if opts.Copier == nil {
		opts.Copier = treecopy.New(treecopy.Options{})
	}
	if opts.Root == "" {
		opts.Root = t.TempDir()
	}
	store, err := staging.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	src := t.TempDir()
	for rel, content := range map[string]string{
		"report.txt":         "quarterly",
		"photos/one.jpg":     "1",
		"photos/two.jpg":     "2",
		"photos/raw/big.raw": "raw",
		"notes.md":           "notes",
	} {
		p := filepath.Join(src, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	return &fixture{ctx: ctx, store: store, src: src}
}

func (f *fixture) entry(t *testing.T, name string) *catalog.Entry {
	t.Helper()
	e, err := catalog.Stat(filepath.Join(f.src, name), catalog.SideLeft)
	require.NoError(t, err)
	return e
}

// 🧪 TestStageCopyRoundTrip tests that staged copies match their sources
func TestStageCopyRoundTrip(t *testing.T) {
	f := newFixture(t, staging.Options{})

	staged, err := f.store.StageCopy(f.ctx, []*catalog.Entry{f.entry(t, "report.txt"), f.entry(t, "photos")}, 2)
	require.NoError(t, err)
	require.Len(t, staged, 2)

	assert.Equal(t, staged, f.store.Staged())
	for _, p := range staged {
		assert.True(t, filepath.IsAbs(p))
		rel, err := filepath.Rel(f.store.Dir(), p)
		require.NoError(t, err)
		assert.NotContains(t, rel, "..", "staged paths live in the staging area")
	}

	assert.Equal(t, "report.txt", filepath.Base(staged[0]))
	data, err := os.ReadFile(staged[0])
	require.NoError(t, err)
	assert.Equal(t, "quarterly", string(data))

	data, err = os.ReadFile(filepath.Join(staged[1], "raw", "big.raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))
}

// 🧪 TestStageCopyReplacesPreviousSet tests that a new copy discards the old batch
func TestStageCopyReplacesPreviousSet(t *testing.T) {
	f := newFixture(t, staging.Options{})

	first, err := f.store.StageCopy(f.ctx, []*catalog.Entry{f.entry(t, "report.txt")}, 1)
	require.NoError(t, err)

	second, err := f.store.StageCopy(f.ctx, []*catalog.Entry{f.entry(t, "notes.md")}, 1)
	require.NoError(t, err)

	assert.Equal(t, second, f.store.Staged())
	assert.NoFileExists(t, first[0])
	assert.FileExists(t, second[0])
}

// 🧪 TestStageCopyVanishedSource tests the failure when a source disappeared
func TestStageCopyVanishedSource(t *testing.T) {
	for _, skip := range []bool{false, true} {
		t.Run(map[bool]string{false: "with_space_check", true: "without_space_check"}[skip], func(t *testing.T) {
			f := newFixture(t, staging.Options{SkipSpaceCheck: skip})
			gone := f.entry(t, "notes.md")
			keep := f.entry(t, "report.txt")
			require.NoError(t, os.Remove(gone.FullPath))

			_, err := f.store.StageCopy(f.ctx, []*catalog.Entry{keep, gone}, 2)
			require.Error(t, err)
			assert.True(t, fserr.IsKind(err, fserr.KindIOFailure))

			if skip {
				// the surviving item is staged and not rolled back
				assert.Len(t, f.store.Staged(), 1)
			}
		})
	}
}

// 🧪 TestStageCopyRejectsInvalidSelections tests selection validation
func TestStageCopyRejectsInvalidSelections(t *testing.T) {
	f := newFixture(t, staging.Options{})
	report := f.entry(t, "report.txt")

	tests := []struct {
		name        string
		items       []*catalog.Entry
		parallelism int
	}{
		{name: "parent_marker", items: []*catalog.Entry{catalog.NewParentMarker(catalog.SideLeft)}, parallelism: 1},
		{name: "duplicate_names", items: []*catalog.Entry{report, report}, parallelism: 1},
		{name: "zero_parallelism", items: []*catalog.Entry{report}, parallelism: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.store.StageCopy(f.ctx, tt.items, tt.parallelism)
			assert.True(t, fserr.IsKind(err, fserr.KindInvalidParameter))
		})
	}
}

// 🧪 TestStageCopyRejectsDirectoryHoldingStagingArea tests that a directory
// containing the staging area is refused before anything is copied
func TestStageCopyRejectsDirectoryHoldingStagingArea(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "todo.txt"), []byte("milk"), 0o644))
	f := newFixture(t, staging.Options{Root: home})

	staged, err := f.store.StageCopy(f.ctx, []*catalog.Entry{f.entry(t, "report.txt")}, 1)
	require.NoError(t, err)
	require.Len(t, staged, 1)

	entry, err := catalog.Stat(home, catalog.SideLeft)
	require.NoError(t, err)

	for _, parallelism := range []int{1, 4} {
		_, err = f.store.StageCopy(f.ctx, []*catalog.Entry{entry}, parallelism)
		require.Error(t, err)
		assert.True(t, fserr.IsKind(err, fserr.KindInvalidParameter), "got %v", err)
	}

	assert.Equal(t, staged, f.store.Staged(), "the previous set stays staged")
	batches, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)
	assert.Len(t, batches, 1, "no batch is created for a refused selection")
}

// 🧪 TestDrain tests that a successful drain clears the set and a failed one keeps it
func TestDrain(t *testing.T) {
	f := newFixture(t, staging.Options{})

	err := f.store.Drain(f.ctx, func(context.Context, []string) error { return nil })
	assert.ErrorIs(t, err, staging.ErrNothingStaged)

	staged, err := f.store.StageCopy(f.ctx, []*catalog.Entry{f.entry(t, "report.txt")}, 1)
	require.NoError(t, err)

	boom := errors.New("paste failed")
	err = f.store.Drain(f.ctx, func(_ context.Context, got []string) error {
		assert.Equal(t, staged, got)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, staged, f.store.Staged())

	require.NoError(t, f.store.Drain(f.ctx, func(context.Context, []string) error { return nil }))
	assert.Empty(t, f.store.Staged())
	assert.NoFileExists(t, staged[0])
}

// 🧪 TestConcurrentCopyAndDrain tests that copy and paste never observe a half written set
func TestConcurrentCopyAndDrain(t *testing.T) {
	f := newFixture(t, staging.Options{SkipSpaceCheck: true})
	items := []*catalog.Entry{f.entry(t, "report.txt"), f.entry(t, "photos"), f.entry(t, "notes.md")}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.store.StageCopy(f.ctx, items, 3)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			err := f.store.Drain(f.ctx, func(_ context.Context, staged []string) error {
				assert.Len(t, staged, len(items))
				for _, p := range staged {
					_, err := os.Stat(p)
					assert.NoError(t, err, "staged path must exist while drained")
				}
				return nil
			})
			if err != nil {
				assert.ErrorIs(t, err, staging.ErrNothingStaged)
			}
		}()
	}
	wg.Wait()
}

type gauge struct{ last int }

func (g *gauge) SetStaged(n int) { g.last = n }

// 🧪 TestGaugeAndClose tests the staged gauge and cleanup
func TestGaugeAndClose(t *testing.T) {
	g := &gauge{}
	f := newFixture(t, staging.Options{Gauge: g})

	_, err := f.store.StageCopy(f.ctx, []*catalog.Entry{f.entry(t, "report.txt"), f.entry(t, "notes.md")}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, g.last)

	require.NoError(t, f.store.Clear(f.ctx))
	assert.Equal(t, 0, g.last)

	require.NoError(t, f.store.Close())
	assert.NoDirExists(t, f.store.Dir())
}

func TestNewRequiresCopier(t *testing.T) {
	_, err := staging.New(staging.Options{Root: t.TempDir()})
	assert.Error(t, err)
}
