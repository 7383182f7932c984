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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// DefaultMountTable is read to discover mounted volumes.
const DefaultMountTable = "/proc/self/mounts"

// 🔧 Options configures a Catalog
type Options struct {
	// HideHidden drops dot-entries from listings
	HideHidden bool
	// MountTable overrides DefaultMountTable
	MountTable string
}

// 📚 Catalog lists directories and volumes
type Catalog struct {
	opts Options
}

// 🏭 New creates a catalog
func New(opts Options) *Catalog {
	if opts.MountTable == "" {
		opts.MountTable = DefaultMountTable
	}
	return &Catalog{opts: opts}
}

// 📋 List returns the entries of dir for the given pane side. An empty dir
// lists the mounted volumes instead. Directory listings start with the parent
// marker followed by directories, then files, each in case-insensitive name order.
func (c *Catalog) List(ctx context.Context, dir string, side Side) ([]*Entry, error) {
	if dir == "" {
		return c.ListDrives(ctx, side)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("dir", dir).Str("side", side.String()).Msg("listing directory")

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fserr.Wrap("list", dir, err)
	}

	entries := make([]*Entry, 0, len(dirents))
	for _, d := range dirents {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("listing %s: %w", dir, err)
		}
		if c.opts.HideHidden && IsHiddenName(d.Name()) {
			continue
		}
		entry, err := newEntry(filepath.Join(dir, d.Name()), d, side)
		if err != nil {
			// vanished between the directory read and the stat
			logger.Debug().Err(err).Str("name", d.Name()).Msg("skipping entry")
			continue
		}
		entries = append(entries, entry)
	}

	SortListing(entries)
	return append([]*Entry{NewParentMarker(side)}, entries...), nil
}

func newEntry(full string, d fs.DirEntry, side Side) (*Entry, error) {
	info, err := d.Info()
	if err != nil {
		return nil, err
	}

	e := &Entry{
		Name:      d.Name(),
		FullPath:  full,
		Kind:      KindFile,
		Hidden:    IsHiddenName(d.Name()),
		Side:      side,
		ItemCount: -1,
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		e.IsSymlink = true
		target, err := os.Stat(full)
		if err != nil {
			// dangling or cyclic link: listed as a file without a date
			e.HumanSize = HumanSize(0)
			e.Info = infoFor(e.Name, e.Kind, e.Hidden)
			return e, nil
		}
		info = target
	}

	if info.IsDir() {
		e.Kind = KindDirectory
	} else {
		e.SizeBytes = info.Size()
		e.HumanSize = HumanSize(e.SizeBytes)
	}
	mod := info.ModTime().UTC()
	e.LastModified = &mod
	e.Info = infoFor(e.Name, e.Kind, e.Hidden)
	return e, nil
}

// 🔃 SortListing orders entries the way a fresh listing shows them: parent
// marker first, containers before files, then case-insensitive by name.
func SortListing(entries []*Entry) {
	slices.SortStableFunc(entries, compareListing)
}

func compareListing(a, b *Entry) int {
	if ra, rb := listingRank(a), listingRank(b); ra != rb {
		return ra - rb
	}
	return compareNames(a.Name, b.Name)
}

func listingRank(e *Entry) int {
	switch e.Kind {
	case KindParentMarker:
		return 0
	case KindDirectory, KindDrive:
		return 1
	default:
		return 2
	}
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// 🔢 CountFiles counts the non-directory entries below dir. Unreadable
// subdirectories are skipped rather than failing the count.
func (c *Catalog) CountFiles(ctx context.Context, dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fserr.Wrap("count", dir, err)
	}
	if !info.IsDir() {
		return 1, nil
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return walkErr
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		return count, fserr.Wrap("count", dir, err)
	}
	return count, nil
}

// EnsureItemCount fills e.ItemCount for a directory entry that has not been
// counted yet and returns the number of progress units the entry represents.
func (c *Catalog) EnsureItemCount(ctx context.Context, e *Entry) (int, error) {
	if e.Kind != KindDirectory {
		return 1, nil
	}
	if e.ItemCount >= 0 {
		return e.ItemCount, nil
	}
	n, err := c.CountFiles(ctx, e.FullPath)
	if err != nil {
		return 0, err
	}
	e.ItemCount = n
	return n, nil
}

// Stat builds a single entry for path, used when a command addresses files
// directly instead of through a listing.
func Stat(path string, side Side) (*Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return nil, fserr.Wrap("stat", abs, err)
	}
	return newEntry(abs, fs.FileInfoToDirEntry(info), side)
}
