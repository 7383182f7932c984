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

// Package staging keeps copies of selected items in a private temporary area
// until they are pasted somewhere.
package staging

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/treecopy"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrNothingStaged is returned by Drain when no copy is waiting.
var ErrNothingStaged = fserr.New(fserr.KindInvalidParameter, "paste", "", errors.New("nothing has been copied"))

// 📊 Gauge tracks the size of the staged set
type Gauge interface {
	SetStaged(n int)
}

// 🔧 Options configures a Store
type Options struct {
	// Root is the parent of the private staging directory, os.TempDir() when empty
	Root string
	// Copier performs the byte copies (required)
	Copier *treecopy.Copier
	// SkipSpaceCheck disables the free space check before staging
	SkipSpaceCheck bool
	// Gauge is optional
	Gauge Gauge
}

// 📦 Store is the staging area. Every read-modify-write of the staged set
// happens under one lock, so copy and paste never interleave.
type Store struct {
	mu     sync.Mutex
	dir    string
	batch  string
	staged []string
	seq    int

	copier     *treecopy.Copier
	checkSpace bool
	gauge      Gauge
}

// 🏭 New creates the private staging directory
func New(opts Options) (*Store, error) {
	if opts.Copier == nil {
		return nil, errors.Errorf("copier is required")
	}
	dir, err := os.MkdirTemp(opts.Root, "twinpane-staging-")
	if err != nil {
		return nil, errors.Errorf("creating staging directory: %w", err)
	}
	return &Store{
		dir:        dir,
		copier:     opts.Copier,
		checkSpace: !opts.SkipSpaceCheck,
		gauge:      opts.Gauge,
	}, nil
}

// Dir returns the private staging directory.
func (s *Store) Dir() string {
	return s.dir
}

// 📋 Staged returns a snapshot of the staged paths
func (s *Store) Staged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.staged...)
}

// 🧹 Clear discards the staged set and its files
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) error {
	if s.batch != "" {
		zerolog.Ctx(ctx).Debug().Str("batch", s.batch).Msg("clearing staged batch")
		if err := os.RemoveAll(s.batch); err != nil {
			return fserr.Wrap("clear staging", s.batch, err)
		}
	}
	s.batch = ""
	s.staged = nil
	s.setGauge()
	return nil
}

func (s *Store) setGauge() {
	if s.gauge != nil {
		s.gauge.SetStaged(len(s.staged))
	}
}

// 📥 StageCopy copies items into a fresh batch, replacing whatever was staged
// before. Items are staged with up to parallelism workers and directories are
// copied with the same bound per level. Items that failed are left out of the
// returned set; whatever was already written stays.
func (s *Store) StageCopy(ctx context.Context, items []*catalog.Entry, parallelism int, opts ...treecopy.CallOption) ([]string, error) {
	if err := treecopy.ValidateParallelism(parallelism); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Kind == catalog.KindDirectory && treecopy.Within(s.dir, item.FullPath) {
			return nil, fserr.New(fserr.KindInvalidParameter, "selection", item.FullPath,
				errors.New("the staging area lies inside this directory"))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	if err := s.clearLocked(ctx); err != nil {
		return nil, err
	}

	if s.checkSpace {
		if err := s.ensureSpace(ctx, items); err != nil {
			return nil, err
		}
	}

	s.seq++
	batch := filepath.Join(s.dir, fmt.Sprintf("batch-%d", s.seq))
	if err := os.MkdirAll(batch, 0o700); err != nil {
		return nil, fserr.Wrap("create staging batch", batch, err)
	}
	s.batch = batch

	var (
		g       errgroup.Group
		mu      sync.Mutex
		errs    []error
		results = make([]string, len(items))
	)
	g.SetLimit(parallelism)

	for i, item := range items {
		g.Go(func() error {
			dst := filepath.Join(batch, item.Name)

			var err error
			if item.Kind == catalog.KindDirectory {
				err = s.copier.CopyTree(ctx, item.FullPath, dst, true, parallelism, opts...)
			} else {
				err = s.copier.CopyFile(ctx, item.FullPath, dst, opts...)
			}

			if _, statErr := os.Lstat(dst); statErr == nil {
				results[i] = dst
			}
			if err != nil {
				logger.Debug().Err(err).Str("item", item.FullPath).Msg("staging failed")
				mu.Lock()
				errs = append(errs, fserr.New(fserr.KindIOFailure, "stage", item.FullPath, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range results {
		if p != "" {
			s.staged = append(s.staged, p)
		}
	}
	s.setGauge()

	logger.Debug().Int("staged", len(s.staged)).Int("failed", len(errs)).Msg("staging complete")

	return append([]string(nil), s.staged...), errors.Join(errs...)
}

// 📤 Drain hands the staged set to fn under the staging lock and clears it
// when fn succeeds. A failing fn leaves the set staged for another attempt.
func (s *Store) Drain(ctx context.Context, fn func(ctx context.Context, staged []string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) == 0 {
		return ErrNothingStaged
	}

	if err := fn(ctx, append([]string(nil), s.staged...)); err != nil {
		return err
	}
	return s.clearLocked(ctx)
}

// Close removes the staging directory and everything in it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
	s.batch = ""
	if err := os.RemoveAll(s.dir); err != nil {
		return fserr.Wrap("remove staging", s.dir, err)
	}
	return nil
}

func validateItems(items []*catalog.Entry) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !item.Selectable() {
			return fserr.New(fserr.KindInvalidParameter, "selection", item.FullPath, errors.Errorf("%s entries cannot be copied", item.Kind))
		}
		if seen[item.Name] {
			return fserr.New(fserr.KindInvalidParameter, "selection", item.FullPath, errors.Errorf("duplicate name %q", item.Name))
		}
		seen[item.Name] = true
	}
	return nil
}

func (s *Store) ensureSpace(ctx context.Context, items []*catalog.Entry) error {
	var need int64
	for _, item := range items {
		n, err := treeSize(ctx, item.FullPath)
		if err != nil {
			return fserr.New(fserr.KindIOFailure, "stage", item.FullPath, err)
		}
		need += n
	}

	free, err := catalog.FreeSpace(s.dir)
	if err != nil {
		// unknown free space is not a reason to refuse
		zerolog.Ctx(ctx).Debug().Err(err).Msg("free space unavailable")
		return nil
	}
	if need > 0 && uint64(need) > free {
		return fserr.New(fserr.KindIOFailure, "stage", s.dir,
			errors.Errorf("needs %s but only %s is free", catalog.HumanSize(need), catalog.HumanSizeUnsigned(free)))
	}
	return nil
}

func treeSize(ctx context.Context, root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}
