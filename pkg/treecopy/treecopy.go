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

// Package treecopy copies directory trees with a bounded worker batch per
// directory level.
//
//	copyTree(src, dst, recurse, n)
//	  ├── mkdir dst
//	  ├── files   ──▶ up to n workers ──▶ CopyFile
//	  └── subdirs ──▶ same batch ──▶ copyTree(sub, ..., n)   (own batch of n)
//
// Concurrency multiplies with depth, so callers keep n small. A failing file
// only fails itself; the call returns after every file and subdirectory it
// started has finished and reports all failures together. Nothing already
// written is rolled back.
package treecopy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/otiai10/copy"
	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📊 Recorder receives per-file outcomes
type Recorder interface {
	FileCopied(bytes int64)
	FileFailed()
}

// 🔧 Options configures a Copier
type Options struct {
	// PreserveTimes keeps source modification times on copies
	PreserveTimes bool
	// Sync flushes each file to disk before it is reported done
	Sync bool
	// Recorder is optional
	Recorder Recorder
}

// 📁 Copier copies files and directory trees
type Copier struct {
	opts Options
}

// 🏭 New creates a copier
func New(opts Options) *Copier {
	return &Copier{opts: opts}
}

// FileFunc observes every file a call finished, successfully or not.
type FileFunc func(source, destination string, err error)

// CallOption adjusts a single copy call.
type CallOption func(*callConfig)

type callConfig struct {
	onFile FileFunc
}

// OnFile registers fn to be called after each file of the call.
func OnFile(fn FileFunc) CallOption {
	return func(c *callConfig) {
		c.onFile = fn
	}
}

func newCallConfig(opts []CallOption) *callConfig {
	cfg := &callConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// ValidateParallelism rejects worker counts below one.
func ValidateParallelism(n int) error {
	if n < 1 {
		return fserr.New(fserr.KindInvalidParameter, "parallelism", "", errors.Errorf("must be at least 1, got %d", n))
	}
	return nil
}

// 🌲 CopyTree copies the directory source into destination. Subdirectories
// are only visited when recurse is set.
func (c *Copier) CopyTree(ctx context.Context, source, destination string, recurse bool, parallelism int, opts ...CallOption) error {
	if err := ValidateParallelism(parallelism); err != nil {
		return err
	}

	// a destination below the source would list its own output and nest forever
	if recurse && Within(destination, source) {
		return fserr.New(fserr.KindInvalidParameter, "copy tree", destination,
			errors.Errorf("destination is inside the source %s", source))
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", source).
		Str("destination", destination).
		Bool("recurse", recurse).
		Int("parallelism", parallelism).
		Msg("copying tree")

	return c.copyTree(ctx, source, destination, recurse, parallelism, newCallConfig(opts))
}

func (c *Copier) copyTree(ctx context.Context, source, destination string, recurse bool, parallelism int, cfg *callConfig) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("copying %s: %w", source, err)
	}

	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return fserr.New(fserr.KindSourceNotFound, "copy tree", source, err)
	}

	if err := os.MkdirAll(destination, info.Mode().Perm()|0o700); err != nil {
		return fserr.Wrap("create directory", destination, err)
	}

	dirents, err := os.ReadDir(source)
	if err != nil {
		return fserr.Wrap("read directory", source, err)
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(parallelism)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	for _, d := range dirents {
		if ctx.Err() != nil {
			break
		}

		src := filepath.Join(source, d.Name())
		dst := filepath.Join(destination, d.Name())

		if d.IsDir() {
			if !recurse {
				continue
			}
			g.Go(func() error {
				if err := c.copyTree(ctx, src, dst, true, parallelism, cfg); err != nil && ctx.Err() == nil {
					record(err)
				}
				return nil
			})
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := c.copyFile(ctx, src, dst, cfg); err != nil {
				record(err)
			}
			return nil
		})
	}

	// every worker returns nil, Wait only joins
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, errors.Errorf("copying %s: %w", source, err))
	}
	return errors.Join(errs...)
}

// 📄 CopyFile copies a single file, or recreates a symlink, at destination
func (c *Copier) CopyFile(ctx context.Context, source, destination string, opts ...CallOption) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("copying %s: %w", source, err)
	}
	return c.copyFile(ctx, source, destination, newCallConfig(opts))
}

func (c *Copier) copyFile(ctx context.Context, source, destination string, cfg *callConfig) (err error) {
	defer func() {
		if cfg.onFile != nil {
			cfg.onFile(source, destination, err)
		}
	}()

	info, err := os.Lstat(source)
	if err != nil {
		c.failed()
		return fserr.Wrap("copy", source, err)
	}

	err = copy.Copy(source, destination, copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
		PreserveTimes: c.opts.PreserveTimes,
		Sync:          c.opts.Sync,
	})
	if err != nil {
		c.failed()
		zerolog.Ctx(ctx).Debug().Err(err).Str("source", source).Msg("file copy failed")
		return fserr.Wrap("copy", destination, err)
	}

	if c.opts.Recorder != nil {
		c.opts.Recorder.FileCopied(info.Size())
	}
	return nil
}

func (c *Copier) failed() {
	if c.opts.Recorder != nil {
		c.opts.Recorder.FileFailed()
	}
}

// 🔍 Failures flattens an aggregated copy error into its classified leaves
func Failures(err error) []*fserr.Error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*fserr.Error
		for _, e := range multi.Unwrap() {
			out = append(out, Failures(e)...)
		}
		return out
	}
	var fe *fserr.Error
	if errors.As(err, &fe) {
		return []*fserr.Error{fe}
	}
	return nil
}

// 📍 Within reports whether path is dir or lies below it. Both sides are
// compared after symlinks are resolved, as far as they exist.
func Within(path, dir string) bool {
	rel, err := filepath.Rel(resolve(dir), resolve(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// resolve makes p absolute and resolves symlinks in its longest existing prefix.
func resolve(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	var missing []string
	for cur := abs; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}
