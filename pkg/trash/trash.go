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

// Package trash moves files into the desktop trash instead of deleting them.
package trash

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/otiai10/copy"
	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 🗑️ Bin is a trash directory. With info files enabled it follows the
// freedesktop.org layout (files/ + info/*.trashinfo), otherwise items are
// moved straight into the directory as the macOS Finder does.
type Bin struct {
	filesDir string
	infoDir  string
	now      func() time.Time
}

// 🏭 New returns a freedesktop trash rooted at dir
func New(dir string) *Bin {
	return &Bin{
		filesDir: filepath.Join(dir, "files"),
		infoDir:  filepath.Join(dir, "info"),
		now:      time.Now,
	}
}

// NewFlat returns a trash that keeps items directly in dir without info files.
func NewFlat(dir string) *Bin {
	return &Bin{filesDir: dir, now: time.Now}
}

// 🏠 Default returns the current user's trash. An explicit dir overrides the
// platform location.
func Default(dir string) (*Bin, error) {
	if dir != "" {
		return New(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Errorf("locating home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return NewFlat(filepath.Join(home, ".Trash")), nil
	}
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		data = filepath.Join(home, ".local", "share")
	}
	return New(filepath.Join(data, "Trash")), nil
}

// FilesDir is where trashed items end up.
func (b *Bin) FilesDir() string {
	return b.filesDir
}

// 🚮 Trash moves path into the bin
func (b *Bin) Trash(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fserr.Wrap("trash", abs, err)
	}

	for _, dir := range []string{b.filesDir, b.infoDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fserr.Wrap("create trash", dir, err)
		}
	}

	name, infoPath, err := b.reserve(abs)
	if err != nil {
		return err
	}

	dst := filepath.Join(b.filesDir, name)
	if err := move(abs, dst); err != nil {
		if infoPath != "" {
			_ = os.Remove(infoPath)
		}
		return fserr.Wrap("trash", abs, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Str("trashed", dst).Msg("moved to trash")
	return nil
}

// reserve picks a free name in the bin. With info files the .trashinfo is
// created exclusively first, which is the reservation.
func (b *Bin) reserve(abs string) (name, infoPath string, err error) {
	base := filepath.Base(abs)
	for i := 1; i < 10000; i++ {
		name = base
		if i > 1 {
			name = fmt.Sprintf("%s.%d", base, i)
		}

		if b.infoDir == "" {
			if _, err := os.Lstat(filepath.Join(b.filesDir, name)); os.IsNotExist(err) {
				return name, "", nil
			}
			continue
		}

		infoPath = filepath.Join(b.infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", "", fserr.Wrap("trash", infoPath, err)
		}
		_, werr := fmt.Fprintf(f, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
			(&url.URL{Path: abs}).EscapedPath(), b.now().Format("2006-01-02T15:04:05"))
		cerr := f.Close()
		if werr != nil || cerr != nil {
			_ = os.Remove(infoPath)
			return "", "", fserr.Wrap("trash", infoPath, errors.Join(werr, cerr))
		}
		return name, infoPath, nil
	}
	return "", "", fserr.New(fserr.KindConflict, "trash", abs, errors.New("no free name in trash"))
}

// move renames src to dst, copying across filesystems when rename cannot.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copy.Copy(src, dst, copy.Options{
		OnSymlink:     func(string) copy.SymlinkAction { return copy.Shallow },
		PreserveTimes: true,
	}); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}
