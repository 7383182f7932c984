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

//go:build windows

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/walteh/twinpane/pkg/fserr"
	"golang.org/x/sys/windows"
)

// 💽 ListDrives returns one entry per present drive letter
func (c *Catalog) ListDrives(ctx context.Context, side Side) ([]*Entry, error) {
	var entries []*Entry
	for letter := 'A'; letter <= 'Z'; letter++ {
		root := fmt.Sprintf("%c:\\", letter)
		if _, err := os.Stat(root); err != nil {
			continue
		}
		free, total, err := volumeUsage(root)
		if err != nil {
			continue
		}
		entries = append(entries, &Entry{
			Name:       root,
			FullPath:   root,
			Kind:       KindDrive,
			SizeBytes:  int64(total),
			HumanSize:  fmt.Sprintf("%s / %s", HumanSizeUnsigned(free), HumanSizeUnsigned(total)),
			Side:       side,
			Info:       "Drive",
			ItemCount:  -1,
			FreeBytes:  free,
			TotalBytes: total,
		})
	}
	if len(entries) == 0 {
		return nil, fserr.New(fserr.KindNotFound, "list drives", "", nil)
	}
	return entries, nil
}

// 📦 FreeSpace returns the bytes available to the caller on the volume holding path
func FreeSpace(path string) (uint64, error) {
	free, _, err := volumeUsage(path)
	return free, err
}

func volumeUsage(path string) (free, total uint64, err error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, 0, fserr.Wrap("statfs", path, err)
	}
	var totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return 0, 0, fserr.Wrap("statfs", path, err)
	}
	return free, total, nil
}
