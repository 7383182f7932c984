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

package catalog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
	"golang.org/x/sys/unix"
)

// pseudoFilesystems never hold user files and are left out of the drive list.
var pseudoFilesystems = map[string]bool{
	"autofs": true, "binfmt_misc": true, "bpf": true, "cgroup": true, "cgroup2": true,
	"configfs": true, "debugfs": true, "devpts": true, "devtmpfs": true, "fusectl": true,
	"hugetlbfs": true, "mqueue": true, "nsfs": true, "proc": true, "pstore": true,
	"rpc_pipefs": true, "securityfs": true, "selinuxfs": true, "sysfs": true, "tracefs": true,
}

type mount struct {
	device string
	point  string
	fstype string
}

// 💽 ListDrives returns one entry per mounted volume with its free and total size
func (c *Catalog) ListDrives(ctx context.Context, side Side) ([]*Entry, error) {
	logger := zerolog.Ctx(ctx)

	mounts, err := readMountTable(c.opts.MountTable)
	if err != nil {
		logger.Debug().Err(err).Str("table", c.opts.MountTable).Msg("mount table unavailable, using root only")
		mounts = []mount{{device: "root", point: "/"}}
	}

	seen := make(map[string]bool, len(mounts))
	entries := make([]*Entry, 0, len(mounts))
	for _, m := range mounts {
		if pseudoFilesystems[m.fstype] || seen[m.point] {
			continue
		}
		seen[m.point] = true

		free, total, err := volumeUsage(m.point)
		if err != nil || total == 0 {
			logger.Debug().Err(err).Str("mount", m.point).Msg("skipping volume")
			continue
		}

		entries = append(entries, &Entry{
			Name:       m.point,
			FullPath:   m.point,
			Kind:       KindDrive,
			SizeBytes:  int64(total),
			HumanSize:  fmt.Sprintf("%s / %s", HumanSizeUnsigned(free), HumanSizeUnsigned(total)),
			Side:       side,
			Info:       strings.TrimSpace(fmt.Sprintf("%s --- %s", m.fstype, m.device)),
			ItemCount:  -1,
			FreeBytes:  free,
			TotalBytes: total,
		})
	}

	if len(entries) == 0 {
		return nil, fserr.New(fserr.KindNotFound, "list drives", c.opts.MountTable, nil)
	}

	SortListing(entries)
	return entries, nil
}

// 📦 FreeSpace returns the bytes available to unprivileged users on the volume holding path
func FreeSpace(path string) (uint64, error) {
	free, _, err := volumeUsage(path)
	return free, err
}

func volumeUsage(path string) (free, total uint64, err error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, fserr.Wrap("statfs", path, err)
	}
	bsize := uint64(st.Bsize)
	return uint64(st.Bavail) * bsize, uint64(st.Blocks) * bsize, nil
}

func readMountTable(path string) ([]mount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mounts []mount
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, mount{
			device: unescapeMountField(fields[0]),
			point:  unescapeMountField(fields[1]),
			fstype: fields[2],
		})
	}
	return mounts, scanner.Err()
}

// unescapeMountField decodes the octal escapes (\040 for space) used by the kernel.
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
