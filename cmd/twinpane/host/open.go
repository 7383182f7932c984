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


package host

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
)

// 🚀 Open launches e with the desktop's default application
func Open(ctx context.Context, e *catalog.Entry) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", e.FullPath)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", e.FullPath)
	default:
		cmd = exec.Command("xdg-open", e.FullPath)
	}
	if err := cmd.Start(); err != nil {
		return fserr.Wrap("open", e.FullPath, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", e.FullPath).Int("pid", cmd.Process.Pid).Msg("opened with default application")
	// the viewer outlives the pane, only reap it
	go func() { _ = cmd.Wait() }()
	return nil
}
