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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
	"golang.org/x/term"
)

// 📊 Progress renders progress ticks. Ticks of one operation arrive in order,
// starting at 0 and never passing total.
type Progress interface {
	Report(done, total int)
}

// Discard drops every tick.
type Discard struct{}

func (Discard) Report(int, int) {}

// 🏭 NewProgress draws a bar on out when it is a terminal and writes
// percentage lines to the console otherwise
func NewProgress(out *os.File, console *log.Logger) Progress {
	if term.IsTerminal(int(out.Fd())) {
		return &Bar{out: out}
	}
	return NewLines(console)
}

// 📶 Bar is a progressbar on a terminal
type Bar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (b *Bar) Report(done, total int) {
	if total <= 0 {
		return
	}
	if b.bar == nil || done == 0 {
		b.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(b.out),
			progressbar.OptionSetDescription("files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(b.out, "\n")
			}),
		)
	}
	_ = b.bar.Set(done)
	if done >= total {
		_ = b.bar.Finish()
		b.bar = nil
	}
}

// 📜 Lines writes a console line at the start, at the end and at every tenth
// of the way
type Lines struct {
	console   *log.Logger
	formatter status.Formatter
	bucket    int
}

func NewLines(console *log.Logger) *Lines {
	return &Lines{console: console, formatter: status.NewDefaultFormatter(), bucket: -1}
}

func (l *Lines) Report(done, total int) {
	if l.console == nil {
		return
	}
	bucket := 10
	if total > 0 {
		bucket = done * 10 / total
	}
	if done == 0 {
		l.bucket = -1
	}
	if bucket == l.bucket {
		return
	}
	l.bucket = bucket
	l.console.Info(l.formatter.FormatProgress(done, total))
}
