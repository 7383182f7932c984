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

// Package log prints user facing progress of file operations next to the
// structured zerolog stream.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent entry lines
	nameWidth   = 40 // Base width for the entry path
	kindWidth   = 10 // Width for the entry kind
	actionWidth = 10 // Width for the action text
)

// 🎯 FileOperation is the outcome for one entry of a batch
type FileOperation struct {
	Path   string // Entry path
	Kind   string // file/directory
	Action string // staged/copied/moved/trashed/renamed/skipped
	Err    error  // Failure, if any
}

// 📦 BatchOperation describes a bulk action across the panes
type BatchOperation struct {
	Action      string // copy/move/delete/paste/rename
	Source      string // Directory the items come from
	Destination string // Target directory, empty for delete
	Items       int    // Number of selected items
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BatchOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(level)
	return NewWithLogger(console, zlog)
}

// 🏭 NewWithLogger creates a logger on top of an existing zerolog logger
func NewWithLogger(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

type mark struct {
	symbol string
	color  color.Attribute
}

var (
	failedMark  = mark{"✗", color.FgRed}
	successMark = mark{"✓", color.FgGreen}
	actionMarks = map[string]mark{
		"skipped": {"-", color.FgYellow},
		"trashed": {"⌫", color.FgMagenta},
		"moved":   {"⟳", color.FgBlue},
		"renamed": {"⟳", color.FgBlue},
	}
)

func markFor(op FileOperation) mark {
	if op.Err != nil {
		return failedMark
	}
	if m, ok := actionMarks[op.Action]; ok {
		return m
	}
	return successMark
}

// 📝 formatFileOperation formats an entry outcome for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	m := markFor(op)

	kindColor := color.FgBlue
	if op.Kind == "directory" {
		kindColor = color.FgCyan
	}

	status := op.Action
	if op.Err != nil {
		status = "failed"
	}

	return fmt.Sprintf("%*s%s %-*s %s %-*s", fileIndent, "",
		color.New(m.color).Sprint(m.symbol),
		nameWidth, op.Path,
		color.New(kindColor).Sprintf("%-*s", kindWidth, op.Kind),
		actionWidth, status)
}

// 📝 LogFileOperation logs the outcome for one entry
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Warn().Err(op.Err)
	}
	ev.Str("path", op.Path).
		Str("kind", op.Kind).
		Str("action", op.Action).
		Msg("file operation")
}

// 📝 StartBatch starts a new bulk operation
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[%s %d item(s)]\n", op.Action, op.Items)

	if op.Destination != "" {
		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Source),
			color.New(color.Faint).Sprint("→"),
			color.New(color.FgYellow).Sprint(op.Destination))
	} else {
		fmt.Fprintf(l.console, "%s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Source))
	}

	l.zlog.Info().
		Str("action", op.Action).
		Str("source", op.Source).
		Str("destination", op.Destination).
		Int("items", op.Items).
		Msg("starting batch")
}

// 📝 EndBatch ends the current bulk operation and returns the failure count
func (l *Logger) EndBatch(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return 0
	}

	failed := 0
	for _, op := range l.operations {
		if op.Err != nil {
			failed++
		}
	}

	l.zlog.Info().
		Str("action", l.currentOp.Action).
		Int("entries", len(l.operations)).
		Int("failed", failed).
		Msg("batch complete")

	l.currentOp = nil
	l.operations = nil
	return failed
}

type tone struct {
	prefix string
	color  color.Attribute
	level  zerolog.Level
}

var (
	toneSuccess = tone{"✅ ", color.FgGreen, zerolog.InfoLevel}
	toneWarning = tone{"⚠️  ", color.FgYellow, zerolog.WarnLevel}
	toneError   = tone{"❌ ", color.FgRed, zerolog.ErrorLevel}
	toneInfo    = tone{"ℹ️  ", color.FgCyan, zerolog.InfoLevel}
)

func (l *Logger) say(t tone, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s%s\n", t.prefix, color.New(t.color).Sprint(msg))
	l.zlog.WithLevel(t.level).Msg(msg)
}

// 📝 Success prints a green check line
func (l *Logger) Success(msg string) { l.say(toneSuccess, msg) }

// 📝 Warning prints a warning line, used for every per-item failure
func (l *Logger) Warning(msg string) { l.say(toneWarning, msg) }

func (l *Logger) Error(msg string) { l.say(toneError, msg) }

func (l *Logger) Info(msg string) { l.say(toneInfo, msg) }

func (l *Logger) Successf(format string, args ...any) { l.Success(fmt.Sprintf(format, args...)) }

func (l *Logger) Warningf(format string, args ...any) { l.Warning(fmt.Sprintf(format, args...)) }

func (l *Logger) Errorf(format string, args ...any) { l.Error(fmt.Sprintf(format, args...)) }

func (l *Logger) Infof(format string, args ...any) { l.Info(fmt.Sprintf(format, args...)) }
