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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Select(title string, options []string) (string, error) {
	args := m.Called(title, options)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Text(title string) (string, error) {
	args := m.Called(title)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Confirm(msg string) (bool, error) {
	args := m.Called(msg)
	return args.Bool(0), args.Error(1)
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestSelectAction(t *testing.T) {
	tests := []struct {
		name    string
		choice  string
		err     error
		want    operation.Action
		wantErr error
	}{
		{name: "copy", choice: "copy", want: operation.ActionCopy},
		{name: "rename", choice: "rename", want: operation.ActionRename},
		{name: "cancel_entry", choice: CancelChoice, wantErr: fserr.ErrCanceledByUser},
		{name: "interrupted", err: errors.New("keyboard interrupt"), wantErr: fserr.ErrCanceledByUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MockPrompter{}
			p.On("Select", "Choose an action", []string{"copy", "move", "delete", "paste", "rename", "cancel"}).Return(tt.choice, tt.err)

			h := New(Options{Prompter: p})
			got, err := h.SelectAction(testContext(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			p.AssertExpectations(t)
		})
	}
}

func TestPromptParallelism(t *testing.T) {
	p := &MockPrompter{}
	p.On("Text", "Threads for copy (1-255)").Return("  ", nil).Once()
	p.On("Text", "Threads for copy (1-255)").Return(" 300 ", nil).Once()

	h := New(Options{Prompter: p, Parallelism: 4})
	ctx := testContext(t)

	raw, err := h.PromptParallelism(ctx, operation.ActionCopy)
	require.NoError(t, err)
	assert.Equal(t, "4", raw, "empty input takes the configured default")

	raw, err = h.PromptParallelism(ctx, operation.ActionCopy)
	require.NoError(t, err)
	assert.Equal(t, "300", raw, "range checks belong to the engine")
}

func TestPromptRename(t *testing.T) {
	p := &MockPrompter{}
	p.On("Text", "Rename names matching").Return(`^IMG_(\d+)`, nil)
	p.On("Text", "Replace with").Return("photo-$1", nil)

	rule, err := New(Options{Prompter: p}).PromptRename(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, `^IMG_(\d+)`, rule.FromText)
	assert.Equal(t, "photo-$1", rule.ToText)
}

func TestConfirm(t *testing.T) {
	ctx := testContext(t)

	p := &MockPrompter{}
	p.On("Confirm", "Move /tmp/a to the trash?").Return(false, nil).Once()
	p.On("Confirm", "Move /tmp/b to the trash?").Return(false, errors.New("eof")).Once()

	h := New(Options{Prompter: p})
	ok, err := h.Confirm(ctx, "Move /tmp/a to the trash?")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Confirm(ctx, "Move /tmp/b to the trash?")
	assert.True(t, fserr.IsKind(err, fserr.KindCanceledByUser))

	yes := New(Options{Prompter: &MockPrompter{}, AssumeYes: true})
	ok, err = yes.Confirm(ctx, "Move /tmp/c to the trash?")
	require.NoError(t, err)
	assert.True(t, ok, "assume yes never prompts")
}

func TestWarnAndLines(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	console := log.NewWithLogger(buf, zerolog.Nop())
	h := New(Options{Console: console, Progress: NewLines(console)})

	h.Warn("Access to \"/root\" was denied")
	for done := 0; done <= 20; done++ {
		h.ReportProgress(done, 20)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 12, "warning plus one line per tenth")
	assert.Equal(t, `⚠️  Access to "/root" was denied`, strings.TrimSpace(lines[0]))
	assert.Equal(t, "ℹ️  ⏳ Progress: 0/20 (0%)", strings.TrimSpace(lines[1]))
	assert.Equal(t, "ℹ️  ✅ Progress: 20/20 (100%)", strings.TrimSpace(lines[11]))
}
