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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/operation"
	"github.com/walteh/twinpane/pkg/pane"
	"github.com/walteh/twinpane/pkg/staging"
	"github.com/walteh/twinpane/pkg/text"
	"github.com/walteh/twinpane/pkg/treecopy"
)

// 🔧 MockHost is a mock implementation of operation.Host. Progress and
// warnings are recorded instead of mocked.
type MockHost struct {
	mock.Mock

	mu       sync.Mutex
	ticks    [][2]int
	warnings []string
}

func (m *MockHost) SelectAction(ctx context.Context) (operation.Action, error) {
	args := m.Called(ctx)
	return args.Get(0).(operation.Action), args.Error(1)
}

func (m *MockHost) PromptParallelism(ctx context.Context, action operation.Action) (string, error) {
	args := m.Called(ctx, action)
	return args.String(0), args.Error(1)
}

func (m *MockHost) PromptFilterPattern(ctx context.Context, action operation.Action) (string, error) {
	args := m.Called(ctx, action)
	return args.String(0), args.Error(1)
}

func (m *MockHost) PromptRename(ctx context.Context) (text.ReplacementRule, error) {
	args := m.Called(ctx)
	return args.Get(0).(text.ReplacementRule), args.Error(1)
}

func (m *MockHost) Confirm(ctx context.Context, msg string) (bool, error) {
	args := m.Called(ctx, msg)
	return args.Bool(0), args.Error(1)
}

func (m *MockHost) ReportProgress(done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks = append(m.ticks, [2]int{done, total})
}

func (m *MockHost) Warn(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msg)
}

func (m *MockHost) Ticks() [][2]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]int(nil), m.ticks...)
}

func (m *MockHost) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warnings...)
}

// 🔧 MockTrasher is a mock implementation of operation.Trasher
type MockTrasher struct {
	mock.Mock
}

func (m *MockTrasher) Trash(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type fixture struct {
	engine  *operation.Engine
	host    *MockHost
	trasher *MockTrasher
	store   *staging.Store
	catalog *catalog.Catalog
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	copier := treecopy.New(treecopy.Options{})
	store, err := staging.New(staging.Options{Root: t.TempDir(), Copier: copier, SkipSpaceCheck: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		host:    &MockHost{},
		trasher: &MockTrasher{},
		store:   store,
		catalog: catalog.New(catalog.Options{}),
	}
	f.engine, err = operation.New(operation.Options{
		Host:    f.host,
		Staging: store,
		Copier:  copier,
		Trash:   f.trasher,
		Counter: f.catalog,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) pane(t *testing.T, ctx context.Context, side catalog.Side, dir string) *pane.Pane {
	t.Helper()
	p, err := pane.New(pane.Options{Side: side, Lister: f.catalog, SettleDelay: -1})
	require.NoError(t, err)
	require.NoError(t, p.Navigate(ctx, dir))
	return p
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func selectNames(t *testing.T, p *pane.Pane, names ...string) []*catalog.Entry {
	t.Helper()
	var out []*catalog.Entry
	for _, name := range names {
		e, ok := p.SelectByName(name)
		require.True(t, ok, "selecting %s", name)
		out = append(out, e)
	}
	return out
}

func entryNames(entries []*catalog.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func textRule(from, to string) text.ReplacementRule {
	return text.ReplacementRule{FromText: from, ToText: to}
}
