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


package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/cmd/twinpane/host"
	"github.com/walteh/twinpane/cmd/twinpane/opts"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/operation"
	"github.com/walteh/twinpane/pkg/staging"
	"github.com/walteh/twinpane/pkg/trash"
	"github.com/walteh/twinpane/pkg/treecopy"
	"gitlab.com/tozd/go/errors"
)

// 🧰 session wires the engine and its collaborators for one command
type session struct {
	catalog *catalog.Catalog
	copier  *treecopy.Copier
	staging *staging.Store
	host    *host.Host
	engine  *operation.Engine
}

type sessionOptions struct {
	prompter  host.Prompter
	assumeYes bool
}

func newSession(ctx context.Context, o *opts.RootOpts, so sessionOptions) (*session, error) {
	cfg := o.Config

	cat := catalog.New(catalog.Options{HideHidden: cfg.HideHidden})
	copier := treecopy.New(treecopy.Options{
		PreserveTimes: cfg.PreserveTimes,
		Recorder:      o.Metrics,
	})

	store, err := staging.New(staging.Options{
		Root:   cfg.StagingDir,
		Copier: copier,
		Gauge:  o.Metrics,
	})
	if err != nil {
		return nil, errors.Errorf("creating staging area: %w", err)
	}

	bin, err := trash.Default(cfg.TrashDir)
	if err != nil {
		_ = store.Close()
		return nil, errors.Errorf("locating trash: %w", err)
	}

	h := host.New(host.Options{
		Prompter:    so.prompter,
		Console:     o.Console,
		Progress:    host.NewProgress(os.Stderr, o.Console),
		Parallelism: cfg.Parallelism,
		AssumeYes:   so.assumeYes,
	})

	engine, err := operation.New(operation.Options{
		Host:    h,
		Staging: store,
		Copier:  copier,
		Trash:   bin,
		Counter: cat,
		Metrics: o.Metrics,
		Console: o.Console,
		Async:   cfg.Async,
	})
	if err != nil {
		_ = store.Close()
		return nil, errors.Errorf("creating engine: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("staging", store.Dir()).
		Str("trash", bin.FilesDir()).
		Msg("session ready")

	return &session{
		catalog: cat,
		copier:  copier,
		staging: store,
		host:    h,
		engine:  engine,
	}, nil
}

func (s *session) Close(ctx context.Context) {
	if err := s.staging.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("removing staging area")
	}
}

// entries resolves command line paths into entries
func entries(paths []string) ([]*catalog.Entry, error) {
	var out []*catalog.Entry
	for _, p := range paths {
		e, err := catalog.Stat(p, catalog.SideLeft)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
