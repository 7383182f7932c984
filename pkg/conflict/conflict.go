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

// Package conflict decides what happens when a copy or move target already exists.
package conflict

import (
	"context"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// ⚖️ Decision is the outcome for one destination
type Decision int

const (
	Proceed Decision = iota
	Abort
)

func (d Decision) String() string {
	if d == Abort {
		return "abort"
	}
	return "proceed"
}

// 🔌 Policy resolves a destination before anything is written to it
type Policy interface {
	Resolve(ctx context.Context, destination string) (Decision, error)
}

// 🛑 AbortOnExists aborts the batch when the destination exists as a file or directory
type AbortOnExists struct{}

var _ Policy = AbortOnExists{}

func (AbortOnExists) Resolve(ctx context.Context, destination string) (Decision, error) {
	_, err := os.Lstat(destination)
	switch {
	case err == nil:
		zerolog.Ctx(ctx).Debug().Str("destination", destination).Msg("destination exists")
		return Abort, nil
	case errors.Is(err, fs.ErrNotExist):
		return Proceed, nil
	default:
		return Abort, fserr.Wrap("check destination", destination, err)
	}
}

// 🎯 Check resolves destination with p and turns an abort into a conflict error
func Check(ctx context.Context, p Policy, destination string) error {
	decision, err := p.Resolve(ctx, destination)
	if err != nil {
		return err
	}
	if decision == Abort {
		return fserr.New(fserr.KindConflict, "resolve", destination, nil)
	}
	return nil
}
