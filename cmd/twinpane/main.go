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


package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
)

func main() {
	logger := setupLogging(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logger.WithContext(ctx)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(fserr.Message(err))
		os.Exit(1)
	}
}
