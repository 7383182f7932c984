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
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/twinpane/cmd/twinpane/host"
	"github.com/walteh/twinpane/cmd/twinpane/opts"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/status"
	"github.com/walteh/twinpane/pkg/treecopy"
)

func NewTreeCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		threads   int
		noRecurse bool
	)

	cmd := &cobra.Command{
		Use:   "tree SRC DST",
		Short: "Copy a directory tree without staging",
		Long: `Tree copies the contents of SRC into DST directly, with files of each
directory copied in parallel batches. A file that fails is reported and its
siblings still finish. Existing files in DST are overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "tree").Logger().WithContext(cmd.Context())
			console := log.FromContext(ctx)

			if threads == 0 {
				threads = opts.Config.Parallelism
			}

			total, err := catalog.New(catalog.Options{}).CountFiles(ctx, args[0])
			if err != nil {
				return err
			}

			tracker := status.NewTracker(host.NewProgress(os.Stderr, console).Report, nil)
			tracker.Start(ctx, total)

			copier := treecopy.New(treecopy.Options{
				PreserveTimes: opts.Config.PreserveTimes,
				Recorder:      opts.Metrics,
			})
			err = copier.CopyTree(ctx, args[0], args[1], !noRecurse, threads, treecopy.OnFile(func(src, _ string, err error) {
				if err != nil {
					console.Warningf("%s: %v", src, err)
				}
				tracker.Advance(ctx, 1)
			}))
			if err != nil {
				return err
			}
			tracker.Finish(ctx)
			console.Successf("copied %s to %s", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().IntVarP(&threads, "threads", "t", 0, "files copied at once (1-255, config default when 0)")
	cmd.Flags().BoolVar(&noRecurse, "no-recurse", false, "copy only the top level files")

	return cmd
}
