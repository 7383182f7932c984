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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/twinpane/cmd/twinpane/opts"
	"github.com/walteh/twinpane/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

func NewListCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		sortKeys []string
		hidden   bool
	)

	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List a directory the way a pane shows it",
		Long: `List prints the parent marker, then directories, then files, each in
name order. Every --sort flag acts like a click on that column header: the
first click sorts ascending, a click on an already ascending column sorts
descending.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "list").Logger().WithContext(cmd.Context())

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return errors.Errorf("resolving %s: %w", dir, err)
			}

			cat := catalog.New(catalog.Options{HideHidden: opts.Config.HideHidden && !hidden})
			entries, err := cat.List(ctx, abs, catalog.SideLeft)
			if err != nil {
				return err
			}

			var sorter catalog.Sorter
			for _, name := range sortKeys {
				key, err := catalog.ParseSortKey(name)
				if err != nil {
					return err
				}
				entries = sorter.Apply(entries, key)
			}

			return renderEntries(cmd.OutOrStdout(), entries, sorter.Header, nil)
		},
	}

	cmd.Flags().StringSliceVar(&sortKeys, "sort", nil, "column clicks applied in order (name, info, size, date)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "show hidden entries even when the config hides them")

	return cmd
}

func NewDrivesCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "drives",
		Short: "List mounted volumes with their free and total size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "drives").Logger().WithContext(cmd.Context())

			cat := catalog.New(catalog.Options{})
			drives, err := cat.ListDrives(ctx, catalog.SideLeft)
			if err != nil {
				return err
			}

			var sorter catalog.Sorter
			return renderEntries(cmd.OutOrStdout(), drives, sorter.Header, nil)
		},
	}
}
