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
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/operation"
	"github.com/walteh/twinpane/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// transferFlags are shared by copy and move
type transferFlags struct {
	to      string
	threads int
	filter  string
}

func (f *transferFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.to, "to", "", "destination directory")
	cmd.Flags().IntVarP(&f.threads, "threads", "t", 0, "files copied at once (1-255, config default when 0)")
	cmd.Flags().StringVar(&f.filter, "filter", "", "only names matching this regular expression, or glob:PATTERN")
	_ = cmd.MarkFlagRequired("to")
}

func NewCopyCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &transferFlags{}
	cmd := &cobra.Command{
		Use:   "copy SRC... --to DIR",
		Short: "Copy files and directories into a directory",
		Long: `Copy stages the sources in a private area first and then pastes them
into the destination. An existing destination name stops the paste and
nothing is overwritten.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, operation.ActionCopy, args, flags, nil, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func NewMoveCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &transferFlags{}
	cmd := &cobra.Command{
		Use:   "move SRC... --to DIR",
		Short: "Move files and directories into a directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, operation.ActionMove, args, flags, nil, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func NewDeleteCmd(opts *opts.RootOpts) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete PATH...",
		Short: "Move files and directories to the trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, operation.ActionDelete, args, nil, nil, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before trashing each item")
	return cmd
}

func NewRenameCmd(opts *opts.RootOpts) *cobra.Command {
	rule := &text.ReplacementRule{}
	cmd := &cobra.Command{
		Use:   "rename PATH... --match RE --replace TEXT",
		Short: "Rename files by regular expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, operation.ActionRename, args, nil, rule, false)
		},
	}
	cmd.Flags().StringVar(&rule.FromText, "match", "", "regular expression matched against each name")
	cmd.Flags().StringVar(&rule.ToText, "replace", "", "replacement, $1 expands the first group")
	cmd.Flags().BoolVar(&rule.Literal, "literal", false, "treat --match as plain text")
	_ = cmd.MarkFlagRequired("match")
	return cmd
}

func runRequest(cmd *cobra.Command, opts *opts.RootOpts, action operation.Action, args []string, flags *transferFlags, rule *text.ReplacementRule, yes bool) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", action.String()).Logger().WithContext(cmd.Context())

	items, err := entries(args)
	if err != nil {
		return err
	}

	params := operation.RequestParams{
		Action: action,
		Items:  items,
		Rename: rule,
	}
	if flags != nil {
		params.Parallelism = flags.threads
		if params.Parallelism == 0 {
			params.Parallelism = opts.Config.Parallelism
		}
		if params.Parallelism > opts.Config.MaxThreads {
			return fserr.New(fserr.KindInvalidParameter, "thread count", "", errors.Errorf("must be between 1 and %d", opts.Config.MaxThreads))
		}
		params.FilterPattern = flags.filter
		if params.TargetPath, err = filepath.Abs(flags.to); err != nil {
			return errors.Errorf("resolving %s: %w", flags.to, err)
		}
	}

	req, err := operation.NewRequest(params)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, opts, sessionOptions{assumeYes: yes})
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	return s.engine.ProcessAction(ctx, req, operation.Panes{})
}
