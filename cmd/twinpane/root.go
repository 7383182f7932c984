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
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/twinpane/cmd/twinpane/commands"
	"github.com/walteh/twinpane/cmd/twinpane/opts"
	"github.com/walteh/twinpane/pkg/config"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/metrics"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile   string
	debugLogging bool
)

func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "twinpane",
		Short: "A dual pane file manager for the terminal",
		Long: `twinpane lists two directories side by side and copies, moves, renames
and trashes files between them. Copies go through a private staging area so
a paste never sees half written sources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadRootOpts(cmd, rootOpts)
		},
	}

	addRootFlags(cmd)

	cmd.AddCommand(
		commands.NewListCmd(rootOpts),
		commands.NewDrivesCmd(rootOpts),
		commands.NewCopyCmd(rootOpts),
		commands.NewMoveCmd(rootOpts),
		commands.NewDeleteCmd(rootOpts),
		commands.NewRenameCmd(rootOpts),
		commands.NewTreeCmd(rootOpts),
		commands.NewShellCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

func loadRootOpts(cmd *cobra.Command, rootOpts *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrDefault(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	level := cfg.Level()
	if debugLogging {
		level = zerolog.DebugLevel
	}
	logger := setupLogging(level)
	logger.Debug().Str("config", cfg.Location()).Stringer("settings", cfg).Msg("configuration loaded")

	// console lines reach the structured log only when debugging
	mirror := zerolog.Nop()
	if debugLogging {
		mirror = logger
	}

	rootOpts.Config = cfg
	rootOpts.Console = log.NewWithLogger(cmd.OutOrStdout(), mirror)
	rootOpts.Metrics = metrics.New()

	cmd.SetContext(log.NewContext(logger.WithContext(ctx), rootOpts.Console))
	return nil
}

func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (twinpane.{yaml,hcl,json} is discovered when empty)")
	cmd.PersistentFlags().BoolVarP(&debugLogging, "debug", "d", false, "enable debug logging")
}

func setupLogging(level zerolog.Level) zerolog.Logger {
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
			return err
		},
	}
}
