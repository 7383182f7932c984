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
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/twinpane/cmd/twinpane/host"
	"github.com/walteh/twinpane/cmd/twinpane/opts"
	"github.com/walteh/twinpane/pkg/catalog"
	"github.com/walteh/twinpane/pkg/fserr"
	"github.com/walteh/twinpane/pkg/log"
	"github.com/walteh/twinpane/pkg/metrics"
	"github.com/walteh/twinpane/pkg/operation"
	"github.com/walteh/twinpane/pkg/pane"
	"gitlab.com/tozd/go/errors"
)

const shellHelp = `commands:
  ls                 show both panes
  left | right       focus a pane
  cd [PATH]          go to PATH in the active pane, the drive list without one
  open NAME          enter a directory or launch a file
  sel NAME...        toggle the selection of entries
  all | none         select every entry | clear the selection
  sort KEY           click a column header (name, info, size, date)
  run                pick an action for the selection
  paste              paste the copied items into the active pane
  staged             show the copied items waiting for a paste
  quit
keys:
  f5 refresh  f6 copy  f7 move  f8 delete  f2 rename
  backspace parent  enter open selection  tab switch pane  esc abandon listing`

func NewShellCmd(opts *opts.RootOpts) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "shell [LEFT [RIGHT]]",
		Short: "Browse two panes and run bulk operations between them",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "shell").Logger().WithContext(cmd.Context())

			s, err := newSession(ctx, opts, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if metricsAddr == "" {
				metricsAddr = opts.Config.MetricsAddr
			}
			if metricsAddr != "" {
				stop := serveMetrics(ctx, metricsAddr, opts.Metrics)
				defer stop()
			}

			sh, err := newShell(s, opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			starts := []string{opts.Config.LeftPath, opts.Config.RightPath}
			if starts[0] == "" {
				starts[0], _ = os.Getwd()
			}
			copy(starts, args)
			if err := sh.start(ctx, starts[0], starts[1]); err != nil {
				return err
			}

			return sh.loop(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

// 🐚 shell is a line driven dual pane session
type shell struct {
	pair    *pane.Pair
	engine  *operation.Engine
	console *log.Logger
	out     io.Writer
}

func newShell(s *session, opts *opts.RootOpts, out io.Writer) (*shell, error) {
	settle := opts.Config.Settle()
	if settle == 0 {
		// a configured zero means no delay, not the pane default
		settle = -1
	}
	newPane := func(side catalog.Side) (*pane.Pane, error) {
		return pane.New(pane.Options{
			Side:        side,
			Lister:      s.catalog,
			Warner:      s.host,
			SettleDelay: settle,
			Opener:      host.Open,
		})
	}

	left, err := newPane(catalog.SideLeft)
	if err != nil {
		return nil, err
	}
	right, err := newPane(catalog.SideRight)
	if err != nil {
		return nil, err
	}
	pair, err := pane.NewPair(left, right, s.engine)
	if err != nil {
		return nil, err
	}

	return &shell{pair: pair, engine: s.engine, console: opts.Console, out: out}, nil
}

func (sh *shell) start(ctx context.Context, left, right string) error {
	for i, path := range []string{left, right} {
		side := catalog.SideLeft
		if i == 1 {
			side = catalog.SideRight
		}
		if path != "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return errors.Errorf("resolving %s: %w", path, err)
			}
			path = abs
		}
		if err := sh.pair.Pane(side).Navigate(ctx, path); err != nil {
			return err
		}
	}
	return sh.show()
}

func (sh *shell) loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		active := sh.pair.Active()
		fmt.Fprintf(sh.out, "[%s %s]> ", active.Side(), displayPath(active.CurrentPath()))
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}

		quit, err := sh.exec(ctx, scanner.Text())
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			sh.report(ctx, err)
		}
	}
}

// exec runs one command line and reports whether the session should end
func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	word, args := strings.ToLower(fields[0]), fields[1:]
	active := sh.pair.Active()

	switch word {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return false, nil
	case "ls":
		return false, sh.show()
	case "left", "right":
		side := catalog.SideLeft
		if word == "right" {
			side = catalog.SideRight
		}
		sh.pair.SetActive(side)
		return false, sh.show()
	case "cd":
		target := ""
		if len(args) > 0 {
			target = sh.resolve(active, strings.Join(args, " "))
		}
		return false, sh.after(active.Navigate(ctx, target))
	case "open":
		e := sh.find(active, strings.Join(args, " "))
		if e == nil {
			return false, fserr.New(fserr.KindNotFound, "open", strings.Join(args, " "), nil)
		}
		return false, sh.after(active.Open(ctx, e))
	case "sel":
		for _, name := range args {
			e := sh.find(active, name)
			if e == nil || !e.Selectable() {
				sh.console.Warningf("%q cannot be selected", name)
				continue
			}
			active.Toggle(e)
		}
		return false, sh.show()
	case "all":
		active.SelectAll()
		return false, sh.show()
	case "none":
		active.ClearSelection()
		return false, sh.show()
	case "sort":
		if len(args) != 1 {
			return false, fserr.New(fserr.KindInvalidParameter, "sort", "", errors.New("one column is required"))
		}
		key, err := catalog.ParseSortKey(args[0])
		if err != nil {
			return false, fserr.New(fserr.KindInvalidParameter, "sort", "", err)
		}
		active.Sort(key)
		return false, sh.show()
	case "run":
		return false, sh.after(sh.engine.Run(ctx, active, sh.pair.Inactive()))
	case "paste":
		return false, sh.after(sh.engine.RunAction(ctx, operation.ActionPaste, active, sh.pair.Inactive()))
	case "staged":
		staged := sh.engine.Staged()
		if len(staged) == 0 {
			sh.console.Info("nothing has been copied")
		}
		for _, p := range staged {
			fmt.Fprintln(sh.out, "  "+filepath.Base(p))
		}
		return false, nil
	}

	handled, err := sh.pair.HandleKey(ctx, word)
	if !handled {
		return false, fserr.New(fserr.KindInvalidParameter, "command", "", errors.Errorf("unknown command %q, try help", word))
	}
	return false, sh.after(err)
}

// after shows the panes once a command changed them
func (sh *shell) after(err error) error {
	if err != nil {
		return err
	}
	return sh.show()
}

func (sh *shell) report(ctx context.Context, err error) {
	if errors.Is(err, pane.ErrBusy) {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("command dropped")
		return
	}
	sh.console.Warning(fserr.Message(err))
}

func (sh *shell) show() error {
	for _, side := range []catalog.Side{catalog.SideLeft, catalog.SideRight} {
		p := sh.pair.Pane(side)
		marker := " "
		if side == sh.pair.ActiveSide() {
			marker = "▶"
		}
		fmt.Fprintf(sh.out, "%s %s  %s", marker, side, displayPath(p.CurrentPath()))
		if pending := p.PendingPath(); pending != "" {
			fmt.Fprintf(sh.out, "  (loading %s)", displayPath(pending))
		}
		fmt.Fprintln(sh.out)
		if err := renderEntries(sh.out, p.Entries(), p.Header, p.IsSelected); err != nil {
			return err
		}
	}
	return nil
}

func (sh *shell) find(p *pane.Pane, name string) *catalog.Entry {
	for _, e := range p.Entries() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (sh *shell) resolve(p *pane.Pane, path string) string {
	if filepath.IsAbs(path) || p.CurrentPath() == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(p.CurrentPath(), path)
}

func displayPath(path string) string {
	if path == "" {
		return "drives"
	}
	return path
}

// 📈 serveMetrics exposes the registry until the returned stop is called
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) func() {
	logger := zerolog.Ctx(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Debug().Err(err).Msg("metrics server shutdown")
		}
	}
}
