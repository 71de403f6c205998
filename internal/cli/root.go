// Package cli provides the reporter command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/reporter/internal/config"
	"github.com/lumipallolabs/reporter/internal/core"
	"github.com/lumipallolabs/reporter/internal/logging"
	"github.com/lumipallolabs/reporter/internal/mailer"
	"github.com/lumipallolabs/reporter/internal/report"
	"github.com/lumipallolabs/reporter/internal/state"
	"github.com/lumipallolabs/reporter/internal/stats"
	"github.com/lumipallolabs/reporter/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const noChangesMessage = "No changes detected; skipping report."

var (
	dryRun     bool
	noProgress bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "reporter [config] [snapshot]",
	Short: "Report file changes in configured folders by email",
	Long: `Reporter indexes the configured folders, compares them with the snapshot
saved by the previous run and mails a summary of added, deleted and
modified files.

The configuration defaults to ~/.config/reporter/config.yaml and the
snapshot to ~/.config/reporter/snapshot.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetVerbose(true)
		}
	},
	RunE: runReport,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the report instead of mailing it and leave the snapshot untouched")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the interactive progress display")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func runReport(cmd *cobra.Command, args []string) error {
	cfgPath := config.DefaultPath()
	if len(args) > 0 {
		cfgPath = config.ExpandPath(args[0])
	}
	logging.Log.Info().Str("path", cfgPath).Msg("loading configuration")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	statePath := cfg.StatePath()
	if len(args) > 1 {
		statePath = config.ExpandPath(args[1])
	}
	store, err := state.Open(statePath, cfg.State.Format)
	if err != nil {
		return err
	}

	statsMgr := stats.NewManager(stats.PathFor(statePath))
	if err := statsMgr.Load(); err != nil {
		logging.Log.Warn().Err(err).Msg("failed to load stats")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl := core.NewController(cfg, store, core.Options{
		DryRun: dryRun,
		Stats:  statsMgr,
	})
	interactive := !noProgress && isTerminal(os.Stderr)
	release := func() {}
	if interactive {
		release = logging.Hold()
	}
	done := follow(ctrl.Start(ctx), cancel, interactive)
	release()
	if done.Err != nil {
		return done.Err
	}
	for _, path := range done.Failed {
		logging.Log.Warn().Str("folder", path).Msg("folder left out of report")
	}

	r := done.Report
	out := cmd.OutOrStdout()
	if r.IsEmpty() {
		if dryRun {
			fmt.Fprintln(out, noChangesMessage)
		}
		logging.Log.Info().Msg(noChangesMessage)
		return nil
	}

	if dryRun {
		return printReport(out, r)
	}

	sender, err := mailer.NewSMTP(cfg)
	if err != nil {
		return err
	}
	if err := mailer.New(sender, cfg).Send(ctx, r); err != nil {
		return err
	}
	logging.Log.Info().Msg("done")
	return nil
}

// Seams for tests
var (
	isTerminal = func(f *os.File) bool {
		return term.IsTerminal(int(f.Fd()))
	}
	runProgress = func(events <-chan core.Event, cancel context.CancelFunc) (core.RunCompletedEvent, error) {
		return ui.Run(events, cancel, tea.WithOutput(os.Stderr))
	}
)

// follow tracks a run to completion, with the progress display when
// interactive and through the log otherwise. Callers hold log output while
// the display is shown.
func follow(events <-chan core.Event, cancel context.CancelFunc, interactive bool) core.RunCompletedEvent {
	if interactive {
		done, err := runProgress(events, cancel)
		if err != nil {
			logging.Log.Warn().Err(err).Msg("progress display failed")
		}
		return done
	}
	return logEvents(events)
}

// logEvents logs run milestones and returns the completion event
func logEvents(events <-chan core.Event) core.RunCompletedEvent {
	var done core.RunCompletedEvent
	for event := range events {
		switch e := event.(type) {
		case core.PhaseChangedEvent:
			logging.Log.Debug().Str("phase", e.Phase.String()).Msg("phase")
		case core.FolderStartedEvent:
			logging.Log.Info().Str("folder", e.Path).Msgf("indexing folder %d of %d", e.Index+1, e.Count)
		case core.FolderCompletedEvent:
			logging.Log.Info().
				Str("folder", e.Path).
				Int("files", e.Files).
				Int64("hashed", e.Hashed).
				Int64("reused", e.Reused).
				Int("skipped", e.Skipped).
				Msg("indexed")
		case core.FolderFailedEvent:
			logging.Log.Error().Err(e.Err).Str("folder", e.Path).Msg("indexing failed")
		case core.RunCompletedEvent:
			done = e
		}
	}
	return done
}

// printReport writes the report, styled when out is a terminal
func printReport(out io.Writer, r *report.Report) error {
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		_, err := fmt.Fprint(out, report.Terminal(r))
		return err
	}
	text, err := report.Text(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, text)
	return err
}
