package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/recentdrive/internal/config"
	"github.com/matheuskafuri/recentdrive/internal/logging"
	"github.com/matheuskafuri/recentdrive/internal/session"
	"github.com/matheuskafuri/recentdrive/internal/tui"
	"github.com/matheuskafuri/recentdrive/internal/update"
)

func runTUI(cmd *cobra.Command, args []string) error {
	// The alt screen owns the terminal, so logs go to a file.
	logger, f, err := logging.OpenFile(config.LogPath(), cfg.Level())
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureLogin(cmd.Context()); err != nil {
		return err
	}

	opts := tui.RunOpts{
		Session: a.session(session.TabAll, session.SortRecent),
		Logger:  logger,
		Refresh: flagRefresh,
	}
	if version != "dev" {
		opts.Version = version
		opts.CheckUpdate = update.Check
	}

	logger.Info().Bool("refresh", flagRefresh).Msg("starting popup")
	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
