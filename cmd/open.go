package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/recentdrive/internal/logging"
	"github.com/matheuskafuri/recentdrive/internal/session"
)

var openCmd = &cobra.Command{
	Use:   "open <file-id>",
	Short: "Open a file in the browser and count the visit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.NewCLI(cfg.Level()))
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		s := a.session(session.TabAll, session.SortRecent)
		if err := s.ClickThrough(id); err != nil {
			return err
		}
		pterm.Success.Printfln("Opened %s (%d visits)", id, s.Count(id))
		return nil
	},
}
