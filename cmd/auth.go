package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/logging"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Connect your Google account",
	Long:  "Open the Google consent page in your browser and store the resulting token in the system keyring.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.NewCLI(cfg.Level()))
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.cfg.OAuthConfigured() {
			return errNoClient()
		}
		return a.login(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token and cached listing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.NewCLI(cfg.Level()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.auth.Logout(); err != nil {
			return fmt.Errorf("removing token: %w", err)
		}
		// The listing belongs to the account that was signed in.
		if err := a.db.Delete(cache.KeyCachedFiles); err != nil {
			return fmt.Errorf("clearing cached listing: %w", err)
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}
