package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/config"
	"github.com/matheuskafuri/recentdrive/internal/service"
)

var flagClearAll bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		st, err := db.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		return pterm.DefaultTable.WithHasHeader().WithData(statsRows(st, time.Now())).Render()
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached listing so the next open fetches from Drive",
	Long: `Drop the cached listing so the next open fetches from Drive.

Click counts are kept unless --all is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		if err := db.Delete(cache.KeyCachedFiles); err != nil {
			return fmt.Errorf("clearing listing: %w", err)
		}
		if flagClearAll {
			if err := db.Delete(cache.KeyFrequencyData); err != nil {
				return fmt.Errorf("clearing click counts: %w", err)
			}
			pterm.Success.Println("Cleared cached listing and click counts.")
			return nil
		}
		pterm.Success.Println("Cleared cached listing.")
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&flagClearAll, "all", false, "also reset click counts")
	cacheCmd.AddCommand(cacheClearCmd)
}

func statsRows(st cache.Stats, now time.Time) pterm.TableData {
	listing := "none"
	if st.HasEntry {
		age := now.Sub(st.CachedAt)
		state := "stale"
		if age < service.Freshness {
			state = "fresh"
		}
		listing = fmt.Sprintf("%d files, %s old (%s)", st.CachedFiles, formatAge(age), state)
	}

	return pterm.TableData{
		{"Property", "Value"},
		{"Cache", st.Path},
		{"Size", formatBytes(st.Size)},
		{"Listing", listing},
		{"Tracked files", strconv.Itoa(st.TrackedFiles)},
		{"Total visits", strconv.Itoa(st.TotalClicks)},
	}
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
