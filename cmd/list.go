package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/recentdrive/internal/browser"
	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/classify"
	"github.com/matheuskafuri/recentdrive/internal/logging"
	"github.com/matheuskafuri/recentdrive/internal/service"
	"github.com/matheuskafuri/recentdrive/internal/session"
)

var (
	flagListTab     string
	flagListSort    string
	flagListRefresh bool
	flagListJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print your recent files",
	Long: `Print the same list the popup shows, once.

Use --tab to filter by type (all, docs, sheets, slides, other) and --sort to
order by recency or by how often you open each file.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListTab, "tab", "all", "file type: all, docs, sheets, slides, other")
	listCmd.Flags().StringVar(&flagListSort, "sort", "recent", "order: recent or frequency")
	listCmd.Flags().BoolVar(&flagListRefresh, "refresh", false, "bypass the cache")
	listCmd.Flags().BoolVar(&flagListJSON, "json", false, "print JSON instead of a table")
}

func runList(cmd *cobra.Command, args []string) error {
	tab, err := session.ParseTab(flagListTab)
	if err != nil {
		return err
	}
	sortKey, err := session.ParseSort(flagListSort)
	if err != nil {
		return err
	}

	a, err := newApp(logging.NewCLI(cfg.Level()))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.ensureLogin(ctx); err != nil {
		return err
	}

	s := a.session(tab, sortKey)
	if flagListRefresh {
		s.Refresh(ctx)
	} else {
		s.Load(ctx)
	}

	switch s.Failure() {
	case service.FailureAuth:
		pterm.Warning.Println("Not signed in to Google Drive; run `recentdrive login`")
	case service.FailureFetch:
		pterm.Warning.Println("Could not reach Google Drive; see the log for details")
	}
	if s.Tab() != tab {
		pterm.Warning.Printfln("No %s files right now; showing all", tab.Label())
	}

	if flagListJSON {
		return writeJSON(os.Stdout, s.View(), s.Count)
	}
	if len(s.View()) == 0 {
		pterm.Info.Println("No recent files")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(fileRows(s.View(), s.Count)).Render()
}

type listedFile struct {
	cache.FileRecord
	Category classify.Category `json:"category"`
	Clicks   int               `json:"clicks"`
	URL      string            `json:"url"`
}

func writeJSON(w io.Writer, files []cache.FileRecord, counts func(string) int) error {
	out := make([]listedFile, 0, len(files))
	for _, f := range files {
		out = append(out, listedFile{
			FileRecord: f,
			Category:   classify.Classify(f.MimeType),
			Clicks:     counts(f.ID),
			URL:        browser.FileURL(f.ID),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding files: %w", err)
	}
	return nil
}

func fileRows(files []cache.FileRecord, counts func(string) int) pterm.TableData {
	rows := pterm.TableData{{"#", "Type", "Name", "Modified", "Clicks", "ID"}}
	for i, f := range files {
		modified := "-"
		if t := f.Modified(); !t.IsZero() {
			modified = t.Local().Format("Jan 2 15:04")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			classify.Label(classify.Classify(f.MimeType)),
			f.Name,
			modified,
			strconv.Itoa(counts(f.ID)),
			f.ID,
		})
	}
	return rows
}
