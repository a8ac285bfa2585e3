package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/matheuskafuri/recentdrive/internal/browser"
	"github.com/matheuskafuri/recentdrive/internal/session"
	"github.com/matheuskafuri/recentdrive/internal/update"
)

type App struct {
	sess *session.Session
	log  zerolog.Logger
	open func(string) error

	width  int
	height int

	// Sub-components
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// State
	cursor   int
	loading  bool
	loaded   bool
	showHelp bool
	forced   bool
	version  string
	latest   string
	check    func(context.Context, string) *update.Result
	err      error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Session *session.Session
	Logger  zerolog.Logger
	// Refresh bypasses the cache for the first load.
	Refresh bool
	// Open launches a URL; defaults to the system browser.
	Open func(string) error
	// Version enables the update notice when set to a release version.
	Version     string
	CheckUpdate func(context.Context, string) *update.Result
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	if opts.Open == nil {
		opts.Open = browser.Open
	}

	return &App{
		sess:    opts.Session,
		log:     opts.Logger,
		open:    opts.Open,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		forced:  opts.Refresh,
		version: opts.Version,
		check:   opts.CheckUpdate,
	}
}

func (a *App) Init() tea.Cmd {
	a.loading = true
	cmds := []tea.Cmd{a.fetchCmd(a.forced), a.spinner.Tick}
	if a.check != nil && a.version != "" {
		cmds = append(cmds, a.checkUpdateCmd())
	}
	return tea.Batch(cmds...)
}

// fetchCmd runs the request off the UI goroutine. The response is applied
// in Update, so session state is only ever touched there.
func (a *App) fetchCmd(force bool) tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		return filesLoadedMsg{resp: sess.Fetch(context.Background(), force)}
	}
}

func (a *App) checkUpdateCmd() tea.Cmd {
	check, version := a.check, a.version
	return func() tea.Msg {
		return updateMsg{result: check(context.Background(), version)}
	}
}

func (a *App) openCmd(url string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width / 2
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case filesLoadedMsg:
		a.loading = false
		a.loaded = true
		a.sess.Apply(msg.resp)
		a.clampCursor()
		a.log.Debug().Int("files", len(a.sess.View())).Str("tab", string(a.sess.Tab())).
			Str("failure", string(msg.resp.Failure)).Msg("list applied")
		return a, nil

	case openErrMsg:
		a.err = msg.err
		a.log.Warn().Err(msg.err).Msg("could not open browser")
		return a, nil

	case updateMsg:
		if msg.result != nil {
			a.latest = msg.result.LatestVersion
		}
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		if key.Matches(msg, a.keys.Help, a.keys.Quit) {
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.sess.View())-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.NextTab):
		a.selectTab(a.tabBar().next(1))
	case key.Matches(msg, a.keys.PrevTab):
		a.selectTab(a.tabBar().next(-1))
	case key.Matches(msg, a.keys.Tab):
		if tab, ok := a.tabBar().at(int(msg.String()[0] - '0')); ok {
			a.selectTab(tab)
		}
	case key.Matches(msg, a.keys.Sort):
		a.sess.ToggleSort()
		a.cursor = 0
	case key.Matches(msg, a.keys.Refresh):
		// One request in flight per session.
		if !a.loading {
			a.loading = true
			return a, tea.Batch(a.fetchCmd(true), a.spinner.Tick)
		}
	case key.Matches(msg, a.keys.Open):
		view := a.sess.View()
		if a.cursor < len(view) {
			url := a.sess.RecordClick(view[a.cursor].ID)
			return a, a.openCmd(url)
		}
	}
	return a, nil
}

func (a *App) selectTab(tab session.Tab) {
	if err := a.sess.SelectTab(tab); err != nil {
		a.log.Debug().Err(err).Msg("tab not selectable")
		return
	}
	a.cursor = 0
}

func (a *App) clampCursor() {
	if n := len(a.sess.View()); a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

func (a *App) tabBar() tabBar {
	return tabBar{tabs: a.sess.VisibleTabs(), active: a.sess.Tab()}
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  recentdrive")
	}

	if a.showHelp {
		card := helpCardStyle.Render(
			headerStyle.Render("recentdrive") + headerMetaStyle.Render("  keyboard shortcuts") + "\n\n" + a.fullHelp(),
		)
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
	}

	// Header
	headerLeft := headerStyle.Render("recentdrive")
	headerRight := headerMetaStyle.Render("Recent Drive files ")
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	tabs := a.tabBar().render(a.width)

	view := a.sess.View()
	var preview string
	if a.loaded && a.cursor < len(view) && a.height >= 14 {
		preview = previewPaneStyle.Width(a.width).Render(renderPreview(&view[a.cursor], a.sess.Count(view[a.cursor].ID), a.width-2))
	}

	contentHeight := max(3, a.height-4-lipgloss.Height(preview))
	var content string
	if !a.loaded {
		content = lipglossCenter(a.spinner.View()+" Loading recent files...", 24, a.width, contentHeight)
	} else {
		content = renderList(view, a.sess.Count, a.cursor, contentHeight, a.width-2)
	}
	content = lipgloss.NewStyle().Height(contentHeight).Render(content)
	if preview != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, preview)
	}

	status := renderStatusBar(statusInfo{
		count:      len(view),
		tab:        a.sess.Tab(),
		sort:       a.sess.Sort(),
		refreshing: a.loading && a.loaded,
		spinner:    a.spinner.View(),
		latest:     a.latest,
		hints:      a.help.ShortHelpView(a.keys.ShortHelp()),
		failure:    a.sess.Failure(),
	}, a.width)

	// Error display
	if a.err != nil {
		status = errorStyle.Render(truncateStr(a.err.Error(), a.width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status)
}

func (a *App) fullHelp() string {
	var rows []string
	for _, group := range a.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			rows = append(rows, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
		}
		rows = append(rows, "")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
