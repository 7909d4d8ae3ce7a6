// internal/tui/app.go
//
// The main TUI for eightd, built on bubbletea's Elm-style loop. Two screens
// exist: the report menu and the report form. Only one report is ever open
// for editing at a time.

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/assist"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/collection"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/session"
)

// appState represents which screen we're on.
type appState int

const (
	stateMenu appState = iota
	stateReport
)

// reportItem implements list.Item for one report in the menu.
type reportItem struct {
	id      string
	title   string
	created time.Time
	nextDue *time.Time
	overdue bool
}

func (i reportItem) Title() string {
	if i.title == "" {
		return "(untitled report)"
	}
	return i.title
}

func (i reportItem) Description() string {
	desc := "created " + i.created.Format("02 Jan 2006")
	switch {
	case i.nextDue == nil:
		desc += " · " + doneStyle.Render("completed")
	case i.overdue:
		desc += " · " + overdueStyle.Render("revision overdue: "+i.nextDue.Format("Mon, 02 Jan 2006"))
	default:
		desc += " · next revision " + i.nextDue.Format("Mon, 02 Jan 2006")
	}
	return desc
}

func (i reportItem) FilterValue() string { return i.title }

// App is the top-level bubbletea model.
type App struct {
	state   appState
	manager *collection.Manager
	gen     assist.Generator
	quiet   time.Duration
	logger  *zap.Logger
	now     func() time.Time

	menu      list.Model
	report    *reportView
	statusMsg string

	width  int
	height int
}

// AppOption customizes App construction for tests.
type AppOption func(*App)

// WithClock overrides the clock used for overdue highlighting.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.now = clock
		}
	}
}

// WithQuietInterval overrides the editing session's debounce interval.
func WithQuietInterval(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.quiet = d
		}
	}
}

// NewApp builds the TUI over an already-loaded collection. gen may be nil
// when no assist credential is configured; the feature degrades to an error
// message.
func NewApp(manager *collection.Manager, gen assist.Generator, logger *zap.Logger, opts ...AppOption) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "8D Problem Solving Reports"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.AdditionalShortHelpKeys = extraMenuHelp

	app := &App{
		state:   stateMenu,
		manager: manager,
		gen:     gen,
		quiet:   session.DefaultQuietInterval,
		logger:  logger,
		now:     time.Now,
		menu:    menu,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.refreshMenu()
	return app
}

func (a *App) Init() tea.Cmd {
	return nil
}

// refreshMenu rebuilds the menu items from the collection, keeping the
// manager's presentation order.
func (a *App) refreshMenu() {
	reports := a.manager.ListAll()
	items := make([]list.Item, 0, len(reports))
	now := a.now()
	for _, r := range reports {
		items = append(items, reportItem{
			id:      r.ID,
			title:   r.Title,
			created: r.CreatedAt,
			nextDue: r.NextRevisionDate,
			overdue: r.NextRevisionDate != nil && r.NextRevisionDate.Before(now),
		})
	}
	a.menu.SetItems(items)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(msg.Width-2, msg.Height-2)
		if a.report != nil {
			a.report.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case closeReportMsg:
		// The session flushed before this message fired.
		a.report = nil
		a.state = stateMenu
		a.refreshMenu()
		if msg.err != nil {
			a.statusMsg = "save failed; recent edits may not survive a restart"
			a.logger.Error("flush on close failed", zap.Error(msg.err))
		}
		return a, nil
	}

	switch a.state {
	case stateReport:
		return a.updateReport(msg)
	default:
		return a.updateMenu(msg)
	}
}

func (a *App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, isKey := msg.(tea.KeyMsg); isKey {
		a.statusMsg = ""
		switch key.String() {
		case "ctrl+c", "q":
			return a, tea.Quit

		case "n":
			return a.openReport(nil)

		case "enter":
			item, selected := a.menu.SelectedItem().(reportItem)
			if !selected {
				return a, nil
			}
			r, err := a.manager.Get(item.id)
			if err != nil {
				a.statusMsg = "report no longer exists"
				a.refreshMenu()
				return a, nil
			}
			return a.openReport(&r)

		case "d":
			item, selected := a.menu.SelectedItem().(reportItem)
			if !selected {
				return a, nil
			}
			if err := a.manager.Delete(item.id); err != nil {
				a.statusMsg = fmt.Sprintf("delete failed: %v", err)
			}
			a.refreshMenu()
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) openReport(existing *report.Report) (tea.Model, tea.Cmd) {
	a.report = newReportView(a.manager, existing, a.gen, a.quiet, a.logger)
	a.report.setSize(a.width, a.height)
	a.state = stateReport
	return a, a.report.Init()
}

func (a *App) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, isKey := msg.(tea.KeyMsg); isKey && key.String() == "ctrl+c" {
		// Quit still flushes the open session first.
		if a.report != nil {
			if err := a.report.ctrl.Close(); err != nil {
				a.logger.Error("flush on quit failed", zap.Error(err))
			}
		}
		return a, tea.Quit
	}
	if a.report == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.report, cmd = a.report.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.state == stateReport && a.report != nil {
		return a.report.View()
	}
	view := a.menu.View()
	if len(a.menu.Items()) == 0 {
		view += "\n" + dimStyle.Render("No reports yet. Press n to start your first 8D report.")
	}
	if a.statusMsg != "" {
		view += "\n" + errStyle.Render(a.statusMsg)
	}
	return view
}

func extraMenuHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new report")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}
