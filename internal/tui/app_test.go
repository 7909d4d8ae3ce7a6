package tui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/collection"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/store"
)

func newTestApp(t *testing.T) (*App, *collection.Manager) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	mgr, err := collection.NewManager(st, nil)
	require.NoError(t, err)
	// A long quiet interval so only flush-on-close commits during tests.
	return NewApp(mgr, nil, nil, WithQuietInterval(time.Hour)), mgr
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a *App, msg tea.Msg) *App {
	t.Helper()
	model, cmd := a.Update(msg)
	app, isApp := model.(*App)
	require.True(t, isApp)
	// Deliver any immediately-produced message (close notifications).
	if cmd != nil {
		if produced := cmd(); produced != nil {
			if _, isClose := produced.(closeReportMsg); isClose {
				model, _ = app.Update(produced)
				app = model.(*App)
			}
		}
	}
	return app
}

func TestMenuShowsEmptyHint(t *testing.T) {
	a, _ := newTestApp(t)
	view := a.View()
	assert.Contains(t, view, "No reports yet")
}

func TestNewReportFlushOnExit(t *testing.T) {
	a, mgr := newTestApp(t)

	model, _ := a.Update(keyRunes("n"))
	a = model.(*App)
	require.Equal(t, stateReport, a.state)
	require.NotNil(t, a.report)

	// Open the title editor and type a title.
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(*App)
	for _, ch := range "Seal failure" {
		model, _ = a.Update(keyRunes(string(ch)))
		a = model.(*App)
	}
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(*App)

	// Leaving the report before the quiet interval elapses must still
	// persist the edit.
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateMenu, a.state)
	require.Equal(t, 1, mgr.Len())
	got := mgr.ListAll()[0]
	assert.Equal(t, "Seal failure", got.Title)
	require.NotNil(t, got.NextRevisionDate)
}

func TestToggleCompletionChangesRevisionDate(t *testing.T) {
	a, mgr := newTestApp(t)

	model, _ := a.Update(keyRunes("n"))
	a = model.(*App)

	// Move focus to D3 (rows: title, ok, nok, d0..d8).
	for range 6 {
		model, _ = a.Update(keyRunes("j"))
		a = model.(*App)
	}
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeySpace})
	a = model.(*App)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, 1, mgr.Len())
	got := mgr.ListAll()[0]
	assert.True(t, got.Discipline(report.D3).Completed)
	require.NotNil(t, got.NextRevisionDate)
	// With D3 done, D6 (+7 days) is the earliest pending revision.
	want := got.CreatedAt.AddDate(0, 0, 7)
	assert.Equal(t, want.Format("2006-01-02"), got.NextRevisionDate.Format("2006-01-02"))
}

func TestDeleteFromMenu(t *testing.T) {
	a, mgr := newTestApp(t)
	r := report.New()
	r.Title = "stale report"
	require.NoError(t, mgr.Upsert(r))
	a.refreshMenu()

	model, _ := a.Update(keyRunes("d"))
	a = model.(*App)
	assert.Equal(t, 0, mgr.Len())
	assert.Empty(t, a.menu.Items())
}

func TestDeleteOnEmptyMenuIsHarmless(t *testing.T) {
	a, mgr := newTestApp(t)
	model, _ := a.Update(keyRunes("d"))
	a = model.(*App)
	assert.Equal(t, 0, mgr.Len())
	assert.Equal(t, stateMenu, a.state)
}

func TestRepeatedEscapeWhileClosing(t *testing.T) {
	a, _ := newTestApp(t)
	model, _ := a.Update(keyRunes("n"))
	a = model.(*App)

	// The first escape starts the close; its notification has not been
	// delivered yet when the second escape arrives.
	model, closeCmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(*App)
	require.NotNil(t, closeCmd)
	require.NotPanics(t, func() {
		model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	})
	a = model.(*App)

	// Delivering the original notification still lands on the menu.
	msg := closeCmd()
	require.IsType(t, closeReportMsg{}, msg)
	model, _ = a.Update(msg)
	a = model.(*App)
	assert.Equal(t, stateMenu, a.state)
	assert.Nil(t, a.report)
}

func TestPreviewTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("ö", 60)
	got := preview(long, 48)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 49, utf8.RuneCountInString(got))

	assert.Equal(t, "short", preview("short", 48))
}

func TestMenuItemDescriptions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 5)

	overdueItem := reportItem{title: "x", created: now, nextDue: &past, overdue: true}
	assert.Contains(t, overdueItem.Description(), "overdue")

	upcoming := reportItem{title: "y", created: now, nextDue: &future}
	assert.Contains(t, upcoming.Description(), "next revision")

	finished := reportItem{title: "z", created: now}
	assert.Contains(t, finished.Description(), "completed")
}

func TestReportViewRendersDisciplines(t *testing.T) {
	a, _ := newTestApp(t)
	model, _ := a.Update(keyRunes("n"))
	a = model.(*App)

	view := a.View()
	for _, d := range report.Disciplines() {
		assert.True(t, strings.Contains(view, d.Title), "missing %s", d.ID)
	}
	assert.Contains(t, view, "OK Sample")
	assert.Contains(t, view, "Add Evidence")
}

func TestAssistUnavailableWithoutGenerator(t *testing.T) {
	a, _ := newTestApp(t)
	model, _ := a.Update(keyRunes("n"))
	a = model.(*App)

	// Focus D0 and request assist with no generator configured.
	for range 3 {
		model, _ = a.Update(keyRunes("j"))
		a = model.(*App)
	}
	model, _ = a.Update(keyRunes("g"))
	a = model.(*App)
	assert.Contains(t, a.View(), "AI assist unavailable")
}
