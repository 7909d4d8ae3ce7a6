// internal/tui/report_view.go
//
// The report screen: one open report, edited through a session controller
// that auto-saves after a quiet interval. Escape from the top level flushes
// the session before returning to the menu, so leaving never loses an edit.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/assist"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/attachment"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/session"
)

type rowKind int

const (
	rowTitle rowKind = iota
	rowOKSample
	rowNOKSample
	rowDiscipline
	rowEvidence
	rowAddEvidence
)

// row is one focusable line of the report form. index addresses the
// discipline or evidence the row stands for.
type row struct {
	kind  rowKind
	index int
}

type savedMsg struct {
	err error
	ok  bool
}

type assistChunkMsg struct {
	chunk assist.Chunk
	ok    bool
}

type closeReportMsg struct {
	err error
}

type reportView struct {
	ctrl   *session.Controller
	gen    assist.Generator
	logger *zap.Logger

	rows  []row
	focus int

	titleInput     textinput.Model
	editingTitle   bool
	editor         textarea.Model
	editingContent bool
	pathInput      textinput.Model
	promptingPath  bool

	saving      bool
	lastSaveErr error
	saves       chan error
	closed      bool

	assistActive bool
	assistTarget string
	assistCancel context.CancelFunc
	assistCh     <-chan assist.Chunk
	assistErr    string

	status string
	width  int
	height int
}

// newReportView opens an editing session. existing is nil for a fresh
// report.
func newReportView(committer session.Committer, existing *report.Report, gen assist.Generator, quiet time.Duration, logger *zap.Logger) *reportView {
	saves := make(chan error, 8)
	opts := []session.Option{
		session.WithQuietInterval(quiet),
		session.WithLogger(logger),
		session.WithSaveNotifier(func(err error) {
			select {
			case saves <- err:
			default:
			}
		}),
	}
	if existing != nil {
		opts = append(opts, session.WithReport(*existing))
	}
	ctrl := session.New(committer, opts...)

	titleInput := textinput.New()
	titleInput.Placeholder = "Enter Report Title"
	titleInput.CharLimit = 200
	titleInput.SetValue(ctrl.Report().Title)

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/file"

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	v := &reportView{
		ctrl:       ctrl,
		gen:        gen,
		logger:     logger,
		titleInput: titleInput,
		pathInput:  pathInput,
		editor:     editor,
		saves:      saves,
	}
	v.rebuildRows()
	return v
}

func (v *reportView) Init() tea.Cmd {
	return v.listenSaves()
}

func (v *reportView) listenSaves() tea.Cmd {
	saves := v.saves
	return func() tea.Msg {
		err, ok := <-saves
		return savedMsg{err: err, ok: ok}
	}
}

// rebuildRows recomputes the focusable rows; the row count only changes
// when evidence slots come and go.
func (v *reportView) rebuildRows() {
	r := v.ctrl.Report()
	rows := []row{{kind: rowTitle}, {kind: rowOKSample}, {kind: rowNOKSample}}
	for i := range r.Disciplines {
		rows = append(rows, row{kind: rowDiscipline, index: i})
	}
	for i := range r.Evidences {
		rows = append(rows, row{kind: rowEvidence, index: i})
	}
	rows = append(rows, row{kind: rowAddEvidence})
	v.rows = rows
	if v.focus >= len(rows) {
		v.focus = len(rows) - 1
	}
}

func (v *reportView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.titleInput.Width = max(20, width-20)
	v.pathInput.Width = max(20, width-20)
	v.editor.SetWidth(max(20, width-6))
	v.editor.SetHeight(8)
}

// close flushes the session and tears down any running assist stream. The
// app leaves the report screen only when the returned message is delivered,
// so a repeated escape can reach close again; after the first call it is a
// no-op.
func (v *reportView) close() tea.Cmd {
	if v.closed {
		return nil
	}
	v.closed = true
	if v.assistCancel != nil {
		v.assistCancel()
	}
	err := v.ctrl.Close()
	close(v.saves)
	return func() tea.Msg { return closeReportMsg{err: err} }
}

func (v *reportView) Update(msg tea.Msg) (*reportView, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if !msg.ok {
			return v, nil
		}
		v.saving = false
		v.lastSaveErr = msg.err
		return v, v.listenSaves()

	case assistChunkMsg:
		return v, v.handleAssistChunk(msg)

	case tea.KeyMsg:
		switch {
		case v.editingTitle:
			return v.updateTitle(msg)
		case v.promptingPath:
			return v.updatePathPrompt(msg)
		case v.editingContent:
			return v.updateEditor(msg)
		default:
			return v.updateNavigation(msg)
		}
	}
	return v, nil
}

func (v *reportView) updateTitle(msg tea.KeyMsg) (*reportView, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		v.editingTitle = false
		v.titleInput.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.titleInput, cmd = v.titleInput.Update(msg)
	v.ctrl.SetTitle(v.titleInput.Value())
	v.saving = true
	return v, cmd
}

func (v *reportView) updateEditor(msg tea.KeyMsg) (*reportView, tea.Cmd) {
	if msg.String() == "esc" {
		v.editingContent = false
		v.editor.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	if r := v.focusedRow(); r.kind == rowDiscipline {
		id := v.ctrl.Report().Disciplines[r.index].ID
		v.ctrl.SetContent(id, v.editor.Value())
		v.saving = true
	}
	return v, cmd
}

func (v *reportView) updatePathPrompt(msg tea.KeyMsg) (*reportView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.promptingPath = false
		v.pathInput.Blur()
		return v, nil
	case "enter":
		v.promptingPath = false
		v.pathInput.Blur()
		v.attachFile(strings.TrimSpace(v.pathInput.Value()))
		return v, nil
	}
	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

// attachFile converts the file at path and stores it into the focused slot.
func (v *reportView) attachFile(path string) {
	if path == "" {
		return
	}
	f, err := attachment.FromFile(path)
	if err != nil {
		v.status = fmt.Sprintf("attach failed: %v", err)
		v.logger.Warn("attach failed", zap.String("path", path), zap.Error(err))
		return
	}
	switch r := v.focusedRow(); r.kind {
	case rowOKSample:
		v.ctrl.SetOKSample(&f)
	case rowNOKSample:
		v.ctrl.SetNOKSample(&f)
	case rowEvidence:
		v.ctrl.SetEvidence(r.index, f)
	}
	v.saving = true
	v.status = fmt.Sprintf("attached %s", f.Name)
}

func (v *reportView) updateNavigation(msg tea.KeyMsg) (*reportView, tea.Cmd) {
	v.status = ""
	switch msg.String() {
	case "esc", "q":
		return v, v.close()

	case "up", "k":
		if v.focus > 0 {
			v.focus--
		}
	case "down", "j":
		if v.focus < len(v.rows)-1 {
			v.focus++
		}

	case "enter":
		return v.activateFocused()

	case " ", "x":
		if r := v.focusedRow(); r.kind == rowDiscipline {
			rep := v.ctrl.Report()
			d := rep.Disciplines[r.index]
			v.ctrl.SetCompleted(d.ID, !d.Completed)
			v.saving = true
		}

	case "a":
		v.ctrl.AddEvidence()
		v.saving = true
		v.rebuildRows()

	case "backspace", "delete":
		switch r := v.focusedRow(); r.kind {
		case rowOKSample:
			v.ctrl.SetOKSample(nil)
			v.saving = true
		case rowNOKSample:
			v.ctrl.SetNOKSample(nil)
			v.saving = true
		case rowEvidence:
			v.ctrl.RemoveEvidence(r.index)
			v.saving = true
			v.rebuildRows()
		}

	case "g":
		if r := v.focusedRow(); r.kind == rowDiscipline {
			d := v.ctrl.Report().Disciplines[r.index]
			return v, v.startAssist(d)
		}
	}
	return v, nil
}

func (v *reportView) activateFocused() (*reportView, tea.Cmd) {
	switch r := v.focusedRow(); r.kind {
	case rowTitle:
		v.editingTitle = true
		v.titleInput.SetValue(v.ctrl.Report().Title)
		return v, v.titleInput.Focus()

	case rowOKSample, rowNOKSample, rowEvidence:
		v.promptingPath = true
		v.pathInput.SetValue("")
		return v, v.pathInput.Focus()

	case rowDiscipline:
		d := v.ctrl.Report().Disciplines[r.index]
		if v.assistActive && v.assistTarget == d.ID {
			v.status = "assist is still writing this section"
			return v, nil
		}
		v.editingContent = true
		v.editor.SetValue(d.Content)
		return v, v.editor.Focus()

	case rowAddEvidence:
		v.ctrl.AddEvidence()
		v.saving = true
		v.rebuildRows()
	}
	return v, nil
}

func (v *reportView) focusedRow() row {
	if v.focus < 0 || v.focus >= len(v.rows) {
		return row{kind: rowTitle}
	}
	return v.rows[v.focus]
}

// startAssist opens a generation stream for the discipline. Fragments land
// in the draft as they arrive; the stream is cancelled when the view closes.
func (v *reportView) startAssist(d report.Discipline) tea.Cmd {
	if v.gen == nil {
		v.assistErr = "AI assist unavailable: set GEMINI_API_KEY"
		return nil
	}
	if v.assistActive {
		return nil
	}
	rep := v.ctrl.Report()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := v.gen.Generate(ctx, assist.Request{
		ReportTitle:           rep.Title,
		DisciplineTitle:       d.Title,
		DisciplineDescription: d.Description,
		CurrentContent:        d.Content,
	})
	if err != nil {
		cancel()
		v.assistErr = fmt.Sprintf("AI assist failed: %v", err)
		return nil
	}
	v.assistActive = true
	v.assistTarget = d.ID
	v.assistCancel = cancel
	v.assistCh = ch
	v.assistErr = ""
	v.logger.Info("assist started", zap.String("discipline", d.ID))
	return v.awaitAssist()
}

func (v *reportView) awaitAssist() tea.Cmd {
	ch := v.assistCh
	return func() tea.Msg {
		chunk, ok := <-ch
		return assistChunkMsg{chunk: chunk, ok: ok}
	}
}

func (v *reportView) handleAssistChunk(msg assistChunkMsg) tea.Cmd {
	if !v.assistActive {
		return nil
	}
	if !msg.ok {
		v.finishAssist()
		return nil
	}
	if msg.chunk.Err != nil {
		// Fragments already applied stay applied; only the failure is
		// surfaced.
		v.assistErr = fmt.Sprintf("AI assist failed: %v", msg.chunk.Err)
		v.logger.Warn("assist failed", zap.Error(msg.chunk.Err))
		v.finishAssist()
		return nil
	}
	v.ctrl.AppendContent(v.assistTarget, msg.chunk.Text)
	v.saving = true
	return v.awaitAssist()
}

func (v *reportView) finishAssist() {
	if v.assistCancel != nil {
		v.assistCancel()
		v.assistCancel = nil
	}
	v.assistActive = false
	v.assistCh = nil
}

func (v *reportView) View() string {
	rep := v.ctrl.Report()
	var b strings.Builder

	title := rep.Title
	if title == "" {
		title = "(untitled report)"
	}
	if v.editingTitle {
		title = v.titleInput.View()
	}
	b.WriteString(titleStyle.Render("8D Report · "+title) + "\n")

	meta := "created " + rep.CreatedAt.Format("02 Jan 2006")
	if rep.NextRevisionDate != nil {
		meta += " · next revision " + rep.NextRevisionDate.Format("02 Jan 2006")
	}
	b.WriteString(dimStyle.Render(meta))
	if v.saving {
		b.WriteString("  " + savingStyle.Render("Saving..."))
	} else if v.lastSaveErr != nil {
		b.WriteString("  " + errStyle.Render("save failed; edits may not survive a restart"))
	}
	b.WriteString("\n\n")

	for i, r := range v.rows {
		cursor := "  "
		if i == v.focus {
			cursor = focusedStyle.Render("> ")
		}
		b.WriteString(cursor + v.renderRow(r, rep, i == v.focus) + "\n")
	}

	if v.promptingPath {
		b.WriteString("\n" + sectionStyle.Render("File path:") + " " + v.pathInput.View() + "\n")
	}
	if v.assistActive {
		b.WriteString("\n" + savingStyle.Render("AI assist writing "+v.assistTarget+"...") + "\n")
	}
	if v.assistErr != "" {
		b.WriteString("\n" + errStyle.Render(v.assistErr) + "\n")
	}
	if v.status != "" {
		b.WriteString("\n" + dimStyle.Render(v.status) + "\n")
	}

	help := "enter edit · space toggle done · g AI assist · a add evidence · backspace remove · esc back"
	if v.editingContent || v.editingTitle || v.promptingPath {
		help = "esc done editing"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (v *reportView) renderRow(r row, rep report.Report, focused bool) string {
	switch r.kind {
	case rowTitle:
		t := rep.Title
		if t == "" {
			t = dimStyle.Render("(untitled)")
		}
		return "Title: " + t

	case rowOKSample:
		return "OK Sample:  " + attachmentLabel(rep.OKSample)

	case rowNOKSample:
		return "NOK Sample: " + attachmentLabel(rep.NOKSample)

	case rowDiscipline:
		d := rep.Disciplines[r.index]
		mark := "[ ]"
		if d.Completed {
			mark = doneStyle.Render("[x]")
		}
		line := mark + " " + sectionStyle.Render(d.Title)
		if !focused {
			if d.Content != "" {
				line += dimStyle.Render("  " + preview(d.Content, 48))
			}
			return line
		}
		detail := "\n      " + dimStyle.Render(d.Description)
		if v.editingContent {
			detail += "\n" + v.editor.View()
		} else if d.Content != "" {
			detail += "\n      " + preview(d.Content, max(40, v.width-8))
		}
		return line + detail

	case rowEvidence:
		return fmt.Sprintf("Evidence %d: %s", r.index+1, attachmentLabel(&rep.Evidences[r.index]))

	case rowAddEvidence:
		return dimStyle.Render("+ Add Evidence")
	}
	return ""
}

func attachmentLabel(f *report.FileAttachment) string {
	if f == nil || f.Name == "" {
		return dimStyle.Render("(none)")
	}
	return fmt.Sprintf("%s (%s)", f.Name, f.MimeType)
}

func preview(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width]) + "…"
	}
	return s
}
