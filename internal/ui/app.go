package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/mutation"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/view"
)

// Cache is the read side the UI renders from.
type Cache interface {
	Get(ctx context.Context) (state.Snapshot, error)
	Snapshot() state.Snapshot
	Invalidate()
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Cache       Cache
	Mutations   *mutation.Coordinator
	APIURL      string // shown in the error hint
	LogPath     string // activity log; empty disables the overlay
	PollTick    time.Duration
	RowsPerPage int // from config; prefs override when set
	Prefs       prefs.Prefs
	PrefsPath   string
}

// toast is a transient notification line.
type toast struct {
	text    string
	failed  bool
	expires time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	cache     Cache
	mutations *mutation.Coordinator
	apiURL    string
	logPath   string
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool
	activity []logtail.Entry // non-nil while the activity overlay is open

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	genres      []string

	// View state
	view      view.State
	memo      *view.Memo
	selected  int // row within the current page
	searching bool
	search    textinput.Model

	// Dialogs and notifications
	modal Modal
	toast toast
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	rows := opts.RowsPerPage
	if opts.Prefs.RowsPerPage > 0 {
		rows = opts.Prefs.RowsPerPage
	}
	vs := view.NewState(rows).SetMode(view.ParseMode(opts.Prefs.ViewMode))

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "Search by title or author"
	search.CharLimit = 100

	return Model{
		ctx:       ctx,
		cache:     opts.Cache,
		mutations: opts.Mutations,
		apiURL:    opts.APIURL,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		now:       time.Now,
		theme:     GetTheme(opts.Prefs.Theme),
		keys:      DefaultKeyMap(),
		view:      vs,
		memo:      &view.Memo{},
		search:    search,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.cache != nil {
		cmds = append(cmds, loadCmd(m.ctx, m.cache))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, msg.Width/3)
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case formSubmittedMsg:
		return m.submitForm(msg)

	case deleteConfirmedMsg:
		if m.mutations == nil {
			return m, nil
		}
		return m, waitCmd(m.ctx, m.mutations.Delete(m.ctx, msg.id))

	case outcomeMsg:
		return m.handleOutcome(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.activity != nil {
		return m.renderActivity()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// page returns the visible slice for the current snapshot and view state.
func (m Model) page() view.Result {
	return m.memo.Compute(m.snapshot.Version, m.snapshot.Records, m.view)
}

// selectedRecord returns the highlighted record, if any.
func (m Model) selectedRecord() (catalog.Record, bool) {
	items := m.page().Items
	if m.selected < 0 || m.selected >= len(items) {
		return catalog.Record{}, false
	}
	return items[m.selected], true
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if snap.Loaded {
		m.lastUpdated = snap.LastUpdated
	}
	m.genres = view.Genres(snap.Records)
	m.clampSelection()
}

// clampSelection keeps the cursor on the page after records or filters
// change. It also steps back when a deletion empties the last page.
func (m *Model) clampSelection() {
	res := m.page()
	if res.TotalPages > 0 && m.view.Page >= res.TotalPages {
		m.view = m.view.SetPage(res.TotalPages - 1)
		res = m.page()
	}
	if m.selected >= len(res.Items) {
		m.selected = len(res.Items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// setView applies a view-state transition and resets the cursor.
func (m *Model) setView(next view.State) {
	if next == m.view {
		return
	}
	m.view = next
	m.selected = 0
	m.clampSelection()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.activity != nil {
		m.activity = nil
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Activity):
		m.openActivity()

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.Refresh):
		if m.cache != nil {
			m.cache.Invalidate()
			return m, loadCmd(m.ctx, m.cache)
		}

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.page().Items)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, len(m.page().Items)-1)
	case key.Matches(msg, m.keys.NextPage):
		m.setView(m.view.NextPage(m.page().TotalPages))
	case key.Matches(msg, m.keys.PrevPage):
		m.setView(m.view.PrevPage())

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.view.SearchTerm)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.CycleGenre):
		m.setView(m.view.SetGenreFilter(nextGenre(m.genres, m.view.GenreFilter)))
	case key.Matches(msg, m.keys.CycleStatus):
		m.setView(m.view.SetStatusFilter(nextStatus(m.view.StatusFilter)))
	case key.Matches(msg, m.keys.ResetFilters):
		m.setView(m.view.ResetFilters())
	case key.Matches(msg, m.keys.ToggleLayout):
		m.view = m.view.ToggleMode()
		m.savePrefs()
	case key.Matches(msg, m.keys.MoreRows):
		m.setView(m.view.SetRowsPerPage(nextRowsPerPage(m.view.RowsPerPage, 1)))
		m.savePrefs()
	case key.Matches(msg, m.keys.FewerRows):
		m.setView(m.view.SetRowsPerPage(nextRowsPerPage(m.view.RowsPerPage, -1)))
		m.savePrefs()

	case key.Matches(msg, m.keys.Add):
		m.modal = newRecordForm(nil)
	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selectedRecord(); ok {
			m.modal = newRecordForm(&rec)
		}
	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selectedRecord(); ok {
			m.modal = newConfirmDelete(rec)
		}
	case key.Matches(msg, m.keys.ToggleStatus):
		return m.toggleStatus()
	}

	return m, nil
}

// handleSearchKey feeds the search box; the filter follows every keystroke.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.setView(m.view.SetSearchTerm(""))
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != m.view.SearchTerm {
		m.setView(m.view.SetSearchTerm(term))
	}
	return m, cmd
}

func (m Model) toggleStatus() (tea.Model, tea.Cmd) {
	rec, ok := m.selectedRecord()
	if !ok || m.mutations == nil {
		return m, nil
	}
	fields := rec.Fields
	fields.Status = fields.Status.Toggle()
	return m, waitCmd(m.ctx, m.mutations.Update(m.ctx, rec.ID, fields))
}

func (m Model) submitForm(msg formSubmittedMsg) (tea.Model, tea.Cmd) {
	if m.mutations == nil {
		return m, nil
	}
	var call *mutation.Call
	if msg.id.IsZero() {
		call = m.mutations.Add(m.ctx, msg.fields)
	} else {
		call = m.mutations.Update(m.ctx, msg.id, msg.fields)
	}
	if form, ok := m.modal.(recordForm); ok && form.saving {
		form.call = call
		m.modal = form
	}
	return m, waitCmd(m.ctx, call)
}

// handleOutcome shows the result of a mutation and refetches on success.
func (m Model) handleOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	o := msg.outcome
	text := o.Message()
	if !o.Succeeded() {
		if detail := problemText(o.Err); detail != "" {
			text += ": " + detail
		}
	}
	m.toast = toast{text: text, failed: !o.Succeeded(), expires: m.now().Add(ToastDuration)}

	// Only the form that submitted this call reacts; it may have been
	// dismissed and replaced while the call was in flight.
	if form, ok := m.modal.(recordForm); ok && form.call != nil && form.call == msg.call {
		if o.Succeeded() {
			m.modal = nil
		} else {
			m.modal = form.withProblem(o.Err)
		}
	}

	if o.Succeeded() && m.cache != nil {
		return m, loadCmd(m.ctx, m.cache)
	}
	return m, nil
}

// handleTick re-reads the cache and expires the toast.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.toast.text != "" && !m.now().Before(m.toast.expires) {
		m.toast = toast{}
	}
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.cache != nil {
		cmds = append(cmds, snapshotCmd(m.cache))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:       m.theme.Name,
		ViewMode:    string(m.view.Mode),
		RowsPerPage: m.view.RowsPerPage,
	})
}

// nextGenre cycles All → each genre → All.
func nextGenre(genres []string, current string) string {
	if current == "" {
		if len(genres) == 0 {
			return ""
		}
		return genres[0]
	}
	for i, g := range genres {
		if g == current {
			if i+1 < len(genres) {
				return genres[i+1]
			}
			return ""
		}
	}
	return ""
}

// nextStatus cycles All → each status → All.
func nextStatus(current catalog.Status) catalog.Status {
	statuses := catalog.Statuses()
	if current == "" {
		return statuses[0]
	}
	for i, s := range statuses {
		if s == current && i+1 < len(statuses) {
			return statuses[i+1]
		}
	}
	return ""
}

var rowsPerPageChoices = []int{5, 10, 25, 50}

// nextRowsPerPage moves to the next larger (step > 0) or smaller choice.
// Sizes outside the choices only move toward them.
func nextRowsPerPage(current, step int) int {
	if step > 0 {
		for _, n := range rowsPerPageChoices {
			if n > current {
				return n
			}
		}
		return current
	}
	for i := len(rowsPerPageChoices) - 1; i >= 0; i-- {
		if n := rowsPerPageChoices[i]; n < current {
			return n
		}
	}
	return current
}

func filterLabel(value string) string {
	if strings.TrimSpace(value) == "" {
		return "All"
	}
	return value
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type outcomeMsg struct {
	outcome mutation.Outcome
	call    *mutation.Call
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func snapshotCmd(cache Cache) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(cache.Snapshot())
	}
}

// loadCmd reads through the cache, fetching when stale. On failure the
// retained snapshot still carries LastError for the header.
func loadCmd(ctx context.Context, cache Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		snap, _ := cache.Get(ctx)
		return snapshotMsg(snap)
	}
}

func waitCmd(ctx context.Context, call *mutation.Call) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-call.Done():
		case <-ctx.Done():
			return nil
		}
		return outcomeMsg{outcome: call.Outcome(), call: call}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Shut down by signal rather than by a crash.
		return nil
	}
	return err
}
