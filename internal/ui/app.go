package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/config"
	"github.com/five82/pocketspice/internal/prefs"
	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
	"github.com/five82/pocketspice/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewMatch
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	API       spice.API
	Session   *session.Manager
	Store     *state.Store
	Config    *config.Config
	Logger    zerolog.Logger
	Tick      time.Duration
	ThemeName string
	PageSize  int
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       spice.API
	session   *session.Manager
	store     *state.Store
	config    *config.Config
	logger    zerolog.Logger
	prefsPath string
	tick      time.Duration
	pageSize  int
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	spinner     spinner.Model

	// Data state
	snapshot state.Snapshot
	auth     session.Snapshot
	now      time.Time

	// List state
	selectedRow int

	// Detail state
	detailID       int64
	detailViewport viewport.Model

	// Status line
	status      string
	statusIsErr bool

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = prefs.Defaults().PageSize
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	m := Model{
		ctx:         ctx,
		api:         opts.API,
		session:     opts.Session,
		store:       store,
		config:      opts.Config,
		logger:      opts.Logger.With().Str("component", "ui").Logger(),
		prefsPath:   prefsPath,
		tick:        tick,
		pageSize:    pageSize,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewList,
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		now:         time.Now(),
	}
	m.snapshot = store.Snapshot()
	if m.session != nil {
		m.auth = m.session.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
		fetchSnapshotCmd(m.store, m.session),
		m.spinner.Tick,
	}
	// Nothing loaded yet (the caller skipped the initial load or it failed).
	if !m.snapshot.HasPage && m.api != nil {
		cmds = append(cmds, m.loadListing(state.Listing{Page: 1, PageSize: m.pageSize}))
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
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.resizeDetailViewport()
		m.updateDetailViewport()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tea.Batch(fetchSnapshotCmd(m.store, m.session), tickCmd(m.tick))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(msg.data, msg.auth)
		return m, nil

	case loadedMsg:
		m.applySnapshot(msg.data, msg.auth)
		m.reportResult(msg.op, msg.err)
		return m, nil

	case detailLoadedMsg:
		m.applySnapshot(msg.data, msg.auth)
		// Replies for a recipe the user has left stay silent.
		if msg.id == m.detailID {
			m.reportResult(session.OpLoad, msg.err)
		}
		return m, nil

	case authDoneMsg:
		m.auth = msg.auth
		switch {
		case msg.err != nil:
			m.setStatus(msg.err.Error(), true)
		case msg.op == session.OpLogout:
			m.setStatus("Logged out.", false)
		case msg.auth.User != nil:
			m.setStatus("Signed in as "+msg.auth.User.DisplayName()+".", false)
		}
		return m, nil

	case promptSubmitMsg:
		return m.handlePrompt(msg)

	case loginSubmitMsg:
		m.setStatus("Signing in...", false)
		return m, loginCmd(m.ctx, m.session, spice.LoginRequest{Username: msg.username, Password: msg.password})
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

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Login):
		if m.session == nil {
			return m, nil
		}
		if m.auth.Authenticated {
			m.setStatus("Already signed in. Press X to log out first.", false)
			return m, nil
		}
		m.modal = newLoginModal()
		return m, m.modal.Init()

	case key.Matches(msg, m.keys.Logout):
		if m.session == nil || !m.auth.Authenticated {
			return m, nil
		}
		m.setStatus("Logging out...", false)
		return m, logoutCmd(m.ctx, m.session)

	case key.Matches(msg, m.keys.Back):
		if m.currentView != ViewList {
			m.currentView = ViewList
			return m, nil
		}
	}

	switch m.currentView {
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewMatch:
		return m.handleMatchKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleListKey processes keyboard input for the recipe list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Page.Results
	listing := m.currentListing()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(items)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = maxInt(len(items)-1, 0)

	case key.Matches(msg, m.keys.Open):
		if item := m.selectedRecipe(); item != nil {
			return m.openDetail(item.ID)
		}

	case key.Matches(msg, m.keys.NextPage):
		if !m.snapshot.Page.HasNext() {
			m.setStatus("Already on the last page.", false)
			return m, nil
		}
		return m, m.loadListing(listing.WithPage(listing.CurrentPage() + 1))
	case key.Matches(msg, m.keys.PrevPage):
		if !m.snapshot.Page.HasPrevious() {
			m.setStatus("Already on the first page.", false)
			return m, nil
		}
		return m, m.loadListing(listing.WithPage(listing.CurrentPage() - 1))
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadListing(listing)
	case key.Matches(msg, m.keys.AllRecipes):
		return m, m.loadListing(state.Listing{Page: 1, PageSize: m.pageSize})

	case key.Matches(msg, m.keys.Bigger):
		return m.resizePages(m.pageSize + PageSizeStep)
	case key.Matches(msg, m.keys.Smaller):
		return m.resizePages(m.pageSize - PageSizeStep)

	case key.Matches(msg, m.keys.Search):
		m.modal = newPromptModal(promptSearch, ternary(listing.Mode == state.ModeSearch, listing.Query, ""))
		return m, m.modal.Init()
	case key.Matches(msg, m.keys.Category):
		m.modal = newPromptModal(promptCategory, ternary(listing.Mode == state.ModeCategory, listing.Category, ""))
		return m, m.modal.Init()
	case key.Matches(msg, m.keys.Match):
		m.modal = newPromptModal(promptMatch, "")
		return m, m.modal.Init()
	}

	return m, nil
}

// handleDetailKey scrolls the recipe detail.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfViewUp()
	case key.Matches(msg, m.keys.Refresh):
		if m.detailID > 0 {
			return m.openDetail(m.detailID)
		}
	}
	return m, nil
}

// handleMatchKey lets the matched recipe be opened.
func (m Model) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		if m.snapshot.Match != nil && m.snapshot.Match.Recipe.ID > 0 {
			return m.openDetail(m.snapshot.Match.Recipe.ID)
		}
	case key.Matches(msg, m.keys.Match):
		m.modal = newPromptModal(promptMatch, "")
		return m, m.modal.Init()
	}
	return m, nil
}

// handlePrompt turns a submitted prompt into a request.
func (m Model) handlePrompt(msg promptSubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case promptSearch:
		return m, m.loadListing(state.Listing{Mode: state.ModeSearch, Query: msg.value, Page: 1, PageSize: m.pageSize})
	case promptCategory:
		if msg.value == "" {
			return m, m.loadListing(state.Listing{Page: 1, PageSize: m.pageSize})
		}
		return m, m.loadListing(state.Listing{Mode: state.ModeCategory, Category: msg.value, Page: 1, PageSize: m.pageSize})
	case promptMatch:
		if msg.value == "" {
			m.setStatus("Enter at least one ingredient.", true)
			return m, nil
		}
		m.currentView = ViewMatch
		m.setStatus("Finding a recipe...", false)
		return m, matchCmd(m.ctx, m.store, m.api, m.session, msg.value)
	}
	return m, nil
}

func (m Model) openDetail(id int64) (tea.Model, tea.Cmd) {
	m.currentView = ViewDetail
	m.detailID = id
	m.detailViewport.GotoTop()
	m.updateDetailViewport()
	return m, loadDetailCmd(m.ctx, m.store, m.api, m.session, id)
}

func (m Model) resizePages(size int) (tea.Model, tea.Cmd) {
	size = min(max(size, MinPageSize), MaxPageSize)
	if size == m.pageSize {
		return m, nil
	}
	m.pageSize = size
	m.savePrefs()
	listing := m.currentListing()
	listing.PageSize = size
	return m, m.loadListing(listing.WithPage(1))
}

func (m Model) loadListing(l state.Listing) tea.Cmd {
	if l.PageSize <= 0 {
		l.PageSize = m.pageSize
	}
	return loadListingCmd(m.ctx, m.store, m.api, m.session, l)
}

// currentListing returns the listing on screen, or the first page of all
// recipes before anything has loaded.
func (m Model) currentListing() state.Listing {
	if m.snapshot.HasPage {
		return m.snapshot.Listing
	}
	return state.Listing{Page: 1, PageSize: m.pageSize}
}

func (m Model) selectedRecipe() *spice.RecipeSummary {
	items := m.snapshot.Page.Results
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return nil
	}
	item := items[m.selectedRow]
	return &item
}

// applySnapshot stores fresh data and keeps the selection in range.
func (m *Model) applySnapshot(data state.Snapshot, auth session.Snapshot) {
	listingChanged := data.Listing != m.snapshot.Listing
	m.snapshot = data
	m.auth = auth
	if listingChanged {
		m.selectedRow = 0
	}
	if n := len(data.Page.Results); m.selectedRow >= n {
		m.selectedRow = maxInt(n-1, 0)
	}
	m.updateDetailViewport()
}

// reportResult updates the status line after a request finishes.
func (m *Model) reportResult(op session.Op, err error) {
	if err != nil {
		m.setStatus(session.UserMessage(op, err), true)
		return
	}
	m.status = ""
	m.statusIsErr = false
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, PageSize: m.pageSize}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences")
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancelled from outside (signal); not a failure.
		return nil
	}
	return err
}
