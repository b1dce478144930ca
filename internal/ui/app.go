package ui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/config"
	"github.com/five82/stockroom/internal/logging"
	"github.com/five82/stockroom/internal/mutation"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/query"
	"github.com/five82/stockroom/internal/state"
)

// mode is the screen or overlay receiving keys.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
	modeDetail
	modeHelp
	modeActivity
)

// sortColumns maps the 1-6 keys onto sort keys, in table column order.
var sortColumns = []query.Key{
	query.KeyID,
	query.KeyTitle,
	query.KeyPrice,
	query.KeyCategory,
	query.KeyCreatedAt,
	query.KeyUpdatedAt,
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Store       *state.Store
	Coordinator *mutation.Coordinator
	Config      *config.Config
	Logger      *zap.Logger
	ThemeName   string
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	coord     *mutation.Coordinator
	config    *config.Config
	policy    catalog.PricePolicy
	logger    *zap.Logger
	keys      keyMap
	prefsPath string
	now       func() time.Time

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	mode   mode

	// Data state
	changes     chan struct{} // wakeups from the store subscription
	unsubscribe func()
	snapshot    state.Snapshot
	selectedRow int // index into the visible page
	loading     bool
	pending     bool // a write is in flight
	banner      banner

	// Search
	searchInput  textinput.Model
	searchBefore string

	// Modals
	form         productForm
	deleteTarget catalog.Product
	detail       catalog.Product
	detailNote   banner

	// Activity log overlay
	activity    []logging.Entry
	activityErr error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(state.DefaultPageSize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	ti := textinput.New()
	ti.Placeholder = "Search title, description or category..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	// Subscribe before the first read so no change is missed. The listener
	// can run inside Update, so it must never block.
	changes := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(state.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	snap := store.Snapshot()
	return Model{
		ctx:         ctx,
		store:       store,
		coord:       opts.Coordinator,
		config:      cfg,
		policy:      cfg.PricePolicy(),
		logger:      logger.Named("ui"),
		keys:        DefaultKeyMap(),
		prefsPath:   opts.PrefsPath,
		now:         time.Now,
		theme:       GetTheme(opts.ThemeName),
		changes:     changes,
		unsubscribe: unsubscribe,
		snapshot:    snap,
		loading:     !snap.Loaded && snap.LoadError == nil && opts.Coordinator != nil,
		searchInput: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.loading {
		return m.loadCmd(false)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(m.width-20, 20)
		m.ready = true
		return m, nil

	case storeChangedMsg:
		m.sync()
		return m, nil

	case loadDoneMsg:
		return m.handleLoadDone(msg)

	case writeDoneMsg:
		return m.handleWriteDone(msg)

	case exportDoneMsg:
		return m.handleExportDone(msg)

	case detailMsg:
		return m.handleDetailFetched(msg)

	case activityMsg:
		m.activity = msg.entries
		m.activityErr = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case modeHelp:
		return m.renderHelp()
	case modeForm:
		return m.renderForm()
	case modeConfirmDelete:
		return m.renderDeleteConfirm()
	case modeDetail:
		return m.renderDetail()
	case modeActivity:
		return m.renderActivity()
	}

	if !m.snapshot.Loaded {
		if m.snapshot.LoadError != nil && !m.loading {
			return m.renderLoadError()
		}
		return m.renderLoading()
	}
	return m.renderMain()
}

// handleKey routes keyboard input to the active mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeHelp:
		// Any key closes help
		m.mode = modeBrowse
		return m, nil
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleDeleteKey(msg)
	case modeDetail:
		return m.handleDetailKey(msg)
	case modeActivity:
		return m.handleActivityKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs(m.store.PageSize())
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	case key.Matches(msg, m.keys.Activity):
		m.mode = modeActivity
		return m, m.activityCmd()

	case key.Matches(msg, m.keys.Escape):
		m.banner = banner{}
		return m, nil
	}

	// Browsing needs a loaded list
	if !m.snapshot.Loaded {
		return m, nil
	}
	return m.handleBrowseKey(msg)
}

// handleBrowseKey processes keys for the product table.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.snapshot.View().Rows

	switch {
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchBefore = m.snapshot.SearchTerm
		m.searchInput.SetValue(m.snapshot.SearchTerm)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Sort):
		idx := int(msg.Runes[0] - '1')
		m.store.SetSort(sortColumns[idx])

	case key.Matches(msg, m.keys.PrevPage):
		m.changePage(m.store.PrevPage())
	case key.Matches(msg, m.keys.NextPage):
		m.changePage(m.store.NextPage())
	case key.Matches(msg, m.keys.FirstPage):
		m.changePage(m.store.FirstPage())
	case key.Matches(msg, m.keys.LastPage):
		m.changePage(m.store.LastPage())

	case key.Matches(msg, m.keys.GrowPage), key.Matches(msg, m.keys.ShrinkPage):
		grow := key.Matches(msg, m.keys.GrowPage)
		current := m.store.PageSize()
		if size := nextPageSize(current, grow); size != current {
			m.store.SetPageSize(size)
			m.selectedRow = 0
			m.savePrefs(size)
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(rows)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}

	case key.Matches(msg, m.keys.ShowDetail):
		if p, ok := m.selectedProduct(); ok {
			m.detail = p
			m.mode = modeDetail
		}

	case key.Matches(msg, m.keys.CreateItem):
		return m.openForm(nil)

	case key.Matches(msg, m.keys.EditItem):
		if p, ok := m.selectedProduct(); ok {
			return m.openForm(&p)
		}

	case key.Matches(msg, m.keys.DeleteItem):
		if p, ok := m.selectedProduct(); ok {
			m.deleteTarget = p
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.ExportAll):
		return m.startExport(false)
	case key.Matches(msg, m.keys.ExportPage):
		return m.startExport(true)
	}

	return m, nil
}

// handleSearchKey filters live while the user types.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		m.searchInput.Blur()
		if query.NormalizeTerm(m.searchInput.Value()) != m.searchBefore {
			m.store.SetSearchTerm(m.searchBefore)
			m.selectedRow = 0
		}
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.store.SetSearchTerm(value)
		m.selectedRow = 0
	}
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.EditItem):
		p := m.detail
		return m.openForm(&p)
	case key.Matches(msg, m.keys.DeleteItem):
		m.deleteTarget = m.detail
		m.mode = modeConfirmDelete
	case key.Matches(msg, m.keys.Reload):
		if m.coord != nil {
			m.detailNote = infoBanner("Refreshing...")
			return m, m.fetchCmd(m.detail.ID)
		}
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Quit):
		m.mode = modeBrowse
	}
	return m, nil
}

// handleDetailFetched swaps in the re-read product when the overlay still
// shows it.
func (m Model) handleDetailFetched(msg detailMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeDetail || m.detail.ID != msg.id {
		return m, nil
	}
	if msg.err != nil {
		m.detailNote = errorBanner("Refresh failed: " + describeError(msg.err))
		return m, nil
	}
	if msg.product != nil {
		m.detail = msg.product.Clone()
	}
	m.detailNote = successBanner("Up to date")
	return m, nil
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reload):
		return m, m.activityCmd()
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Activity), key.Matches(msg, m.keys.Quit):
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.loading || m.coord == nil {
		return m, nil
	}
	m.loading = true
	return m, m.loadCmd(true)
}

func (m Model) handleLoadDone(msg loadDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	switch {
	case msg.err != nil && m.snapshot.Loaded:
		m.banner = errorBanner("Reload failed: " + describeError(msg.err))
	case msg.err == nil && msg.manual:
		m.banner = infoBanner("Reloaded " + pluralize(msg.count, "product"))
	}
	return m, nil
}

// changePage resets the row cursor when the page moved.
func (m *Model) changePage(changed bool) {
	if changed {
		m.selectedRow = 0
	}
}

// sync pulls the latest snapshot after a store change and keeps the row
// cursor on the visible page.
func (m *Model) sync() {
	m.snapshot = m.store.Snapshot()
	rows := len(m.snapshot.View().Rows)
	if m.selectedRow >= rows {
		m.selectedRow = max(rows-1, 0)
	}
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	rows := m.snapshot.View().Rows
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return catalog.Product{}, false
	}
	return rows[m.selectedRow].Clone(), true
}

func (m Model) savePrefs(pageSize int) {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, PageSize: pageSize}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	done := make(chan struct{})
	defer close(done)
	go forwardChanges(m.changes, done, p.Send)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Interrupted by a signal rather than a failure.
		return nil
	}
	return err
}

// forwardChanges turns store wakeups into storeChangedMsg until done closes.
func forwardChanges(changes <-chan struct{}, done <-chan struct{}, send func(tea.Msg)) {
	for {
		select {
		case <-done:
			return
		case <-changes:
			send(storeChangedMsg{})
		}
	}
}
