package tui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/debounce"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

const statusTTL = 4 * time.Second

// ListStore is what the browser needs from the saved lists
type ListStore interface {
	domain.ListQueries
	domain.ListCommands
}

// inputMode selects what the input bar is editing
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFilter
)

// Opener opens a URL outside the terminal
type Opener interface {
	Open(url string) error
}

// Options configures the browser
type Options struct {
	Opener       Opener
	Section      Section
	Debounce     time.Duration
	GridColumns  int
	ImageBaseURL string
	Logger       *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	catalog *service.CatalogService
	lists   ListStore
	opener  Opener
	logger  *slog.Logger

	// Navigation state
	view      ViewState
	debouncer debounce.Debouncer
	input     inputMode

	// UI Components
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	grid    components.Grid
	bar     components.SearchBar
	detail  components.Detail

	// Data
	page         domain.Page
	genres       map[domain.MediaType][]domain.Genre
	imageBaseURL string

	// UI state
	loading   bool
	status    string
	statusErr bool
	statusID  int
	showHelp  bool

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewModel creates a new application model
func NewModel(catalog *service.CatalogService, lists ListStore, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return Model{
		catalog:      catalog,
		lists:        lists,
		opener:       opts.Opener,
		logger:       logger,
		view:         NewViewState(opts.Section),
		debouncer:    debounce.New(opts.Debounce),
		keys:         Keys,
		help:         help.New(),
		spinner:      sp,
		grid:         components.NewGrid(opts.GridColumns),
		bar:          components.NewSearchBar(),
		detail:       components.NewDetail(),
		genres:       make(map[domain.MediaType][]domain.Genre),
		imageBaseURL: opts.ImageBaseURL,
	}
}

// ViewState returns the current view state
func (m Model) ViewState() ViewState {
	return m.view
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadGenresCmd(m.catalog, domain.MediaTypeMovie),
		LoadGenresCmd(m.catalog, domain.MediaTypeTV),
	}
	if req, ok := m.view.Request(); ok {
		cmds = append(cmds, LoadPageCmd(m.catalog, req), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		if m.input != inputNone {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PageLoadedMsg:
		if !m.view.Current(msg.Request) {
			m.logger.Debug("dropping stale results", "section", msg.Request.Section.String(), "page", msg.Request.Page, "query", msg.Request.Query)
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.logger.Error("catalog fetch failed", "section", msg.Request.Section.String(), "error", msg.Err)
			m.page = domain.Page{}
			cmd := m.setStatus(catalogErrorText(msg.Err), true)
			return m, cmd
		}
		m.page = msg.Page
		m.view = m.view.WithCursor(m.view.Cursor(), len(m.page.Titles))
		return m, nil

	case GenresLoadedMsg:
		m.genres[msg.MediaType] = msg.Genres
		return m, nil

	case DetailsLoadedMsg:
		if key, ok := m.detail.Key(); ok && key == msg.Key {
			m.detail.SetTitle(msg.Title, msg.Err)
		}
		return m, nil

	case SearchTickMsg:
		if !m.debouncer.Ready(msg.Ticket) {
			return m, nil
		}
		return m.applyQuery(msg.Query)

	case ListToggledMsg:
		return m.handleToggled(msg)

	case TitleOpenedMsg:
		if msg.Err != nil {
			m.logger.Warn("open in browser failed", "key", msg.Title.Key.String(), "error", msg.Err)
			cmd := m.setStatus("Could not open a browser", true)
			return m, cmd
		}
		cmd := m.setStatus("Opened "+msg.Title.DisplayName()+" on TMDB", false)
		return m, cmd

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd
	}

	return m, nil
}

// handleKey processes keys while browsing
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.grid.Columns()
	count := len(m.cells())

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.updateLayout()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.view.Detail() {
			m.view = m.view.WithDetail(false)
			m.updateLayout()
			return m, nil
		}
		if m.view.Filter() != "" {
			m.view = m.view.WithFilter("")
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(m.view.Cursor()-cols, count)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(m.view.Cursor()+cols, count)
	case key.Matches(msg, m.keys.Left):
		return m.moveCursor(m.view.Cursor()-1, count)
	case key.Matches(msg, m.keys.Right):
		return m.moveCursor(m.view.Cursor()+1, count)
	case key.Matches(msg, m.keys.Home):
		return m.moveCursor(0, count)
	case key.Matches(msg, m.keys.End):
		return m.moveCursor(count-1, count)

	case key.Matches(msg, m.keys.NextSection):
		return m.switchSection(1)
	case key.Matches(msg, m.keys.PrevSection):
		return m.switchSection(-1)

	case key.Matches(msg, m.keys.NextPage):
		if !m.view.Section().Remote() || !m.page.HasNext() {
			return m, nil
		}
		return m.navigate(m.view.WithPage(m.view.Page() + 1))
	case key.Matches(msg, m.keys.PrevPage):
		if !m.view.Section().Remote() || m.view.Page() <= 1 {
			return m, nil
		}
		return m.navigate(m.view.WithPage(m.view.Page() - 1))

	case key.Matches(msg, m.keys.Genre):
		return m.nextGenre()

	case key.Matches(msg, m.keys.Refresh):
		if m.view.Section().Remote() {
			m.catalog.InvalidateCache()
			return m.navigate(m.view)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.view = m.view.WithSection(SectionSearch)
		m.page = domain.Page{}
		m.input = inputSearch
		m.updateLayout()
		focus := m.bar.Show("search: ", "title, show or movie...", m.view.Query())
		fetch := m.fetch()
		return m, tea.Batch(focus, fetch)

	case key.Matches(msg, m.keys.Filter):
		if m.view.Section().Remote() {
			return m, nil
		}
		m.input = inputFilter
		m.updateLayout()
		focus := m.bar.Show("/ ", "type to filter...", m.view.Filter())
		return m, focus

	case key.Matches(msg, m.keys.Enter):
		title, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.view = m.view.WithDetail(true)
		m.detail.SetLoading(title)
		m.updateLayout()
		return m, LoadDetailsCmd(m.catalog, title.Key)

	case key.Matches(msg, m.keys.Watchlist):
		return m.toggle(domain.Watchlist)
	case key.Matches(msg, m.keys.Favorite):
		return m.toggle(domain.Favorites)
	case key.Matches(msg, m.keys.Watched):
		return m.toggle(domain.Watched)
	case key.Matches(msg, m.keys.Open):
		title, ok := m.selected()
		if !ok || m.opener == nil {
			return m, nil
		}
		return m, OpenTitleCmd(m.opener, title)
	}

	return m, nil
}

// handleInputKey routes keys to the input bar
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		mode := m.input
		m.input = inputNone
		m.bar.Hide()
		m.updateLayout()
		if mode == inputFilter {
			m.view = m.view.WithFilter("")
		} else {
			m.debouncer.Cancel()
		}
		return m, nil

	case tea.KeyEnter:
		mode := m.input
		m.input = inputNone
		m.bar.Hide()
		m.updateLayout()
		if mode == inputSearch {
			// Enter skips the remaining debounce window
			m.debouncer.Cancel()
			if strings.TrimSpace(m.bar.Value()) != strings.TrimSpace(m.view.Query()) {
				return m.applyQuery(m.bar.Value())
			}
		}
		return m, nil
	}

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	before := m.bar.Value()
	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	after := m.bar.Value()
	if after == before {
		return m, cmd
	}

	switch m.input {
	case inputFilter:
		m.view = m.view.WithFilter(after)
		return m, cmd
	case inputSearch:
		ticket := m.debouncer.Schedule(time.Now())
		return m, tea.Batch(cmd, SearchTickCmd(ticket, after, m.debouncer.Window()))
	}
	return m, cmd
}

// applyQuery commits a settled search query and fetches its results
func (m Model) applyQuery(q string) (tea.Model, tea.Cmd) {
	m.logger.Debug("search settled", "query", q)
	next := m.view.WithQuery(q)
	if next.Section() != SectionSearch {
		m.view = next
		return m, nil
	}
	return m.navigate(next)
}

// navigate installs a new view state and fetches what it needs
func (m Model) navigate(next ViewState) (tea.Model, tea.Cmd) {
	m.view = next
	if _, ok := m.view.Request(); !ok {
		m.loading = false
		m.page = domain.Page{}
		return m, nil
	}
	cmd := m.fetch()
	return m, cmd
}

// fetch starts the catalog request for the current state, if any
func (m *Model) fetch() tea.Cmd {
	req, ok := m.view.Request()
	if !ok {
		m.loading = false
		return nil
	}
	m.loading = true
	return tea.Batch(LoadPageCmd(m.catalog, req), m.spinner.Tick)
}

func (m Model) moveCursor(cursor, count int) (tea.Model, tea.Cmd) {
	prev := m.view.Cursor()
	m.view = m.view.WithCursor(cursor, count)
	if m.view.Detail() && m.view.Cursor() != prev {
		if title, ok := m.selected(); ok {
			m.detail.SetLoading(title)
			return m, LoadDetailsCmd(m.catalog, title.Key)
		}
	}
	return m, nil
}

func (m Model) switchSection(delta int) (tea.Model, tea.Cmd) {
	sections := Sections()
	n := len(sections)
	next := sections[((int(m.view.Section())+delta)%n+n)%n]
	m.page = domain.Page{}
	m.updateLayout()
	return m.navigate(m.view.WithSection(next))
}

// nextGenre cycles the genre filter of the Movies and TV sections,
// wrapping back to all genres
func (m Model) nextGenre() (tea.Model, tea.Cmd) {
	mt, ok := m.view.Section().MediaType()
	if !ok {
		return m, nil
	}
	genres := m.genres[mt]
	if len(genres) == 0 {
		return m, LoadGenresCmd(m.catalog, mt)
	}

	next := genres[0].ID
	for i, g := range genres {
		if g.ID == m.view.GenreID() {
			next = 0
			if i+1 < len(genres) {
				next = genres[i+1].ID
			}
			break
		}
	}
	return m.navigate(m.view.WithGenre(next))
}

// toggle asks the store to flip a membership. Nothing changes on screen
// until the ListToggledMsg arrives.
func (m Model) toggle(list domain.ListName) (tea.Model, tea.Cmd) {
	title, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, ToggleListCmd(m.lists, list, title)
}

func (m Model) handleToggled(msg ListToggledMsg) (tea.Model, tea.Cmd) {
	t := msg.Toggle
	name := msg.Title.DisplayName()

	if !t.Result.OK() {
		m.logger.Warn("list update failed", "list", t.List, "key", msg.Title.Key.String(), "reason", t.Result.Reason.String(), "error", t.Result.Err)
		// AlreadyPresent on mark watched is informational, the others are failures
		isErr := t.Result.Reason != domain.ReasonAlreadyPresent
		cmd := m.setStatus(t.Result.Message(name, t.List), isErr)
		return m, cmd
	}

	m.logger.Info("list updated", "list", t.List, "key", msg.Title.Key.String(), "active", t.Active)

	// The record may have left the list being displayed
	m.view = m.view.WithCursor(m.view.Cursor(), len(m.cells()))

	text := "Removed " + name + " from " + t.List.Label()
	if t.Active {
		text = "Added " + name + " to " + t.List.Label()
	}
	cmd := m.setStatus(text, false)
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusErr = isErr
	return ClearStatusCmd(m.statusID, statusTTL)
}

// cells builds the grid content for the current state. Membership is
// read from the store on every call, so badges always show what was
// actually persisted.
func (m Model) cells() []components.Cell {
	if list, ok := m.view.Section().List(); ok {
		matches := service.FilterRecords(m.view.Filter(), m.lists.Records(list))
		cells := make([]components.Cell, len(matches))
		for i, match := range matches {
			t := recordTitle(match.Record)
			cells[i] = components.Cell{Title: t, Badges: m.badges(t.Key), Matched: match.MatchedIndexes}
		}
		return cells
	}

	cells := make([]components.Cell, len(m.page.Titles))
	for i, t := range m.page.Titles {
		cells[i] = components.Cell{Title: t, Badges: m.badges(t.Key)}
	}
	return cells
}

func (m Model) badges(k domain.Key) components.Badges {
	return components.Badges{
		Watchlist: m.lists.IsInWatchlist(k.ID, k.MediaType),
		Favorite:  m.lists.IsFavorite(k.ID, k.MediaType),
		Watched:   m.lists.IsWatched(k.ID, k.MediaType),
	}
}

func (m Model) selected() (domain.Title, bool) {
	cells := m.cells()
	c := m.view.Cursor()
	if c < 0 || c >= len(cells) {
		return domain.Title{}, false
	}
	return cells[c].Title, true
}

// recordTitle rebuilds a displayable title from a list snapshot
func recordTitle(r domain.Record) domain.Title {
	t := domain.Title{Key: r.Key, Name: r.Title, VoteAverage: r.VoteAverage}
	if r.PosterPath != nil {
		t.PosterPath = *r.PosterPath
	}
	return t
}

func catalogErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		return "TMDB rejected the credentials; run `marquee setup`"
	case errors.Is(err, domain.ErrCatalogOffline):
		return "Cannot reach TMDB; showing nothing for now"
	case errors.Is(err, domain.ErrRateLimited):
		return "TMDB is rate limiting requests; try again shortly"
	default:
		return "Catalog request failed: " + err.Error()
	}
}
