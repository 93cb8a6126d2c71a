package tui

import (
	"fmt"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// Section is a top-level screen of the browser
type Section int

const (
	SectionTrending Section = iota
	SectionMovies
	SectionTV
	SectionSearch
	SectionWatchlist
	SectionFavorites
	SectionWatched
)

// Sections returns every section in tab order
func Sections() []Section {
	return []Section{
		SectionTrending, SectionMovies, SectionTV, SectionSearch,
		SectionWatchlist, SectionFavorites, SectionWatched,
	}
}

// ParseSection resolves a configured default section name
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections() {
		if strings.EqualFold(sec.String(), strings.TrimSpace(s)) {
			return sec, nil
		}
	}
	return SectionTrending, fmt.Errorf("unknown section %q", s)
}

func (s Section) String() string {
	switch s {
	case SectionTrending:
		return "trending"
	case SectionMovies:
		return "movies"
	case SectionTV:
		return "tv"
	case SectionSearch:
		return "search"
	case SectionWatchlist:
		return "watchlist"
	case SectionFavorites:
		return "favorites"
	case SectionWatched:
		return "watched"
	default:
		return "unknown"
	}
}

// Label is the tab caption
func (s Section) Label() string {
	switch s {
	case SectionTrending:
		return "Trending"
	case SectionMovies:
		return "Movies"
	case SectionTV:
		return "TV"
	case SectionSearch:
		return "Search"
	}
	if list, ok := s.List(); ok {
		return list.Label()
	}
	return "?"
}

// List returns the saved list shown by a list section
func (s Section) List() (domain.ListName, bool) {
	switch s {
	case SectionWatchlist:
		return domain.Watchlist, true
	case SectionFavorites:
		return domain.Favorites, true
	case SectionWatched:
		return domain.Watched, true
	default:
		return "", false
	}
}

// MediaType returns the media type browsed by the Movies and TV sections
func (s Section) MediaType() (domain.MediaType, bool) {
	switch s {
	case SectionMovies:
		return domain.MediaTypeMovie, true
	case SectionTV:
		return domain.MediaTypeTV, true
	default:
		return "", false
	}
}

// Remote reports whether the section is backed by the catalog
func (s Section) Remote() bool {
	_, isList := s.List()
	return !isList
}

// ViewState is an immutable snapshot of what the browser shows.
// Every With method returns an updated copy and leaves the receiver alone.
type ViewState struct {
	section Section
	genreID int
	page    int
	query   string
	filter  string
	cursor  int
	detail  bool
}

// NewViewState starts on the given section, first page
func NewViewState(section Section) ViewState {
	return ViewState{section: section, page: 1}
}

func (v ViewState) Section() Section { return v.section }
func (v ViewState) GenreID() int     { return v.genreID }
func (v ViewState) Page() int        { return v.page }
func (v ViewState) Query() string    { return v.query }
func (v ViewState) Filter() string   { return v.filter }
func (v ViewState) Cursor() int      { return v.cursor }
func (v ViewState) Detail() bool     { return v.detail }

// WithSection switches section. Paging, cursor, filter and genre reset;
// the search query is kept so returning to Search shows the last results.
func (v ViewState) WithSection(s Section) ViewState {
	if s == v.section {
		return v
	}
	v.section = s
	v.genreID = 0
	v.page = 1
	v.filter = ""
	v.cursor = 0
	v.detail = false
	return v
}

// WithGenre filters the Movies/TV sections; 0 clears the filter
func (v ViewState) WithGenre(id int) ViewState {
	v.genreID = max(0, id)
	v.page = 1
	v.cursor = 0
	return v
}

// WithPage moves to another catalog page
func (v ViewState) WithPage(page int) ViewState {
	v.page = max(1, page)
	v.cursor = 0
	return v
}

// WithQuery replaces the search query and returns to the first page
func (v ViewState) WithQuery(q string) ViewState {
	v.query = q
	v.page = 1
	v.cursor = 0
	return v
}

// WithFilter sets the local filter on list sections
func (v ViewState) WithFilter(f string) ViewState {
	v.filter = f
	v.cursor = 0
	return v
}

// WithCursor moves the selection, clamped to [0, count)
func (v ViewState) WithCursor(cursor, count int) ViewState {
	switch {
	case count <= 0:
		cursor = 0
	case cursor >= count:
		cursor = count - 1
	case cursor < 0:
		cursor = 0
	}
	v.cursor = cursor
	return v
}

// WithDetail shows or hides the detail pane
func (v ViewState) WithDetail(on bool) ViewState {
	v.detail = on
	return v
}

// Request identifies the catalog fetch a state needs. Results carry the
// request they answer; one that no longer matches the state is stale.
type Request struct {
	Section Section
	GenreID int
	Page    int
	Query   string
}

// Request returns the fetch the current state needs. ok is false for
// list sections and for an empty search, which need no fetch.
func (v ViewState) Request() (Request, bool) {
	if !v.section.Remote() {
		return Request{}, false
	}
	req := Request{Section: v.section, Page: v.page}
	switch v.section {
	case SectionMovies, SectionTV:
		req.GenreID = v.genreID
	case SectionSearch:
		req.Query = strings.TrimSpace(v.query)
		if req.Query == "" {
			return Request{}, false
		}
	}
	return req, true
}

// Current reports whether req still answers this state
func (v ViewState) Current(req Request) bool {
	want, ok := v.Request()
	return ok && want == req
}
