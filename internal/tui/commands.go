package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/debounce"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/launcher"
	"github.com/mmcdole/marquee/internal/service"
)

const fetchTimeout = 30 * time.Second

// Command factories for async operations

// LoadPageCmd fetches the catalog page a request describes
func LoadPageCmd(svc *service.CatalogService, req Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := fetchPage(ctx, svc, req)
		return PageLoadedMsg{Request: req, Page: page, Err: err}
	}
}

func fetchPage(ctx context.Context, svc *service.CatalogService, req Request) (domain.Page, error) {
	switch req.Section {
	case SectionTrending:
		if req.Page > 1 {
			return svc.Trending(ctx, domain.TrendingWeek, "", req.Page)
		}
		home, err := svc.Home(ctx, domain.TrendingWeek)
		if err != nil {
			return domain.Page{}, err
		}
		return mergeHome(home), nil
	case SectionMovies, SectionTV:
		mt, _ := req.Section.MediaType()
		return svc.Browse(ctx, mt, req.GenreID, req.Page)
	case SectionSearch:
		return svc.Search(ctx, req.Query, req.Page)
	default:
		return domain.Page{}, nil
	}
}

// mergeHome interleaves trending movies and shows into one page
func mergeHome(home service.Home) domain.Page {
	movies, shows := home.Movies.Titles, home.Shows.Titles
	titles := make([]domain.Title, 0, len(movies)+len(shows))
	for i := 0; i < max(len(movies), len(shows)); i++ {
		if i < len(movies) {
			titles = append(titles, movies[i])
		}
		if i < len(shows) {
			titles = append(titles, shows[i])
		}
	}
	return domain.Page{
		Number:       1,
		TotalPages:   max(home.Movies.TotalPages, home.Shows.TotalPages),
		TotalResults: home.Movies.TotalResults + home.Shows.TotalResults,
		Titles:       titles,
	}
}

// LoadGenresCmd loads the genre list of a media type
func LoadGenresCmd(svc *service.CatalogService, mt domain.MediaType) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		genres, err := svc.Genres(ctx, mt)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading genres"}
		}
		return GenresLoadedMsg{MediaType: mt, Genres: genres}
	}
}

// LoadDetailsCmd fetches the full record of a title
func LoadDetailsCmd(svc *service.CatalogService, key domain.Key) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		title, err := svc.Details(ctx, key)
		return DetailsLoadedMsg{Title: title, Err: err, Key: key}
	}
}

// SearchTickCmd hands the ticket back after the debounce window
func SearchTickCmd(ticket debounce.Ticket, query string, window time.Duration) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return SearchTickMsg{Ticket: ticket, Query: query}
	})
}

// ToggleListCmd runs a list mutation off the update loop
func ToggleListCmd(lists domain.ListCommands, list domain.ListName, title domain.Title) tea.Cmd {
	return func() tea.Msg {
		var t domain.Toggle
		switch list {
		case domain.Watchlist:
			t = lists.ToggleWatchlist(title)
		case domain.Favorites:
			t = lists.ToggleFavorite(title)
		case domain.Watched:
			t = lists.MarkWatched(title)
		default:
			t = domain.Toggle{List: list, Result: domain.Failed(domain.ReasonWriteRejected, domain.ErrUnknownList)}
		}
		return ListToggledMsg{Title: title, Toggle: t}
	}
}

// OpenTitleCmd opens the TMDB page of a title
func OpenTitleCmd(opener Opener, title domain.Title) tea.Cmd {
	return func() tea.Msg {
		return TitleOpenedMsg{Title: title, Err: opener.Open(launcher.TitleURL(title.Key))}
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
