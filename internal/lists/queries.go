package lists

import "github.com/mmcdole/marquee/internal/domain"

// Membership holds the three list flags for one title
type Membership struct {
	Watchlist bool
	Favorite  bool
	Watched   bool
}

func (s *Store) IsInWatchlist(id int, mediaType domain.MediaType) bool {
	return s.Contains(domain.Watchlist, id, mediaType)
}

func (s *Store) IsFavorite(id int, mediaType domain.MediaType) bool {
	return s.Contains(domain.Favorites, id, mediaType)
}

func (s *Store) IsWatched(id int, mediaType domain.MediaType) bool {
	return s.Contains(domain.Watched, id, mediaType)
}

// Membership evaluates all three predicates for one key
func (s *Store) Membership(key domain.Key) Membership {
	return Membership{
		Watchlist: s.IsInWatchlist(key.ID, key.MediaType),
		Favorite:  s.IsFavorite(key.ID, key.MediaType),
		Watched:   s.IsWatched(key.ID, key.MediaType),
	}
}

// Toggle protocol: query, then remove if present or add if absent.
// Active only changes when the mutation reports success.

func (s *Store) ToggleWatchlist(t domain.Title) domain.Toggle {
	return s.toggle(domain.Watchlist, t)
}

func (s *Store) ToggleFavorite(t domain.Title) domain.Toggle {
	return s.toggle(domain.Favorites, t)
}

// MarkWatched is one-way: marking an already-watched title reports
// AlreadyPresent and leaves it watched.
func (s *Store) MarkWatched(t domain.Title) domain.Toggle {
	res := s.Add(domain.Watched, t)
	active := true
	if !res.OK() {
		active = s.IsWatched(t.ID, t.MediaType)
	}
	return domain.Toggle{List: domain.Watched, Active: active, Result: res}
}

// UnmarkWatched removes a title from the watched list
func (s *Store) UnmarkWatched(key domain.Key) domain.Toggle {
	res := s.Remove(domain.Watched, key.ID, key.MediaType)
	active := false
	if !res.OK() {
		active = s.IsWatched(key.ID, key.MediaType)
	}
	return domain.Toggle{List: domain.Watched, Active: active, Result: res}
}

func (s *Store) toggle(name domain.ListName, t domain.Title) domain.Toggle {
	present := s.Contains(name, t.ID, t.MediaType)

	var res domain.Result
	if present {
		res = s.Remove(name, t.ID, t.MediaType)
	} else {
		res = s.Add(name, t)
	}

	active := present
	if res.OK() {
		active = !present
	}
	return domain.Toggle{List: name, Active: active, Result: res}
}

var (
	_ domain.ListQueries  = (*Store)(nil)
	_ domain.ListCommands = (*Store)(nil)
)
