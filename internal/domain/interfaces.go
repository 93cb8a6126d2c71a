package domain

import "context"

// CatalogRepository: network operations against the remote catalog
// (implemented by catalog clients). Never called by the list store.
type CatalogRepository interface {
	Trending(ctx context.Context, window TrendingWindow, mediaType MediaType, page int) (Page, error)
	Search(ctx context.Context, query string, page int) (Page, error)
	Discover(ctx context.Context, mediaType MediaType, genreID int, page int) (Page, error)
	Details(ctx context.Context, key Key) (*Title, error)
	Genres(ctx context.Context, mediaType MediaType) ([]Genre, error)
}

// ListQueries: synchronous membership reads.
// Safe to call from View(); each call re-reads the medium.
type ListQueries interface {
	IsInWatchlist(id int, mediaType MediaType) bool
	IsFavorite(id int, mediaType MediaType) bool
	IsWatched(id int, mediaType MediaType) bool
	Records(list ListName) []Record
	Count(list ListName) int
}

// ListCommands: synchronous mutations. Callers must not change displayed
// state unless the returned Result is OK.
type ListCommands interface {
	ToggleWatchlist(t Title) Toggle
	ToggleFavorite(t Title) Toggle
	MarkWatched(t Title) Toggle
	UnmarkWatched(key Key) Toggle
}

// Toggle is the outcome of a toggle: the membership after the call and
// the mutation result. Active only differs from the prior state when
// Result is OK.
type Toggle struct {
	List   ListName
	Active bool
	Result Result
}
