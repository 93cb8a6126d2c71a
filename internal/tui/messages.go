package tui

import (
	"github.com/mmcdole/marquee/internal/debounce"
	"github.com/mmcdole/marquee/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries catalog results for the request that asked for them
type PageLoadedMsg struct {
	Request Request
	Page    domain.Page
	Err     error
}

// GenresLoadedMsg signals that a genre list is available
type GenresLoadedMsg struct {
	MediaType domain.MediaType
	Genres    []domain.Genre
}

// DetailsLoadedMsg carries the full record of a title
type DetailsLoadedMsg struct {
	Title *domain.Title
	Err   error
	Key   domain.Key
}

// SearchTickMsg returns a debounce ticket once its window has elapsed
type SearchTickMsg struct {
	Ticket debounce.Ticket
	Query  string
}

// ListToggledMsg reports the outcome of a list mutation
type ListToggledMsg struct {
	Title  domain.Title
	Toggle domain.Toggle
}

// TitleOpenedMsg reports whether the browser could be launched
type TitleOpenedMsg struct {
	Title domain.Title
	Err   error
}

// ClearStatusMsg clears the status line if it still shows the given id
type ClearStatusMsg struct {
	ID int
}
