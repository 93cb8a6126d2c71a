package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaType distinguishes the two catalog namespaces. Movies and TV shows
// share numeric ID spaces, so an ID alone never identifies a title.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType validates a media type string ("movie" or "tv")
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaTypeMovie:
		return MediaTypeMovie, nil
	case MediaTypeTV:
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, s)
	}
}

// Valid reports whether m is one of the known media types
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// Label returns a human-readable name for the media type
func (m MediaType) Label() string {
	switch m {
	case MediaTypeMovie:
		return "Movie"
	case MediaTypeTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// Key is the identity of a catalog entry. Two keys are equal iff both
// fields match; no other field participates in equality.
type Key struct {
	ID        int
	MediaType MediaType
}

// NewKey builds a Key
func NewKey(id int, mediaType MediaType) Key {
	return Key{ID: id, MediaType: mediaType}
}

// String renders the key as "movie:550"
func (k Key) String() string {
	return string(k.MediaType) + ":" + strconv.Itoa(k.ID)
}

// ParseKey parses the "type:id" form produced by Key.String
func ParseKey(s string) (Key, error) {
	typ, rawID, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("invalid key %q: expected type:id", s)
	}
	mt, err := ParseMediaType(typ)
	if err != nil {
		return Key{}, err
	}
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return Key{}, fmt.Errorf("invalid key %q: bad id", s)
	}
	return Key{ID: id, MediaType: mt}, nil
}

// Genre is a catalog genre
type Genre struct {
	ID   int
	Name string
}

// Title is the normalized projection of a catalog movie or TV show.
// Catalog adapters resolve the movie/TV field differences once
// (title vs name, release_date vs first_air_date) when building it.
type Title struct {
	Key

	Name         string // Display title
	OriginalName string // Title in the original language
	Overview     string // Plot synopsis
	ReleaseDate  string // YYYY-MM-DD, empty if unknown
	PosterPath   string // Catalog-relative poster path, empty if none
	BackdropPath string // Catalog-relative backdrop path, empty if none
	GenreIDs     []int
	Genres       []Genre // Populated by detail lookups only

	// VoteAverage is the 0-10 community rating, nil when the catalog
	// did not report one
	VoteAverage *float64
	VoteCount   int
	Popularity  float64

	// Detail-only fields
	Runtime      int // Minutes (movies) or typical episode length (tv)
	SeasonCount  int
	EpisodeCount int
	Status       string
	Tagline      string
}

// DisplayName returns the primary title, falling back to the original one
func (t Title) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.OriginalName
}

// Year returns the release/first-air year, 0 if unknown
func (t Title) Year() int {
	if len(t.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(t.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// Rating returns the vote average or 0 when unrated
func (t Title) Rating() float64 {
	if t.VoteAverage == nil {
		return 0
	}
	return *t.VoteAverage
}

// GetDescription returns secondary info for display
func (t Title) GetDescription() string {
	parts := make([]string, 0, 3)
	parts = append(parts, t.MediaType.Label())
	if y := t.Year(); y > 0 {
		parts = append(parts, strconv.Itoa(y))
	}
	if t.VoteAverage != nil {
		parts = append(parts, fmt.Sprintf("★ %.1f", *t.VoteAverage))
	}
	return strings.Join(parts, " · ")
}

// Page is one page of catalog results
type Page struct {
	Number       int
	TotalPages   int
	TotalResults int
	Titles       []Title
}

// HasNext reports whether another page follows this one
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// TrendingWindow selects the trending time window
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)
