package domain

import (
	"fmt"
	"strings"
	"time"
)

// ListName identifies one of the three personal lists
type ListName string

const (
	Watchlist ListName = "watchlist"
	Favorites ListName = "favorites"
	Watched   ListName = "watched"
)

// AllLists returns the list names in display order
func AllLists() []ListName {
	return []ListName{Watchlist, Favorites, Watched}
}

// ParseListName validates a list name
func ParseListName(s string) (ListName, error) {
	switch ListName(strings.ToLower(strings.TrimSpace(s))) {
	case Watchlist:
		return Watchlist, nil
	case Favorites, "favourites", "favorite":
		return Favorites, nil
	case Watched:
		return Watched, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownList, s)
	}
}

// Label returns a human-readable name for the list
func (n ListName) Label() string {
	switch n {
	case Watchlist:
		return "Watchlist"
	case Favorites:
		return "Favorites"
	case Watched:
		return "Watched"
	default:
		return string(n)
	}
}

// Record is one item's membership in a list. The display fields are a
// snapshot taken when the record was added and are never refreshed.
type Record struct {
	Key
	Title       string
	PosterPath  *string
	VoteAverage *float64
	AddedAt     Timestamp // added_date, or watched_date on the watched list
}

// timestampLayout matches the ISO-8601 form written by earlier versions
// (millisecond precision, UTC, trailing Z)
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a time persisted as an ISO-8601 UTC string. A timestamp
// read from storage is written back exactly as it was read.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp truncates t to millisecond precision in UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// String formats the timestamp in its persisted form
func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	return t.UTC().Format(timestampLayout)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts any RFC 3339 timestamp
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("missing timestamp")
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	t.raw = s
	return nil
}

// MarshalText implements encoding.TextMarshaler (used by TOML export)
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Timestamp) UnmarshalText(data []byte) error {
	return t.UnmarshalJSON(data)
}
