package lists

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/marquee/internal/domain"
)

// bookmarkJSON is the persisted layout of watchlist and favorites entries.
// poster_path and vote_average are written as null when absent.
type bookmarkJSON struct {
	ID          int              `json:"id" toml:"id"`
	MediaType   domain.MediaType `json:"media_type" toml:"media_type"`
	Title       string           `json:"title" toml:"title"`
	PosterPath  *string          `json:"poster_path" toml:"poster_path,omitempty"`
	VoteAverage *float64         `json:"vote_average" toml:"vote_average,omitempty"`
	AddedDate   domain.Timestamp `json:"added_date" toml:"added_date"`
}

// watchedJSON is the persisted layout of watched entries
type watchedJSON struct {
	ID          int              `json:"id" toml:"id"`
	MediaType   domain.MediaType `json:"media_type" toml:"media_type"`
	Title       string           `json:"title" toml:"title"`
	WatchedDate domain.Timestamp `json:"watched_date" toml:"watched_date"`
}

func toBookmarks(records []domain.Record) []bookmarkJSON {
	out := make([]bookmarkJSON, len(records))
	for i, r := range records {
		out[i] = bookmarkJSON{
			ID:          r.ID,
			MediaType:   r.MediaType,
			Title:       r.Title,
			PosterPath:  r.PosterPath,
			VoteAverage: r.VoteAverage,
			AddedDate:   r.AddedAt,
		}
	}
	return out
}

func fromBookmarks(in []bookmarkJSON) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(in))
	for i, b := range in {
		if err := validateKey(b.ID, b.MediaType); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if b.AddedDate.IsZero() {
			return nil, fmt.Errorf("entry %d: missing added_date", i)
		}
		out = append(out, domain.Record{
			Key:         domain.NewKey(b.ID, b.MediaType),
			Title:       b.Title,
			PosterPath:  b.PosterPath,
			VoteAverage: b.VoteAverage,
			AddedAt:     b.AddedDate,
		})
	}
	return out, nil
}

func toWatched(records []domain.Record) []watchedJSON {
	out := make([]watchedJSON, len(records))
	for i, r := range records {
		out[i] = watchedJSON{
			ID:          r.ID,
			MediaType:   r.MediaType,
			Title:       r.Title,
			WatchedDate: r.AddedAt,
		}
	}
	return out
}

func fromWatched(in []watchedJSON) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(in))
	for i, w := range in {
		if err := validateKey(w.ID, w.MediaType); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if w.WatchedDate.IsZero() {
			return nil, fmt.Errorf("entry %d: missing watched_date", i)
		}
		out = append(out, domain.Record{
			Key:     domain.NewKey(w.ID, w.MediaType),
			Title:   w.Title,
			AddedAt: w.WatchedDate,
		})
	}
	return out, nil
}

func validateKey(id int, mediaType domain.MediaType) error {
	if id <= 0 {
		return fmt.Errorf("missing or invalid id %d", id)
	}
	if !mediaType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMediaType, mediaType)
	}
	return nil
}

// encode serializes a list in its persisted layout
func encode(name domain.ListName, records []domain.Record) ([]byte, error) {
	if name == domain.Watched {
		return json.Marshal(toWatched(records))
	}
	return json.Marshal(toBookmarks(records))
}

// decode parses a persisted list. Any entry that does not conform makes
// the whole list malformed.
func decode(name domain.ListName, data []byte) ([]domain.Record, error) {
	if name == domain.Watched {
		var raw []watchedJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return fromWatched(raw)
	}
	var raw []bookmarkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromBookmarks(raw)
}
