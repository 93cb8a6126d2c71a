package lists

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	t.Run("Watchlist On And Off", func(t *testing.T) {
		s := newTestStore(t, nil)

		on := s.ToggleWatchlist(fightClub())
		require.True(t, on.Result.OK())
		assert.True(t, on.Active)
		assert.True(t, s.IsInWatchlist(550, domain.MediaTypeMovie))

		off := s.ToggleWatchlist(fightClub())
		require.True(t, off.Result.OK())
		assert.False(t, off.Active)
		assert.False(t, s.IsInWatchlist(550, domain.MediaTypeMovie))
	})

	t.Run("Failed Write Keeps Prior State", func(t *testing.T) {
		m := &failingMedium{MemoryMedium: store.NewMemoryMedium()}
		s := newTestStore(t, m)
		require.True(t, s.ToggleFavorite(fightClub()).Active)

		m.failWrites = true
		res := s.ToggleFavorite(fightClub())
		assert.False(t, res.Result.OK())
		assert.True(t, res.Active, "favorite must stay active when removal fails")
		assert.True(t, s.IsFavorite(550, domain.MediaTypeMovie))
	})

	t.Run("Mark Watched Is One Way", func(t *testing.T) {
		s := newTestStore(t, nil)

		first := s.MarkWatched(fightClub())
		require.True(t, first.Result.OK())
		assert.True(t, first.Active)

		again := s.MarkWatched(fightClub())
		assert.Equal(t, domain.ReasonAlreadyPresent, again.Result.Reason)
		assert.True(t, again.Active)
		assert.Len(t, s.Load(domain.Watched), 1)
	})

	t.Run("Unmark Watched", func(t *testing.T) {
		s := newTestStore(t, nil)
		s.MarkWatched(fightClub())

		res := s.UnmarkWatched(fightClub().Key)
		require.True(t, res.Result.OK())
		assert.False(t, res.Active)
		assert.False(t, s.IsWatched(550, domain.MediaTypeMovie))
	})
}

func TestExportImport(t *testing.T) {
	seed := func(t *testing.T) *Store {
		s := newTestStore(t, nil)
		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())
		require.True(t, s.Add(domain.Favorites, domain.Title{Key: domain.NewKey(1396, domain.MediaTypeTV), Name: "Breaking Bad"}).OK())
		require.True(t, s.MarkWatched(fightClub()).Result.OK())
		return s
	}

	for _, format := range []Format{FormatJSON, FormatTOML} {
		t.Run("Round Trip "+string(format), func(t *testing.T) {
			src := seed(t)

			var buf bytes.Buffer
			require.NoError(t, EncodeSnapshot(&buf, src.Export(), format))

			snap, err := DecodeSnapshot(&buf, format)
			require.NoError(t, err)

			dst := newTestStore(t, nil)
			stats, res := dst.Import(snap, ImportReplace)
			require.True(t, res.OK())
			assert.Equal(t, 1, stats[domain.Watchlist])

			for _, name := range domain.AllLists() {
				assert.Equal(t, src.Load(name), dst.Load(name), name)
			}
		})
	}

	t.Run("Merge Keeps Existing Records", func(t *testing.T) {
		dst := newTestStore(t, nil)
		original := fightClub()
		original.Name = "Fight Club (local)"
		require.True(t, dst.Add(domain.Watchlist, original).OK())

		stats, res := dst.Import(seed(t).Export(), ImportMerge)
		require.True(t, res.OK())
		assert.Equal(t, 0, stats[domain.Watchlist])

		records := dst.Load(domain.Watchlist)
		require.Len(t, records, 1)
		assert.Equal(t, "Fight Club (local)", records[0].Title)
		assert.True(t, dst.IsFavorite(1396, domain.MediaTypeTV))
	})

	t.Run("Failed Write Restores Lists", func(t *testing.T) {
		m := &failingMedium{MemoryMedium: store.NewMemoryMedium()}
		dst := newTestStore(t, m)
		require.True(t, dst.Add(domain.Watchlist, domain.Title{Key: domain.NewKey(603, domain.MediaTypeMovie), Name: "The Matrix"}).OK())
		before, _, _ := m.Get("watchlist")

		m.failKey = "favorites"
		stats, res := dst.Import(seed(t).Export(), ImportReplace)
		assert.Equal(t, domain.ReasonWriteRejected, res.Reason)
		assert.Empty(t, stats)

		after, _, _ := m.Get("watchlist")
		assert.Equal(t, string(before), string(after))
		_, found, _ := m.Get("watched")
		assert.False(t, found)
	})

	t.Run("Rejects Bad Entries", func(t *testing.T) {
		_, err := DecodeSnapshot(strings.NewReader(`{"version":1,"watchlist":[{"id":0,"media_type":"movie"}]}`), FormatJSON)
		assert.Error(t, err)

		_, err = DecodeSnapshot(strings.NewReader(`{"version":1,"watched":[{"id":550,"media_type":"movie","title":"Fight Club"}]}`), FormatJSON)
		assert.Error(t, err, "entries need a date")

		_, err = DecodeSnapshot(strings.NewReader(`{"version":9}`), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("Parse Format", func(t *testing.T) {
		f, err := ParseFormat(".toml")
		require.NoError(t, err)
		assert.Equal(t, FormatTOML, f)

		_, err = ParseFormat("yaml")
		assert.Error(t, err)
	})
}
