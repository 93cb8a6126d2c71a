package tui

import (
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewState(t *testing.T) {
	t.Run("With Methods Leave Receiver Alone", func(t *testing.T) {
		base := NewViewState(SectionMovies).WithGenre(18).WithPage(3)
		moved := base.WithSection(SectionTV)

		assert.Equal(t, SectionMovies, base.Section())
		assert.Equal(t, 18, base.GenreID())
		assert.Equal(t, 3, base.Page())

		assert.Equal(t, SectionTV, moved.Section())
		assert.Zero(t, moved.GenreID())
		assert.Equal(t, 1, moved.Page())
	})

	t.Run("Query Survives Section Switch", func(t *testing.T) {
		v := NewViewState(SectionSearch).WithQuery("fight club").WithPage(2)
		back := v.WithSection(SectionWatchlist).WithSection(SectionSearch)
		assert.Equal(t, "fight club", back.Query())
		assert.Equal(t, 1, back.Page())
	})

	t.Run("Cursor Is Clamped", func(t *testing.T) {
		v := NewViewState(SectionTrending)
		assert.Equal(t, 4, v.WithCursor(10, 5).Cursor())
		assert.Equal(t, 0, v.WithCursor(-1, 5).Cursor())
		assert.Equal(t, 0, v.WithCursor(3, 0).Cursor())
	})

	t.Run("Requests", func(t *testing.T) {
		_, ok := NewViewState(SectionWatchlist).Request()
		assert.False(t, ok, "list sections never hit the catalog")

		_, ok = NewViewState(SectionSearch).WithQuery("   ").Request()
		assert.False(t, ok, "blank search needs no fetch")

		v := NewViewState(SectionTV).WithGenre(18).WithPage(2)
		req, ok := v.Request()
		require.True(t, ok)
		assert.Equal(t, Request{Section: SectionTV, GenreID: 18, Page: 2}, req)
		assert.True(t, v.Current(req))
		assert.False(t, v.WithPage(3).Current(req))
		assert.False(t, v.WithGenre(35).Current(req))
	})

	t.Run("Trending Ignores Genre", func(t *testing.T) {
		req, ok := NewViewState(SectionTrending).WithGenre(18).Request()
		require.True(t, ok)
		assert.Zero(t, req.GenreID)
	})
}

func TestSections(t *testing.T) {
	for _, s := range Sections() {
		parsed, err := ParseSection(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseSection("people")
	assert.Error(t, err)

	list, ok := SectionFavorites.List()
	require.True(t, ok)
	assert.Equal(t, domain.Favorites, list)
	assert.False(t, SectionFavorites.Remote())

	mt, ok := SectionMovies.MediaType()
	require.True(t, ok)
	assert.Equal(t, domain.MediaTypeMovie, mt)
}
