package lists

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 45, 123456789, time.UTC)

func newTestStore(t *testing.T, m store.Medium) *Store {
	t.Helper()
	if m == nil {
		m = store.NewMemoryMedium()
	}
	return New(m, log.NullLogger(), WithClock(func() time.Time { return fixedNow }))
}

func ptr[T any](v T) *T { return &v }

func fightClub() domain.Title {
	return domain.Title{
		Key:         domain.NewKey(550, domain.MediaTypeMovie),
		Name:        "Fight Club",
		PosterPath:  "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
		VoteAverage: ptr(8.4),
	}
}

// failingMedium passes the probe but rejects writes to list keys, or
// only to failKey when set
type failingMedium struct {
	*store.MemoryMedium
	failWrites bool
	failKey    string
}

func (f *failingMedium) Set(key string, value []byte) error {
	if f.failWrites && key != "" && key[0] != '_' {
		return errors.New("disk full")
	}
	if f.failKey != "" && key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryMedium.Set(key, value)
}

// deadMedium fails every operation
type deadMedium struct{}

func (deadMedium) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disabled") }
func (deadMedium) Set(string, []byte) error         { return errors.New("disabled") }
func (deadMedium) Delete(string) error              { return errors.New("disabled") }
func (deadMedium) Keys() ([]string, error)          { return nil, errors.New("disabled") }
func (deadMedium) Close() error                     { return nil }

func TestStore(t *testing.T) {
	t.Run("Add Contains Remove", func(t *testing.T) {
		s := newTestStore(t, nil)

		res := s.Add(domain.Watchlist, fightClub())
		require.True(t, res.OK())
		assert.True(t, s.Contains(domain.Watchlist, 550, domain.MediaTypeMovie))

		res = s.Remove(domain.Watchlist, 550, domain.MediaTypeMovie)
		require.True(t, res.OK())
		assert.False(t, s.Contains(domain.Watchlist, 550, domain.MediaTypeMovie))
		assert.Empty(t, s.Load(domain.Watchlist))
	})

	t.Run("Duplicate Add Is A No-op", func(t *testing.T) {
		s := newTestStore(t, nil)

		require.True(t, s.Add(domain.Favorites, fightClub()).OK())
		before := s.Load(domain.Favorites)

		res := s.Add(domain.Favorites, fightClub())
		assert.False(t, res.OK())
		assert.Equal(t, domain.ReasonAlreadyPresent, res.Reason)
		assert.Equal(t, before, s.Load(domain.Favorites))
	})

	t.Run("Uniqueness Under Repeated Adds", func(t *testing.T) {
		s := newTestStore(t, nil)
		keys := []int{1, 2, 1, 3, 2, 1, 3, 3}
		for _, id := range keys {
			s.Add(domain.Watchlist, domain.Title{Key: domain.NewKey(id, domain.MediaTypeTV), Name: "Show"})
		}

		records := s.Load(domain.Watchlist)
		require.Len(t, records, 3)
		seen := map[domain.Key]bool{}
		for _, r := range records {
			assert.False(t, seen[r.Key], "duplicate key %s", r.Key)
			seen[r.Key] = true
		}
		// insertion order is preserved
		assert.Equal(t, []int{1, 2, 3}, []int{records[0].ID, records[1].ID, records[2].ID})
	})

	t.Run("Identity Uses Both Fields", func(t *testing.T) {
		s := newTestStore(t, nil)
		movie := domain.Title{Key: domain.NewKey(1399, domain.MediaTypeMovie), Name: "A Movie"}
		show := domain.Title{Key: domain.NewKey(1399, domain.MediaTypeTV), Name: "Game of Thrones"}

		require.True(t, s.Add(domain.Watchlist, movie).OK())
		require.True(t, s.Add(domain.Watchlist, show).OK())
		assert.Len(t, s.Load(domain.Watchlist), 2)

		require.True(t, s.Remove(domain.Watchlist, 1399, domain.MediaTypeTV).OK())
		assert.True(t, s.Contains(domain.Watchlist, 1399, domain.MediaTypeMovie))
		assert.False(t, s.Contains(domain.Watchlist, 1399, domain.MediaTypeTV))
	})

	t.Run("Remove Absent Is Safe", func(t *testing.T) {
		s := newTestStore(t, nil)
		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())
		before := s.Load(domain.Watchlist)

		res := s.Remove(domain.Watchlist, 13, domain.MediaTypeMovie)
		assert.Equal(t, domain.ReasonNotPresent, res.Reason)
		assert.Equal(t, before, s.Load(domain.Watchlist))
	})

	t.Run("Cross List Independence", func(t *testing.T) {
		s := newTestStore(t, nil)
		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())

		assert.True(t, s.IsInWatchlist(550, domain.MediaTypeMovie))
		assert.False(t, s.IsFavorite(550, domain.MediaTypeMovie))
		assert.False(t, s.IsWatched(550, domain.MediaTypeMovie))
	})

	t.Run("Queries Before Any Write", func(t *testing.T) {
		s := newTestStore(t, nil)
		assert.Equal(t, Membership{}, s.Membership(domain.NewKey(550, domain.MediaTypeMovie)))
		assert.NotNil(t, s.Load(domain.Watched))
	})

	t.Run("Snapshot Captured At Insertion", func(t *testing.T) {
		m := store.NewMemoryMedium()
		s := newTestStore(t, m)
		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())

		fresher := fightClub()
		fresher.Name = "Fight Club (Remastered)"
		fresher.VoteAverage = ptr(9.9)
		s.Add(domain.Watchlist, fresher)

		// reopen over the same medium
		records := newTestStore(t, m).Load(domain.Watchlist)
		require.Len(t, records, 1)
		assert.Equal(t, "Fight Club", records[0].Title)
		assert.Equal(t, 8.4, *records[0].VoteAverage)
		assert.Equal(t, "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg", *records[0].PosterPath)
		assert.Equal(t, domain.NewTimestamp(fixedNow).String(), records[0].AddedAt.String())
	})

	t.Run("Title Falls Back To Original Name", func(t *testing.T) {
		s := newTestStore(t, nil)
		require.True(t, s.Add(domain.Watchlist, domain.Title{
			Key:          domain.NewKey(7, domain.MediaTypeTV),
			OriginalName: "Dark",
		}).OK())
		assert.Equal(t, "Dark", s.Load(domain.Watchlist)[0].Title)
	})
}

func TestStoreFailures(t *testing.T) {
	t.Run("Malformed Content Reads Empty", func(t *testing.T) {
		m := store.NewMemoryMedium()
		require.NoError(t, m.Set("watchlist", []byte("{not json")))
		require.NoError(t, m.Set("favorites", []byte(`[{"id":1,"media_type":"person","title":"x"}]`)))
		s := newTestStore(t, m)

		assert.Empty(t, s.Load(domain.Watchlist))
		assert.Empty(t, s.Load(domain.Favorites))
		assert.False(t, s.Contains(domain.Favorites, 1, domain.MediaTypeMovie))

		// content is left as-is on read
		raw, _, _ := m.Get("watchlist")
		assert.Equal(t, "{not json", string(raw))
	})

	t.Run("Missing Dates Are Malformed", func(t *testing.T) {
		m := store.NewMemoryMedium()
		require.NoError(t, m.Set("watchlist", []byte(`[{"id":603,"media_type":"movie","title":"The Matrix","poster_path":null,"vote_average":null}]`)))
		require.NoError(t, m.Set("watched", []byte(`[{"id":603,"media_type":"movie","title":"The Matrix"}]`)))
		s := newTestStore(t, m)

		assert.Empty(t, s.Load(domain.Watchlist))
		assert.Empty(t, s.Load(domain.Watched))

		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())
		raw, _, _ := m.Get("watchlist")
		assert.NotContains(t, string(raw), "0001-01-01")
		assert.NotContains(t, string(raw), "The Matrix")
	})

	t.Run("Unavailable Medium", func(t *testing.T) {
		s := newTestStore(t, deadMedium{})
		assert.False(t, s.Available())
		assert.Empty(t, s.Load(domain.Watchlist))
		assert.False(t, s.IsInWatchlist(550, domain.MediaTypeMovie))

		res := s.Add(domain.Watchlist, fightClub())
		assert.Equal(t, domain.ReasonUnavailable, res.Reason)
		assert.Equal(t, domain.ReasonUnavailable, s.Save(domain.Watchlist, nil).Reason)
	})

	t.Run("Write Rejected", func(t *testing.T) {
		m := &failingMedium{MemoryMedium: store.NewMemoryMedium()}
		s := newTestStore(t, m)
		m.failWrites = true

		res := s.Add(domain.Watchlist, fightClub())
		assert.Equal(t, domain.ReasonWriteRejected, res.Reason)
		assert.Error(t, res.Err)
		assert.False(t, s.IsInWatchlist(550, domain.MediaTypeMovie))
	})

	t.Run("Quota Exceeded", func(t *testing.T) {
		m := store.WithQuota(store.NewMemoryMedium(), 200, log.NullLogger())
		s := newTestStore(t, m)

		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())
		res := s.Add(domain.Watchlist, domain.Title{Key: domain.NewKey(680, domain.MediaTypeMovie), Name: "Pulp Fiction", PosterPath: "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg"})
		assert.Equal(t, domain.ReasonWriteRejected, res.Reason)
		assert.ErrorIs(t, res.Err, store.ErrQuotaExceeded)
		assert.Len(t, s.Load(domain.Watchlist), 1)

		reopened := newTestStore(t, m)
		assert.True(t, reopened.Available())
		assert.True(t, reopened.IsInWatchlist(550, domain.MediaTypeMovie))
		assert.Len(t, reopened.Load(domain.Watchlist), 1)
	})

	t.Run("Unknown List", func(t *testing.T) {
		s := newTestStore(t, nil)
		res := s.Add(domain.ListName("queue"), fightClub())
		assert.ErrorIs(t, res.Err, domain.ErrUnknownList)
		assert.Empty(t, s.Load(domain.ListName("queue")))
	})
}

func TestPersistedLayout(t *testing.T) {
	t.Run("Bookmark Lists", func(t *testing.T) {
		m := store.NewMemoryMedium()
		s := newTestStore(t, m)
		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())
		require.True(t, s.Add(domain.Watchlist, domain.Title{Key: domain.NewKey(1, domain.MediaTypeTV), Name: "Unrated"}).OK())

		raw, found, err := m.Get("watchlist")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `[
			{"id":550,"media_type":"movie","title":"Fight Club","poster_path":"/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg","vote_average":8.4,"added_date":"2024-05-01T12:30:45.123Z"},
			{"id":1,"media_type":"tv","title":"Unrated","poster_path":null,"vote_average":null,"added_date":"2024-05-01T12:30:45.123Z"}
		]`, string(raw))
	})

	t.Run("Watched List", func(t *testing.T) {
		m := store.NewMemoryMedium()
		s := newTestStore(t, m)
		require.True(t, s.MarkWatched(fightClub()).Result.OK())

		raw, _, _ := m.Get("watched")
		assert.JSONEq(t, `[{"id":550,"media_type":"movie","title":"Fight Club","watched_date":"2024-05-01T12:30:45.123Z"}]`, string(raw))
	})

	t.Run("Existing Data Round Trips Exactly", func(t *testing.T) {
		existing := `[{"id":603,"media_type":"movie","title":"The Matrix","poster_path":"/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg","vote_average":8.2,"added_date":"2023-11-02T08:15:00.000Z"}]`
		m := store.NewMemoryMedium()
		require.NoError(t, m.Set("favorites", []byte(existing)))
		s := newTestStore(t, m)

		records := s.Load(domain.Favorites)
		require.Len(t, records, 1)
		require.True(t, s.Save(domain.Favorites, records).OK())

		raw, _, _ := m.Get("favorites")
		assert.JSONEq(t, existing, string(raw))

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "2023-11-02T08:15:00.000Z", decoded[0]["added_date"])
	})

	t.Run("Stored Timestamps Keep Their Form", func(t *testing.T) {
		existing := `[{"id":603,"media_type":"movie","title":"The Matrix","poster_path":null,"vote_average":null,"added_date":"2023-11-02T08:15:00Z"},` +
			`{"id":604,"media_type":"movie","title":"The Matrix Reloaded","poster_path":null,"vote_average":null,"added_date":"2023-11-02T10:15:00+02:00"}]`
		m := store.NewMemoryMedium()
		require.NoError(t, m.Set("watchlist", []byte(existing)))
		s := newTestStore(t, m)

		require.True(t, s.Add(domain.Watchlist, fightClub()).OK())

		raw, _, _ := m.Get("watchlist")
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		require.Len(t, decoded, 3)
		assert.Equal(t, "2023-11-02T08:15:00Z", decoded[0]["added_date"])
		assert.Equal(t, "2023-11-02T10:15:00+02:00", decoded[1]["added_date"])
		assert.Equal(t, "2024-05-01T12:30:45.123Z", decoded[2]["added_date"])

		records := s.Load(domain.Watchlist)
		assert.True(t, records[0].AddedAt.Equal(records[1].AddedAt.Time), "offsets still compare as instants")
	})
}
