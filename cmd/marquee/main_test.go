package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTMDBServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/550":
			w.Write([]byte(`{"id":550,"title":"Fight Club","release_date":"1999-10-15","poster_path":"/fc.jpg","vote_average":8.4}`))
		case "/trending/all/week":
			w.Write([]byte(`{"page":1,"total_pages":1,"total_results":2,"results":[
				{"id":550,"media_type":"movie","title":"Fight Club","release_date":"1999-10-15"},
				{"id":1396,"media_type":"tv","name":"Breaking Bad","first_air_date":"2008-01-20"}]}`))
		case "/search/multi":
			w.Write([]byte(`{"page":1,"total_pages":1,"total_results":2,"results":[
				{"id":550,"media_type":"movie","title":"Fight Club","release_date":"1999-10-15"},
				{"id":287,"media_type":"person","name":"Brad Pitt"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_code":34,"status_message":"not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRunner(t *testing.T, baseURL string) (*runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.TMDB.APIKey = "test-key"
	cfg.TMDB.BaseURL = baseURL
	cfg.TMDB.RateLimit = 0
	cfg.Storage.Driver = config.StorageMemory

	out := &bytes.Buffer{}
	r := newRunner(strings.NewReader(""), out)
	r.cfg = cfg
	r.logger = log.NullLogger()
	t.Cleanup(r.close)
	return r, out
}

func run(t *testing.T, r *runner, args ...string) error {
	t.Helper()
	return newApp(r).Run(context.Background(), append([]string{"marquee"}, args...))
}

func TestListCommands(t *testing.T) {
	srv := newTMDBServer(t)
	r, out := newTestRunner(t, srv.URL)

	require.NoError(t, run(t, r, "add", "watchlist", "movie", "550"))
	assert.Contains(t, out.String(), "Added Fight Club to Watchlist")
	assert.True(t, r.lists.IsInWatchlist(550, domain.MediaTypeMovie))

	out.Reset()
	require.NoError(t, run(t, r, "add", "watchlist", "movie", "550"))
	assert.Contains(t, out.String(), "Fight Club is already in Watchlist")

	out.Reset()
	require.NoError(t, run(t, r, "list", "watchlist"))
	assert.Contains(t, out.String(), "Watchlist (1)")
	assert.Contains(t, out.String(), "movie:550")
	assert.Contains(t, out.String(), "Fight Club")

	out.Reset()
	require.NoError(t, run(t, r, "add", "watched", "movie", "550"))
	assert.True(t, r.lists.IsWatched(550, domain.MediaTypeMovie))

	out.Reset()
	require.NoError(t, run(t, r, "rm", "watchlist", "movie", "550"))
	assert.Contains(t, out.String(), "Removed Fight Club from Watchlist")
	assert.False(t, r.lists.IsInWatchlist(550, domain.MediaTypeMovie))
	assert.True(t, r.lists.IsWatched(550, domain.MediaTypeMovie), "other lists are untouched")

	out.Reset()
	require.NoError(t, run(t, r, "remove", "watchlist", "movie", "550"))
	assert.Contains(t, out.String(), "is not in Watchlist")
}

func TestAddErrors(t *testing.T) {
	srv := newTMDBServer(t)
	r, _ := newTestRunner(t, srv.URL)

	assert.ErrorIs(t, run(t, r, "add", "shelf", "movie", "550"), domain.ErrUnknownList)
	assert.ErrorIs(t, run(t, r, "add", "watchlist", "person", "550"), domain.ErrUnknownMediaType)
	assert.Error(t, run(t, r, "add", "watchlist", "movie", "abc"))
	assert.Error(t, run(t, r, "add", "watchlist", "movie"))
	assert.ErrorIs(t, run(t, r, "add", "watchlist", "movie", "551"), domain.ErrTitleNotFound)
	assert.Zero(t, r.openLists().Count(domain.Watchlist))
}

func TestSearchCommand(t *testing.T) {
	srv := newTMDBServer(t)
	r, out := newTestRunner(t, srv.URL)

	require.NoError(t, run(t, r, "search", "fight", "club"))
	assert.Contains(t, out.String(), "Fight Club")
	assert.NotContains(t, out.String(), "Brad Pitt")

	assert.Error(t, run(t, r, "search"))
}

func TestTrendingCommand(t *testing.T) {
	srv := newTMDBServer(t)
	r, out := newTestRunner(t, srv.URL)

	require.NoError(t, run(t, r, "trending"))
	assert.Contains(t, out.String(), "Fight Club")
	assert.Contains(t, out.String(), "Breaking Bad")

	out.Reset()
	require.NoError(t, run(t, r, "trending", "--filter", "brkbad"))
	assert.Contains(t, out.String(), "Breaking Bad")
	assert.NotContains(t, out.String(), "Fight Club")

	assert.Error(t, run(t, r, "trending", "--window", "month"))
}

func TestExportImport(t *testing.T) {
	srv := newTMDBServer(t)
	r, _ := newTestRunner(t, srv.URL)
	require.NoError(t, run(t, r, "add", "favorites", "movie", "550"))

	for _, format := range []string{"json", "toml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lists."+format)
			require.NoError(t, run(t, r, "export", "--format", format, "--output", path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "Fight Club")

			other, out := newTestRunner(t, srv.URL)
			require.NoError(t, run(t, other, "import", path))
			assert.Contains(t, out.String(), "Favorites: 1 imported")
			assert.True(t, other.lists.IsFavorite(550, domain.MediaTypeMovie))
		})
	}
}

func TestUnconfiguredCatalog(t *testing.T) {
	r, _ := newTestRunner(t, "http://127.0.0.1:0")
	r.cfg.TMDB.APIKey = ""
	assert.ErrorContains(t, run(t, r, "search", "matrix"), "marquee setup")
}

func TestImportFailureLeavesListsUnchanged(t *testing.T) {
	srv := newTMDBServer(t)
	r, _ := newTestRunner(t, srv.URL)
	require.NoError(t, run(t, r, "add", "favorites", "movie", "550"))

	path := filepath.Join(t.TempDir(), "lists.json")
	require.NoError(t, run(t, r, "export", "--output", path))

	other, out := newTestRunner(t, srv.URL)
	other.cfg.Storage.QuotaBytes = 16
	err := run(t, other, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no lists were changed")
	assert.NotContains(t, out.String(), "imported")
	assert.False(t, other.lists.IsFavorite(550, domain.MediaTypeMovie))
}
