package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

const genreTTL = time.Hour

// Home is the content of the landing screen
type Home struct {
	Movies domain.Page
	Shows  domain.Page
}

type genreEntry struct {
	genres    []domain.Genre
	fetchedAt time.Time
}

// CatalogService wraps the catalog client with genre caching, concurrent
// home loading and local ranking of search results
type CatalogService struct {
	repo   domain.CatalogRepository
	logger *slog.Logger
	now    func() time.Time

	// Memory-only cache; genre lists rarely change
	cacheMu sync.RWMutex
	genres  map[domain.MediaType]genreEntry
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo domain.CatalogRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		genres: make(map[domain.MediaType]genreEntry),
	}
}

// Home fetches trending movies and shows concurrently and warms the
// genre cache. A failed genre fetch does not fail the home screen.
func (s *CatalogService) Home(ctx context.Context, window domain.TrendingWindow) (Home, error) {
	var home Home

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		page, err := s.repo.Trending(ctx, window, domain.MediaTypeMovie, 1)
		if err != nil {
			return fmt.Errorf("trending movies: %w", err)
		}
		home.Movies = page
		return nil
	})
	p.Go(func(ctx context.Context) error {
		page, err := s.repo.Trending(ctx, window, domain.MediaTypeTV, 1)
		if err != nil {
			return fmt.Errorf("trending shows: %w", err)
		}
		home.Shows = page
		return nil
	})
	for _, mt := range []domain.MediaType{domain.MediaTypeMovie, domain.MediaTypeTV} {
		p.Go(func(ctx context.Context) error {
			if _, err := s.Genres(ctx, mt); err != nil {
				s.logger.Warn("failed to warm genre cache", "mediaType", mt, "error", err)
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return Home{}, err
	}
	s.logger.Debug("home loaded", "movies", len(home.Movies.Titles), "shows", len(home.Shows.Titles))
	return home, nil
}

// Trending returns one page of trending titles
func (s *CatalogService) Trending(ctx context.Context, window domain.TrendingWindow, mediaType domain.MediaType, page int) (domain.Page, error) {
	return s.repo.Trending(ctx, window, mediaType, page)
}

// Browse returns popular titles of one type, optionally filtered by genre
func (s *CatalogService) Browse(ctx context.Context, mediaType domain.MediaType, genreID, page int) (domain.Page, error) {
	return s.repo.Discover(ctx, mediaType, genreID, page)
}

// Details returns the full record of one title
func (s *CatalogService) Details(ctx context.Context, key domain.Key) (*domain.Title, error) {
	return s.repo.Details(ctx, key)
}

// Search queries the catalog and re-ranks the page locally
func (s *CatalogService) Search(ctx context.Context, query string, page int) (domain.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Page{Number: 1}, nil
	}

	s.logger.Debug("searching", "query", query, "page", page)

	result, err := s.repo.Search(ctx, query, page)
	if err != nil {
		return domain.Page{}, err
	}
	result.Titles = RankTitles(result.Titles, query)

	s.logger.Debug("search complete", "query", query, "results", len(result.Titles))
	return result, nil
}

// Genres returns the genres of a media type (cached)
func (s *CatalogService) Genres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error) {
	s.cacheMu.RLock()
	entry, ok := s.genres[mediaType]
	s.cacheMu.RUnlock()
	if ok && s.now().Sub(entry.fetchedAt) < genreTTL {
		return entry.genres, nil
	}

	genres, err := s.repo.Genres(ctx, mediaType)
	if err != nil {
		return nil, err
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })

	s.cacheMu.Lock()
	s.genres[mediaType] = genreEntry{genres: genres, fetchedAt: s.now()}
	s.cacheMu.Unlock()
	return genres, nil
}

// GenreNames resolves genre ids against the cache without fetching
func (s *CatalogService) GenreNames(mediaType domain.MediaType, ids []int) []string {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.genres[mediaType]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, g := range entry.genres {
			if g.ID == id {
				names = append(names, g.Name)
				break
			}
		}
	}
	return names
}

// InvalidateCache clears the genre cache
func (s *CatalogService) InvalidateCache() {
	s.cacheMu.Lock()
	s.genres = make(map[domain.MediaType]genreEntry)
	s.cacheMu.Unlock()
}

// RankTitles orders titles by how well their name matches the query.
// Ties keep catalog order, which is by popularity.
func RankTitles(titles []domain.Title, query string) []domain.Title {
	if len(titles) == 0 {
		return titles
	}
	query = strings.ToLower(strings.TrimSpace(query))

	type rankedTitle struct {
		title domain.Title
		score int
	}
	ranked := make([]rankedTitle, len(titles))
	for i, t := range titles {
		ranked[i] = rankedTitle{title: t, score: matchScore(strings.ToLower(t.DisplayName()), query)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	out := make([]domain.Title, len(ranked))
	for i, r := range ranked {
		out[i] = r.title
	}
	return out
}

// matchScore: lower is better
func matchScore(name, query string) int {
	if name == query {
		return 0
	}
	if strings.HasPrefix(name, query) {
		return 10
	}
	if strings.Contains(name, query) {
		return 50
	}
	if fuzzy.MatchFold(query, name) {
		return 75
	}
	return 100 + fuzzy.LevenshteinDistance(query, name)
}
