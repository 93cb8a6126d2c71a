package tmdb

import "github.com/mmcdole/marquee/internal/domain"

// MapResults converts a page of results, dropping entries that are not
// movies or TV shows (multi search also returns people). fallback is the
// media type of single-type endpoints, which omit media_type.
func MapResults(resp PagedResponse, fallback domain.MediaType) domain.Page {
	titles := make([]domain.Title, 0, len(resp.Results))
	for _, r := range resp.Results {
		if t, ok := MapResult(r, fallback); ok {
			titles = append(titles, t)
		}
	}
	return domain.Page{
		Number:       resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Titles:       titles,
	}
}

// MapResult normalizes a movie or TV result into a Title
func MapResult(r ResultDTO, fallback domain.MediaType) (domain.Title, bool) {
	mediaType := fallback
	if r.MediaType != "" {
		mediaType = domain.MediaType(r.MediaType)
	}
	if r.ID <= 0 {
		return domain.Title{}, false
	}

	t := domain.Title{
		Key:          domain.NewKey(r.ID, mediaType),
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		GenreIDs:     r.GenreIDs,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		Popularity:   r.Popularity,
	}

	switch mediaType {
	case domain.MediaTypeMovie:
		t.Name = r.Title
		t.OriginalName = r.OriginalTitle
		t.ReleaseDate = r.ReleaseDate
	case domain.MediaTypeTV:
		t.Name = r.Name
		t.OriginalName = r.OriginalName
		t.ReleaseDate = r.FirstAirDate
	default:
		return domain.Title{}, false
	}

	// Some records only carry one of the name fields
	if t.Name == "" {
		t.Name = firstNonEmpty(r.Title, r.Name, t.OriginalName)
	}
	return t, true
}

// MapMovieDetails converts a movie detail response
func MapMovieDetails(d MovieDetailsDTO) *domain.Title {
	return &domain.Title{
		Key:          domain.NewKey(d.ID, domain.MediaTypeMovie),
		Name:         firstNonEmpty(d.Title, d.OriginalTitle),
		OriginalName: d.OriginalTitle,
		Overview:     d.Overview,
		Tagline:      d.Tagline,
		Status:       d.Status,
		ReleaseDate:  d.ReleaseDate,
		Runtime:      d.Runtime,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		Genres:       MapGenres(d.Genres),
		GenreIDs:     genreIDs(d.Genres),
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
		Popularity:   d.Popularity,
	}
}

// MapTVDetails converts a TV detail response
func MapTVDetails(d TVDetailsDTO) *domain.Title {
	runtime := 0
	if len(d.EpisodeRunTime) > 0 {
		runtime = d.EpisodeRunTime[0]
	}
	return &domain.Title{
		Key:          domain.NewKey(d.ID, domain.MediaTypeTV),
		Name:         firstNonEmpty(d.Name, d.OriginalName),
		OriginalName: d.OriginalName,
		Overview:     d.Overview,
		Tagline:      d.Tagline,
		Status:       d.Status,
		ReleaseDate:  d.FirstAirDate,
		Runtime:      runtime,
		SeasonCount:  d.NumberOfSeasons,
		EpisodeCount: d.NumberOfEpisodes,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		Genres:       MapGenres(d.Genres),
		GenreIDs:     genreIDs(d.Genres),
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
		Popularity:   d.Popularity,
	}
}

// MapGenres converts genre DTOs
func MapGenres(in []GenreDTO) []domain.Genre {
	out := make([]domain.Genre, len(in))
	for i, g := range in {
		out[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return out
}

func genreIDs(in []GenreDTO) []int {
	ids := make([]int, len(in))
	for i, g := range in {
		ids[i] = g.ID
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
