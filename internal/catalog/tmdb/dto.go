package tmdb

// PagedResponse is the envelope of every list endpoint (trending, search, discover)
type PagedResponse struct {
	Page         int         `json:"page"`
	Results      []ResultDTO `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// ResultDTO is one entry of a paged response. Movies populate the
// title/release_date fields, TV shows the name/first_air_date fields.
// media_type is only present on multi-type endpoints.
type ResultDTO struct {
	ID           int      `json:"id"`
	MediaType    string   `json:"media_type,omitempty"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	GenreIDs     []int    `json:"genre_ids"`
	VoteAverage  *float64 `json:"vote_average"`
	VoteCount    int      `json:"vote_count"`
	Popularity   float64  `json:"popularity"`
	Adult        bool     `json:"adult"`

	// Movie fields
	Title         string `json:"title,omitempty"`
	OriginalTitle string `json:"original_title,omitempty"`
	ReleaseDate   string `json:"release_date,omitempty"`

	// TV fields
	Name         string `json:"name,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
}

// GenreDTO is a genre entry
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is returned by /genre/{type}/list
type GenreListResponse struct {
	Genres []GenreDTO `json:"genres"`
}

// MovieDetailsDTO is returned by /movie/{id}
type MovieDetailsDTO struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	OriginalTitle string     `json:"original_title"`
	Overview      string     `json:"overview"`
	Tagline       string     `json:"tagline"`
	Status        string     `json:"status"`
	ReleaseDate   string     `json:"release_date"`
	Runtime       int        `json:"runtime"`
	PosterPath    string     `json:"poster_path"`
	BackdropPath  string     `json:"backdrop_path"`
	Genres        []GenreDTO `json:"genres"`
	VoteAverage   *float64   `json:"vote_average"`
	VoteCount     int        `json:"vote_count"`
	Popularity    float64    `json:"popularity"`
}

// TVDetailsDTO is returned by /tv/{id}
type TVDetailsDTO struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	OriginalName     string     `json:"original_name"`
	Overview         string     `json:"overview"`
	Tagline          string     `json:"tagline"`
	Status           string     `json:"status"`
	FirstAirDate     string     `json:"first_air_date"`
	EpisodeRunTime   []int      `json:"episode_run_time"`
	NumberOfSeasons  int        `json:"number_of_seasons"`
	NumberOfEpisodes int        `json:"number_of_episodes"`
	PosterPath       string     `json:"poster_path"`
	BackdropPath     string     `json:"backdrop_path"`
	Genres           []GenreDTO `json:"genres"`
	VoteAverage      *float64   `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	Popularity       float64    `json:"popularity"`
}

// AuthenticationResponse is returned by /authentication
type AuthenticationResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// ErrorResponse is the body TMDB returns with non-2xx statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
