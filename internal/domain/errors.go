package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrTitleNotFound indicates the catalog has no such movie or show
	ErrTitleNotFound = errors.New("title not found")

	// ErrCatalogOffline indicates the catalog API is unreachable
	ErrCatalogOffline = errors.New("catalog is unreachable")

	// ErrAuthFailed indicates the catalog credential was rejected
	ErrAuthFailed = errors.New("catalog credential is invalid")

	// ErrRateLimited indicates the catalog kept answering 429
	ErrRateLimited = errors.New("catalog rate limit exceeded")

	// ErrUnknownList indicates a list name other than watchlist/favorites/watched
	ErrUnknownList = errors.New("unknown list")

	// ErrUnknownMediaType indicates a media type other than movie/tv
	ErrUnknownMediaType = errors.New("unknown media type")
)
