package lists

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
)

// Store provides CRUD over the three personal lists on top of a
// key-value Medium, one key per list.
//
// Failures never propagate as errors: reads degrade to an empty list and
// writes report a failed Result. Every read goes to the medium; there is
// no cache.
type Store struct {
	medium store.Medium
	logger *slog.Logger
	now    func() time.Time

	// Serializes read-modify-write; TUI commands run on goroutines
	mu sync.Mutex

	probeErr error // non-nil when the medium failed its availability probe
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source for new records
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store and probes the medium once. An unusable medium
// still yields a working Store that reads empty and rejects writes.
func New(medium store.Medium, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		medium: medium,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := store.Probe(medium); err != nil {
		s.probeErr = err
		logger.Warn("list storage unavailable, lists will be empty and read-only", "error", err)
	}
	return s
}

// Available reports whether the medium passed its availability probe
func (s *Store) Available() bool {
	return s.probeErr == nil
}

// Load returns the persisted records for a list, in insertion order.
// Returns an empty slice when nothing is stored, the medium is unavailable,
// or the stored content is malformed.
func (s *Store) Load(name domain.ListName) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(name)
}

// Save replaces the entire persisted content of a list
func (s *Store) Save(name domain.ListName, records []domain.Record) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(name, records)
}

// Add appends a record projected from t unless the list already holds its key
func (s *Store) Add(name domain.ListName, t domain.Title) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res, ok := s.writable(name); !ok {
		return res
	}

	records := s.load(name)
	if indexOf(records, t.Key) >= 0 {
		s.logger.Debug("add skipped, already present", "list", name, "key", t.Key)
		return domain.Failed(domain.ReasonAlreadyPresent, nil)
	}

	records = append(records, s.project(t))
	res := s.save(name, records)
	if res.OK() {
		s.logger.Info("added to list", "list", name, "key", t.Key, "title", t.DisplayName())
	}
	return res
}

// Remove deletes every record matching the key
func (s *Store) Remove(name domain.ListName, id int, mediaType domain.MediaType) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res, ok := s.writable(name); !ok {
		return res
	}

	key := domain.NewKey(id, mediaType)
	records := s.load(name)
	kept := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.Key != key {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return domain.Failed(domain.ReasonNotPresent, nil)
	}

	res := s.save(name, kept)
	if res.OK() {
		s.logger.Info("removed from list", "list", name, "key", key, "removed", len(records)-len(kept))
	}
	return res
}

// Contains reports whether the list holds the key. Reads the medium on every call.
func (s *Store) Contains(name domain.ListName, id int, mediaType domain.MediaType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.load(name), domain.NewKey(id, mediaType)) >= 0
}

// Records returns a list's records (alias of Load for query callers)
func (s *Store) Records(name domain.ListName) []domain.Record {
	return s.Load(name)
}

// Count returns the number of records in a list
func (s *Store) Count(name domain.ListName) int {
	return len(s.Load(name))
}

func (s *Store) load(name domain.ListName) []domain.Record {
	empty := []domain.Record{}
	if !validList(name) {
		s.logger.Warn("load of unknown list", "list", name)
		return empty
	}
	if s.probeErr != nil {
		return empty
	}

	data, found, err := s.medium.Get(string(name))
	if err != nil {
		s.logger.Warn("failed to read list", "list", name, "error", err)
		return empty
	}
	if !found {
		return empty
	}

	records, err := decode(name, data)
	if err != nil {
		s.logger.Warn("malformed list content, treating as empty", "list", name, "error", err)
		return empty
	}
	return records
}

func (s *Store) save(name domain.ListName, records []domain.Record) domain.Result {
	if res, ok := s.writable(name); !ok {
		return res
	}

	if records == nil {
		records = []domain.Record{}
	}
	data, err := encode(name, records)
	if err != nil {
		return domain.Failed(domain.ReasonWriteRejected, err)
	}

	if err := s.medium.Set(string(name), data); err != nil {
		s.logger.Warn("failed to write list", "list", name, "error", err)
		return domain.Failed(domain.ReasonWriteRejected, err)
	}
	return domain.Ok
}

// writable checks the list name and medium availability before a write
func (s *Store) writable(name domain.ListName) (domain.Result, bool) {
	if !validList(name) {
		return domain.Failed(domain.ReasonWriteRejected, domain.ErrUnknownList), false
	}
	if s.probeErr != nil {
		return domain.Failed(domain.ReasonUnavailable, s.probeErr), false
	}
	return domain.Ok, true
}

// project captures the display snapshot for a new record
func (s *Store) project(t domain.Title) domain.Record {
	r := domain.Record{
		Key:     t.Key,
		Title:   t.DisplayName(),
		AddedAt: domain.NewTimestamp(s.now()),
	}
	if t.PosterPath != "" {
		poster := t.PosterPath
		r.PosterPath = &poster
	}
	if t.VoteAverage != nil {
		vote := *t.VoteAverage
		r.VoteAverage = &vote
	}
	return r
}

func indexOf(records []domain.Record, key domain.Key) int {
	for i, r := range records {
		if r.Key == key {
			return i
		}
	}
	return -1
}

func validList(name domain.ListName) bool {
	switch name {
	case domain.Watchlist, domain.Favorites, domain.Watched:
		return true
	default:
		return false
	}
}
