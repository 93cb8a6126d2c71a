package lists

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mmcdole/marquee/internal/domain"
)

// Format is a backup file format
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name, also accepting file extensions
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json", "":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ImportMode selects how imported records combine with existing ones
type ImportMode int

const (
	// ImportMerge keeps existing records and appends unseen keys
	ImportMerge ImportMode = iota
	// ImportReplace discards existing records
	ImportReplace
)

const snapshotVersion = 1

// Snapshot is a backup of all three lists
type Snapshot struct {
	ExportedAt domain.Timestamp
	Lists      map[domain.ListName][]domain.Record
}

// document is the on-disk backup layout; list entries use the same
// layout as the medium
type document struct {
	Version    int              `json:"version" toml:"version"`
	ExportedAt domain.Timestamp `json:"exported_at" toml:"exported_at"`
	Watchlist  []bookmarkJSON   `json:"watchlist" toml:"watchlist"`
	Favorites  []bookmarkJSON   `json:"favorites" toml:"favorites"`
	Watched    []watchedJSON    `json:"watched" toml:"watched"`
}

// Export captures every list
func (s *Store) Export() Snapshot {
	snap := Snapshot{
		ExportedAt: domain.NewTimestamp(s.now()),
		Lists:      make(map[domain.ListName][]domain.Record, 3),
	}
	for _, name := range domain.AllLists() {
		snap.Lists[name] = s.Load(name)
	}
	return snap
}

// ImportStats reports how many records each list gained
type ImportStats map[domain.ListName]int

// importWrite is one list's new content plus what it replaces
type importWrite struct {
	name     domain.ListName
	data     []byte
	previous []byte
	existed  bool
	added    int
}

// Import writes a snapshot into the store. In merge mode existing records
// win over incoming ones with the same key. Every list is merged and
// encoded before the first write; if a write fails, lists already written
// are restored to their previous content.
func (s *Store) Import(snap Snapshot, mode ImportMode) (ImportStats, domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.probeErr != nil {
		return ImportStats{}, domain.Failed(domain.ReasonUnavailable, s.probeErr)
	}

	writes := make([]importWrite, 0, 3)
	for _, name := range domain.AllLists() {
		incoming := snap.Lists[name]

		var base []domain.Record
		if mode == ImportMerge {
			base = s.load(name)
		}

		merged := make([]domain.Record, 0, len(base)+len(incoming))
		merged = append(merged, base...)
		added := 0
		for _, r := range incoming {
			if indexOf(merged, r.Key) >= 0 {
				continue
			}
			if name == domain.Watched {
				r.PosterPath, r.VoteAverage = nil, nil
			}
			merged = append(merged, r)
			added++
		}

		data, err := encode(name, merged)
		if err != nil {
			return ImportStats{}, domain.Failed(domain.ReasonWriteRejected, err)
		}
		previous, existed, err := s.medium.Get(string(name))
		if err != nil {
			return ImportStats{}, domain.Failed(domain.ReasonWriteRejected, err)
		}
		writes = append(writes, importWrite{name, data, previous, existed, added})
	}

	for i, w := range writes {
		if err := s.medium.Set(string(w.name), w.data); err != nil {
			s.logger.Warn("import write failed, restoring lists", "list", w.name, "error", err)
			s.restore(writes[:i])
			return ImportStats{}, domain.Failed(domain.ReasonWriteRejected, err)
		}
	}

	stats := make(ImportStats, len(writes))
	for _, w := range writes {
		stats[w.name] = w.added
	}
	s.logger.Info("imported lists", "watchlist", stats[domain.Watchlist],
		"favorites", stats[domain.Favorites], "watched", stats[domain.Watched])
	return stats, domain.Ok
}

// restore puts back the content replaced by already applied writes
func (s *Store) restore(applied []importWrite) {
	for i := len(applied) - 1; i >= 0; i-- {
		w := applied[i]
		var err error
		if w.existed {
			err = s.medium.Set(string(w.name), w.previous)
		} else {
			err = s.medium.Delete(string(w.name))
		}
		if err != nil {
			s.logger.Error("failed to restore list after import", "list", w.name, "error", err)
		}
	}
}

// EncodeSnapshot writes a snapshot in the given format
func EncodeSnapshot(w io.Writer, snap Snapshot, format Format) error {
	doc := document{
		Version:    snapshotVersion,
		ExportedAt: snap.ExportedAt,
		Watchlist:  toBookmarks(snap.Lists[domain.Watchlist]),
		Favorites:  toBookmarks(snap.Lists[domain.Favorites]),
		Watched:    toWatched(snap.Lists[domain.Watched]),
	}

	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}

// DecodeSnapshot reads a snapshot in the given format
func DecodeSnapshot(r io.Reader, format Format) (Snapshot, error) {
	var doc document
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Snapshot{}, fmt.Errorf("failed to parse toml backup: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Snapshot{}, fmt.Errorf("failed to parse json backup: %w", err)
		}
	}
	if doc.Version > snapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported backup version %d", doc.Version)
	}

	watchlist, err := fromBookmarks(doc.Watchlist)
	if err != nil {
		return Snapshot{}, fmt.Errorf("watchlist: %w", err)
	}
	favorites, err := fromBookmarks(doc.Favorites)
	if err != nil {
		return Snapshot{}, fmt.Errorf("favorites: %w", err)
	}
	watched, err := fromWatched(doc.Watched)
	if err != nil {
		return Snapshot{}, fmt.Errorf("watched: %w", err)
	}

	return Snapshot{
		ExportedAt: doc.ExportedAt,
		Lists: map[domain.ListName][]domain.Record{
			domain.Watchlist: watchlist,
			domain.Favorites: favorites,
			domain.Watched:   watched,
		},
	}, nil
}
