package service

import (
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/sahilm/fuzzy"
)

// RecordMatch is a list record matching a local filter
type RecordMatch struct {
	Record         domain.Record
	Index          int   // Position in the unfiltered list
	MatchedIndexes []int // Character positions that matched
}

// recordIndex implements fuzzy.Source over pre-lowered titles
type recordIndex struct {
	lowerTitles []string
}

func (idx recordIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx recordIndex) Len() int            { return len(idx.lowerTitles) }

// FilterRecords fuzzy-matches records by title, best match first.
// An empty query returns every record in list order.
func FilterRecords(query string, records []domain.Record) []RecordMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]RecordMatch, len(records))
		for i, r := range records {
			out[i] = RecordMatch{Record: r, Index: i}
		}
		return out
	}

	idx := recordIndex{lowerTitles: make([]string, len(records))}
	for i, r := range records {
		idx.lowerTitles[i] = strings.ToLower(r.Title)
	}

	matches := fuzzy.FindFrom(query, idx)
	out := make([]RecordMatch, len(matches))
	for i, m := range matches {
		out[i] = RecordMatch{
			Record:         records[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return out
}

// FilterTitles narrows a page of catalog titles by name
func FilterTitles(query string, titles []domain.Title) []domain.Title {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return titles
	}

	lower := make([]string, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t.DisplayName())
	}

	matches := fuzzy.Find(query, lower)
	out := make([]domain.Title, len(matches))
	for i, m := range matches {
		out[i] = titles[m.Index]
	}
	return out
}
