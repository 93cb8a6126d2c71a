package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrQuotaExceeded indicates a write would push the medium over its byte quota
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrClosed indicates the medium was used after Close
	ErrClosed = errors.New("storage medium is closed")
)

// Medium is a key-value store of serialized text blobs addressed by string keys.
type Medium interface {
	// Get returns the value for key; found is false when no entry exists
	Get(key string) (value []byte, found bool, err error)

	// Set replaces the value for key
	Set(key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(key string) error

	// Keys lists all keys currently stored
	Keys() ([]string, error)

	Close() error
}

// probePrefix marks sentinel keys written by Probe
const probePrefix = "__probe__"

// Probe checks that a medium is usable with a write-then-delete round trip
// of a unique sentinel key.
func Probe(m Medium) error {
	if m == nil {
		return errors.New("no storage medium")
	}
	key := probePrefix + uuid.NewString()
	if err := m.Set(key, []byte("1")); err != nil {
		return fmt.Errorf("probe write: %w", err)
	}
	v, found, err := m.Get(key)
	if err != nil {
		return fmt.Errorf("probe read: %w", err)
	}
	if !found || string(v) != "1" {
		return errors.New("probe read back mismatch")
	}
	if err := m.Delete(key); err != nil {
		return fmt.Errorf("probe delete: %w", err)
	}
	return nil
}

// quotaMedium enforces a total byte limit across all keys
type quotaMedium struct {
	Medium
	limit  int64
	logger *slog.Logger
}

// WithQuota wraps m so that writes pushing the total stored size over
// limit bytes fail with ErrQuotaExceeded. A limit <= 0 disables the check.
func WithQuota(m Medium, limit int64, logger *slog.Logger) Medium {
	if limit <= 0 {
		return m
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &quotaMedium{Medium: m, limit: limit, logger: logger}
}

func (q *quotaMedium) Set(key string, value []byte) error {
	// Probe sentinels are deleted right away and never count against the quota
	if strings.HasPrefix(key, probePrefix) {
		return q.Medium.Set(key, value)
	}

	keys, err := q.Medium.Keys()
	if err != nil {
		return err
	}

	total := int64(len(key) + len(value))
	for _, k := range keys {
		if k == key {
			continue
		}
		v, found, err := q.Medium.Get(k)
		if err != nil {
			return err
		}
		if found {
			total += int64(len(k) + len(v))
		}
	}

	if total > q.limit {
		q.logger.Warn("storage quota exceeded", "key", key, "size", total, "limit", q.limit)
		return ErrQuotaExceeded
	}
	return q.Medium.Set(key, value)
}
