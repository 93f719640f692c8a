// Package prefs holds the persisted user configuration: language, currency,
// date format and theme. The in-memory snapshot is authoritative; every
// mutation schedules a full write-through to the storage adapter.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/herdboard/herdboard/internal/theme"
)

// ErrNotFound is returned by Storage.Read when no snapshot was persisted yet.
var ErrNotFound = errors.New("preferences not found")

// Storage persists the serialized preference object under one fixed key.
type Storage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Preferences is the persisted state, one flat JSON object. Unknown keys in
// stored payloads are ignored; missing keys fall back per field.
type Preferences struct {
	Language   string      `json:"language"`
	Currency   string      `json:"currency"`
	DateFormat string      `json:"dateFormat"`
	Theme      theme.Theme `json:"theme"`
}

// storedPreferences mirrors Preferences with optional fields so a partially
// corrupt payload keeps its valid fields.
type storedPreferences struct {
	Language   *string `json:"language"`
	Currency   *string `json:"currency"`
	DateFormat *string `json:"dateFormat"`
	Theme      *string `json:"theme"`
}

const writeTimeout = 5 * time.Second

// Store is the process-wide preference holder.
type Store struct {
	mu       sync.RWMutex
	current  Preferences
	seq      uint64
	defaults Preferences
	storage  Storage
	logger   *zap.Logger

	// writeMu serializes background writes; writtenSeq tracks the newest
	// snapshot the storage has accepted so stale writers are dropped.
	writeMu    sync.Mutex
	writtenSeq uint64
}

// NewStore builds a store seeded with defaults. Call Load before serving.
func NewStore(defaults Preferences, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		current:  defaults,
		defaults: defaults,
		storage:  storage,
		logger:   logger,
	}
}

// Load overlays any cleanly-parsed stored fields onto the defaults. Corrupt
// or missing payloads fall back silently; nothing here is surfaced to users.
func (s *Store) Load(ctx context.Context) {
	if s.storage == nil {
		return
	}

	data, err := s.storage.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("preferences read failed, using defaults", zap.Error(err))
		}
		return
	}

	var stored storedPreferences
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("stored preferences unreadable, using defaults", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.defaults
	if stored.Language != nil && *stored.Language != "" {
		merged.Language = *stored.Language
	}
	if stored.Currency != nil && *stored.Currency != "" {
		merged.Currency = *stored.Currency
	}
	if stored.DateFormat != nil && *stored.DateFormat != "" {
		merged.DateFormat = *stored.DateFormat
	}
	if stored.Theme != nil {
		if t := theme.Theme(*stored.Theme); t.Valid() {
			merged.Theme = t
		}
	}
	s.current = merged
}

// Snapshot returns the current preference object.
func (s *Store) Snapshot() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Theme returns the current raw theme choice (possibly Auto).
func (s *Store) Theme() theme.Theme {
	return s.Snapshot().Theme
}

// SetLanguage updates the language and persists.
func (s *Store) SetLanguage(v string) {
	s.update(func(p *Preferences) { p.Language = v })
}

// SetCurrency updates the currency code and persists.
func (s *Store) SetCurrency(v string) {
	s.update(func(p *Preferences) { p.Currency = v })
}

// SetDateFormat updates the date format and persists.
func (s *Store) SetDateFormat(v string) {
	s.update(func(p *Preferences) { p.DateFormat = v })
}

// SetTheme updates the theme choice; invalid values are ignored.
func (s *Store) SetTheme(v theme.Theme) {
	if !v.Valid() {
		s.logger.Warn("ignoring invalid theme choice", zap.String("theme", string(v)))
		return
	}
	s.update(func(p *Preferences) { p.Theme = v })
}

// Replace swaps the whole snapshot, keeping defaults for empty fields.
func (s *Store) Replace(p Preferences) {
	s.update(func(cur *Preferences) {
		if p.Language != "" {
			cur.Language = p.Language
		}
		if p.Currency != "" {
			cur.Currency = p.Currency
		}
		if p.DateFormat != "" {
			cur.DateFormat = p.DateFormat
		}
		if p.Theme.Valid() {
			cur.Theme = p.Theme
		}
	})
}

func (s *Store) update(apply func(*Preferences)) {
	s.mu.Lock()
	apply(&s.current)
	snapshot := s.current
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.persist(snapshot, seq)
}

// persist writes through in the background; the in-memory value stays
// authoritative ahead of the durable copy and writes never block reads.
// Writes are serialized and a writer whose snapshot has already been
// superseded by a persisted newer one gives up, so rapid mutations cannot
// leave an older snapshot as the durable copy.
func (s *Store) persist(p Preferences, seq uint64) {
	if s.storage == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("failed to encode preferences", zap.Error(err))
		return
	}

	go func() {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if seq <= s.writtenSeq {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.storage.Write(ctx, data); err != nil {
			s.logger.Error("failed to persist preferences", zap.Error(err))
			return
		}
		s.writtenSeq = seq
	}()
}
