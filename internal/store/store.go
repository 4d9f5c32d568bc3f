// Package store keeps the dashboard datasets in memory.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bissquit/aiops-garden/internal/domain"
)

// ErrDuplicateIncidentID is returned when a seed reuses an incident id.
var ErrDuplicateIncidentID = errors.New("duplicate incident id")

// Store holds the read-only seed collections and the append-only self-healing log.
type Store struct {
	incidents    []domain.Incident
	releaseNotes []domain.ReleaseNote
	riskScores   domain.RiskScores

	mu          sync.RWMutex
	healingLogs []domain.SelfHealingLogEntry
}

// New creates a store from seed. The seed slices are copied.
func New(seed Seed) (*Store, error) {
	seen := make(map[int]struct{}, len(seed.Incidents))
	for _, inc := range seed.Incidents {
		if _, ok := seen[inc.ID]; ok {
			return nil, fmt.Errorf("incident %d: %w", inc.ID, ErrDuplicateIncidentID)
		}
		seen[inc.ID] = struct{}{}
	}

	notes := make([]domain.ReleaseNote, len(seed.ReleaseNotes))
	for i, n := range seed.ReleaseNotes {
		notes[i] = domain.ReleaseNote{Version: n.Version, Changes: slices.Clone(n.Changes)}
	}

	s := &Store{
		incidents:    append(make([]domain.Incident, 0, len(seed.Incidents)), seed.Incidents...),
		releaseNotes: notes,
		riskScores:   seed.RiskScores,
		healingLogs:  append(make([]domain.SelfHealingLogEntry, 0, len(seed.SelfHealingLogs)), seed.SelfHealingLogs...),
	}
	selfHealingLogEntries.Set(float64(len(s.healingLogs)))

	return s, nil
}

// NewDefault creates a store holding DefaultSeed.
func NewDefault() *Store {
	s, err := New(DefaultSeed())
	if err != nil {
		panic(fmt.Sprintf("default seed: %v", err))
	}
	return s
}

// Incidents returns all incidents in seed order.
func (s *Store) Incidents() []domain.Incident {
	return slices.Clone(s.incidents)
}

// ReleaseNotes returns all release notes, most recent first.
func (s *Store) ReleaseNotes() []domain.ReleaseNote {
	out := make([]domain.ReleaseNote, len(s.releaseNotes))
	for i, n := range s.releaseNotes {
		out[i] = domain.ReleaseNote{Version: n.Version, Changes: slices.Clone(n.Changes)}
	}
	return out
}

// RiskScores returns the risk score mapping in seed order.
func (s *Store) RiskScores() domain.RiskScores {
	return s.riskScores
}

// SelfHealingLogs returns the self-healing log in insertion order,
// including entries appended since startup.
func (s *Store) SelfHealingLogs() []domain.SelfHealingLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.healingLogs)
}

// AppendSelfHealingLog appends entry to the log and returns the new log length.
func (s *Store) AppendSelfHealingLog(entry domain.SelfHealingLogEntry) int {
	s.mu.Lock()
	s.healingLogs = append(s.healingLogs, entry)
	n := len(s.healingLogs)
	selfHealingLogEntries.Set(float64(n))
	s.mu.Unlock()

	return n
}
