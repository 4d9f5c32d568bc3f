package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RiskScore is a 0-10 assessment of a pull request.
type RiskScore struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// RiskEntry pairs a pull request id with its score.
type RiskEntry struct {
	PR string
	RiskScore
}

// RiskScores maps pull request ids to risk scores and remembers insertion order.
// It marshals to a JSON object with keys in that order.
type RiskScores struct {
	entries []RiskEntry
	index   map[string]int
}

// NewRiskScores builds a mapping from entries. A repeated PR id replaces the
// earlier score but keeps its original position.
func NewRiskScores(entries ...RiskEntry) RiskScores {
	var rs RiskScores
	for _, e := range entries {
		rs = rs.With(e.PR, e.RiskScore)
	}
	return rs
}

// With returns a copy of rs with pr set to score.
func (rs RiskScores) With(pr string, score RiskScore) RiskScores {
	out := RiskScores{
		entries: make([]RiskEntry, len(rs.entries), len(rs.entries)+1),
		index:   make(map[string]int, len(rs.entries)+1),
	}
	copy(out.entries, rs.entries)
	for k, v := range rs.index {
		out.index[k] = v
	}

	if i, ok := out.index[pr]; ok {
		out.entries[i].RiskScore = score
		return out
	}
	out.index[pr] = len(out.entries)
	out.entries = append(out.entries, RiskEntry{PR: pr, RiskScore: score})
	return out
}

// Len returns the number of scored pull requests.
func (rs RiskScores) Len() int {
	return len(rs.entries)
}

// Get returns the score for pr.
func (rs RiskScores) Get(pr string) (RiskScore, bool) {
	i, ok := rs.index[pr]
	if !ok {
		return RiskScore{}, false
	}
	return rs.entries[i].RiskScore, true
}

// Entries returns the scores in insertion order.
func (rs RiskScores) Entries() []RiskEntry {
	out := make([]RiskEntry, len(rs.entries))
	copy(out, rs.entries)
	return out
}

// MarshalJSON implements json.Marshaler.
func (rs RiskScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range rs.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.PR)
		if err != nil {
			return nil, fmt.Errorf("marshal risk key %q: %w", e.PR, err)
		}
		val, err := json.Marshal(e.RiskScore)
		if err != nil {
			return nil, fmt.Errorf("marshal risk score %q: %w", e.PR, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
