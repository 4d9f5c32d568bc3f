// Package healing simulates automated remediation of incidents.
package healing

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bissquit/aiops-garden/internal/domain"
	"github.com/bissquit/aiops-garden/internal/pkg/ctxlog"
)

// Actions lists the remediations the simulator can pick from.
var Actions = []string{
	"Restarted service",
	"Rolled back deployment",
	"Scaled up replicas",
	"Purged cache",
	"Rebuilt container image",
}

// RandSource picks a number in [0, n).
type RandSource interface {
	IntN(n int) int
}

// LogAppender records self-healing log entries.
type LogAppender interface {
	AppendSelfHealingLog(entry domain.SelfHealingLogEntry) int
}

// Simulator produces synthetic self-healing events and appends them to the log.
type Simulator struct {
	logs LogAppender
	rnd  RandSource
	now  func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock overrides the wall clock used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

// NewSimulator creates a simulator that appends to logs and picks actions with rnd.
func NewSimulator(logs LogAppender, rnd RandSource, opts ...Option) *Simulator {
	s := &Simulator{
		logs: logs,
		rnd:  rnd,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate picks a random action, records it as a successful fix and returns the entry.
func (s *Simulator) Simulate(ctx context.Context) domain.SelfHealingLogEntry {
	entry := domain.SelfHealingLogEntry{
		Timestamp: s.now().Local().Format(domain.HealingTimeLayout),
		Action:    Actions[s.rnd.IntN(len(Actions))],
		Status:    domain.HealingStatusSuccess,
	}

	size := s.logs.AppendSelfHealingLog(entry)
	healingActions.WithLabelValues(entry.Action).Inc()

	ctxlog.FromContext(ctx).Info("self-healing simulated",
		"action", entry.Action,
		"timestamp", entry.Timestamp,
		"log_size", size,
	)

	return entry
}

// LockedSource is a RandSource safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedSource creates a PCG-backed source from seed.
func NewLockedSource(seed uint64) *LockedSource {
	return &LockedSource{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// IntN implements RandSource.
func (l *LockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}
