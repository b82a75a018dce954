package monitoring

import (
	"sort"
	"strings"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service keeps in-process event counters for the metrics endpoint.
type Service struct {
	mu       sync.RWMutex
	started  time.Time
	counters map[string]int64
	lastSeen map[string]time.Time
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	StartedAt time.Time            `json:"started_at"`
	Uptime    string               `json:"uptime"`
	Counters  map[string]int64     `json:"counters"`
	LastSeen  map[string]time.Time `json:"last_seen"`
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{
		started:  time.Now(),
		counters: make(map[string]int64),
		lastSeen: make(map[string]time.Time),
	}
}

// RecordEvent counts one occurrence of eventName. Labels become part of the
// counter key, so each label combination is counted separately.
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.RecordCount(counterKey(eventName, labels), 1)
}

// RecordCount adds n to the counter key.
func (s *Service) RecordCount(key string, n int64) {
	s.mu.Lock()
	s.counters[key] += n
	s.lastSeen[key] = time.Now()
	s.mu.Unlock()

	nuts.L.Debugf("[Monitoring] %s +%d", key, n)
}

// GetEventMetrics returns every counter of eventType seen within duration.
// A zero duration returns all of them.
func (s *Service) GetEventMetrics(eventType string, duration time.Duration) map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-duration)
	out := make(map[string]int64)
	for key, n := range s.counters {
		if key != eventType && !strings.HasPrefix(key, eventType+"{") {
			continue
		}
		if duration > 0 && s.lastSeen[key].Before(cutoff) {
			continue
		}
		out[key] = n
	}
	return out
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Counters:  make(map[string]int64, len(s.counters)),
		LastSeen:  make(map[string]time.Time, len(s.lastSeen)),
	}
	for k, v := range s.counters {
		snap.Counters[k] = v
	}
	for k, v := range s.lastSeen {
		snap.LastSeen[k] = v
	}
	return snap
}

// counterKey renders name{k1=v1,k2=v2} with keys sorted.
func counterKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	b.WriteByte('}')
	return b.String()
}
