package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// MemoryStore keeps windows in process memory. Expired windows are swept at
// most once per window length.
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	now       func() time.Time
	lastSweep time.Time
	sweeps    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: map[string]*window{}, now: time.Now}
}

func (m *MemoryStore) Hit(_ context.Context, key string, length time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) > length {
		m.windows[key] = &window{count: 1, start: now}
		m.gcLocked(now, length)
		return 1, nil
	}

	w.count++
	return w.count, nil
}

func (m *MemoryStore) gcLocked(now time.Time, length time.Duration) {
	if now.Sub(m.lastSweep) < length {
		return
	}
	m.lastSweep = now
	m.sweeps++

	for key, w := range m.windows {
		if now.Sub(w.start) > length {
			delete(m.windows, key)
		}
	}
}
