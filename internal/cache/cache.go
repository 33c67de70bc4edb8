// Package cache provides the in-process report cache and a janitor that
// sweeps expired entries.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"taxiledger/internal/log"
)

type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// Purge drops every entry.
	Purge()
	Size() int
}

// Cleaner is implemented by caches whose expired entries can be swept.
type Cleaner interface {
	CleanExpired() int
}

// Manager periodically sweeps registered caches.
type Manager struct {
	mu       sync.Mutex
	caches   []Cleaner
	logger   *log.Logger
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Manager{
		logger: logger.WithComponent(log.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (m *Manager) Register(c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// StartCleanup sweeps every interval until Stop is called.
func (m *Manager) StartCleanup(interval time.Duration) {
	if m.started.Swap(true) {
		return
	}
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.sweep(); n > 0 {
				m.logger.Debug("Swept expired cache entries", log.FieldCount, n)
			}
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) sweep() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop ends the cleanup loop and waits for it. It may be called more than
// once, and before StartCleanup.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		if m.started.Load() {
			<-m.done
		}
	})
}
