// Package session keeps one live page per page load. Each session serializes
// access to its page, delivers timer work back onto that page and tells
// streaming clients when the page changed on its own.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/app"
	"github.com/Zachkp/folio/internal/schedule"
)

// ErrClosed is returned for work on an evicted session.
var ErrClosed = errors.New("session closed")

// NewID returns a fresh session or visitor id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like an id from NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Factory builds the page of session id. The page must schedule through sched
// and re-enter through post.
type Factory func(id string, sched schedule.Scheduler, post func(func())) (*app.App, error)

// Session is one live page.
type Session struct {
	ID string

	mu       sync.Mutex
	page     *app.App
	timer    *schedule.Timer
	lastSeen time.Time
	closed   bool
	version  uint64
	changed  chan struct{}
}

// Do runs fn with exclusive access to the page.
func (s *Session) Do(fn func(*app.App)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	fn(s.page)
	s.version++
	return nil
}

// post delivers background work onto the page and wakes watchers.
func (s *Session) post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.page.Run(fn)
	s.version++
	close(s.changed)
	s.changed = make(chan struct{})
}

// Watch returns the current version and a channel closed at the next change
// made outside Do, or when the session closes.
func (s *Session) Watch() (uint64, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, s.changed
}

// Closed reports whether the session was evicted.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.timer.Stop()
	s.page.Destroy()
	close(s.changed)
}

// Options configure Manager.
type Options struct {
	// TTL is the idle time after which a session is evicted.
	TTL time.Duration
	// Sweep is the eviction interval used by Run.
	Sweep time.Duration
	// MaxActive caps live sessions; the least recently seen goes first.
	MaxActive int
}

// Manager owns the live sessions.
type Manager struct {
	opts Options
	log  *zap.Logger
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns an empty manager.
func NewManager(opts Options, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		opts:     opts,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session id and marks it seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// Start builds a page under a fresh session id. The page is built before the
// manager lock is taken.
func (m *Manager) Start(build Factory) (*Session, error) {
	s := &Session{ID: NewID(), lastSeen: m.now(), changed: make(chan struct{})}
	s.timer = schedule.NewTimer(s.post)
	// Hold the page lock while booting so early timers wait for the page.
	s.mu.Lock()
	page, err := build(s.ID, s.timer, s.post)
	if err != nil {
		s.closed = true
		s.mu.Unlock()
		s.timer.Stop()
		return nil, err
	}
	s.page = page
	s.mu.Unlock()

	m.mu.Lock()
	var evicted []*Session
	if m.opts.MaxActive > 0 && len(m.sessions) >= m.opts.MaxActive {
		evicted = m.evictOldestLocked()
	}
	m.sessions[s.ID] = s
	active := len(m.sessions)
	m.mu.Unlock()

	for _, old := range evicted {
		old.close()
		m.log.Info("session evicted", zap.String("session", old.ID), zap.String("reason", "capacity"))
	}
	m.log.Debug("session started", zap.String("session", s.ID), zap.Int("active", active))
	return s, nil
}

// evictOldestLocked unregisters the least recently seen sessions so one more
// fits. The caller closes them after releasing m.mu.
func (m *Manager) evictOldestLocked() []*Session {
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].seen().Before(m.sessions[ids[j]].seen())
	})
	overflow := len(ids) - m.opts.MaxActive + 1
	evicted := make([]*Session, 0, overflow)
	for _, id := range ids[:overflow] {
		evicted = append(evicted, m.sessions[id])
		delete(m.sessions, id)
	}
	return evicted
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// went.
func (m *Manager) Sweep() int {
	if m.opts.TTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.TTL)
	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.seen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	if len(stale) > 0 {
		m.log.Debug("sessions swept", zap.Int("evicted", len(stale)))
	}
	return len(stale)
}

// Run sweeps on the configured interval until ctx is done, then closes every
// session.
func (m *Manager) Run(ctx context.Context) {
	interval := m.opts.Sweep
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close evicts every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
