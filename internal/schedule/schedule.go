// Package schedule decouples delayed UI work from wall-clock timers so
// animations and throttles can run deterministically under test.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Cancel stops a pending callback. Calling it after the callback ran, or more
// than once, does nothing.
type Cancel func()

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func()) Cancel
	Now() time.Time
}

// Timer schedules on real time. Callbacks do not run on the timer goroutine:
// they are handed to post, which is expected to run them on the owner's loop.
type Timer struct {
	post func(func())

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	stopped bool
}

// NewTimer returns a real-time scheduler that delivers through post.
func NewTimer(post func(func())) *Timer {
	return &Timer{post: post, pending: make(map[*time.Timer]struct{})}
}

// After implements Scheduler.
func (t *Timer) After(d time.Duration, fn func()) Cancel {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return func() {}
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		t.mu.Lock()
		_, live := t.pending[tm]
		delete(t.pending, tm)
		t.mu.Unlock()
		if live {
			t.post(fn)
		}
	})
	t.pending[tm] = struct{}{}
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.pending[tm]; ok {
			tm.Stop()
			delete(t.pending, tm)
		}
	}
}

// Now implements Scheduler.
func (t *Timer) Now() time.Time { return time.Now() }

// Pending reports the number of callbacks not yet fired.
func (t *Timer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Stop cancels everything pending and refuses new work.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for tm := range t.pending {
		tm.Stop()
	}
	t.pending = make(map[*time.Timer]struct{})
}

// Manual is a virtual clock. Nothing runs until Advance moves time past a
// callback's deadline.
type Manual struct {
	now   time.Time
	seq   int
	tasks []*task
}

type task struct {
	at  time.Time
	seq int
	fn  func()
}

// NewManual returns a virtual clock starting at the Unix epoch.
func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0)}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Cancel {
	m.seq++
	tk := &task{at: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, tk)
	return func() { m.drop(tk) }
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time { return m.now }

// Advance moves the clock forward by d and runs every callback that became
// due, in deadline order. Callbacks scheduled while advancing run too when
// their deadline falls inside the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		tk := m.next()
		if tk == nil || tk.at.After(end) {
			break
		}
		m.drop(tk)
		if tk.at.After(m.now) {
			m.now = tk.at
		}
		tk.fn()
	}
	m.now = end
}

// Pending reports the number of callbacks not yet run.
func (m *Manual) Pending() int { return len(m.tasks) }

func (m *Manual) next() *task {
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at.Equal(m.tasks[j].at) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at.Before(m.tasks[j].at)
	})
	return m.tasks[0]
}

func (m *Manual) drop(tk *task) {
	for i, have := range m.tasks {
		if have == tk {
			m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
			return
		}
	}
}

// Immediate runs every callback synchronously, ignoring the delay. It is used
// for static export where there is no one to wait for.
type Immediate struct{}

// After implements Scheduler.
func (Immediate) After(_ time.Duration, fn func()) Cancel {
	fn()
	return func() {}
}

// Now implements Scheduler.
func (Immediate) Now() time.Time { return time.Now() }

// Throttle returns a function that calls fn at most once per limit. Calls
// inside the window are dropped.
func Throttle(s Scheduler, limit time.Duration, fn func()) func() {
	waiting := false
	return func() {
		if waiting {
			return
		}
		fn()
		waiting = true
		s.After(limit, func() { waiting = false })
	}
}

// Stagger spaces a sequence of callbacks Step apart.
type Stagger struct {
	S    Scheduler
	Step time.Duration
}

// Run schedules fn for the i-th item after i*Step.
func (st Stagger) Run(i int, fn func()) Cancel {
	return st.S.After(time.Duration(i)*st.Step, fn)
}
