package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/folio/internal/app"
	"github.com/Zachkp/folio/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pageFactory(_ string, sched schedule.Scheduler, post func(func())) (*app.App, error) {
	return app.New(app.Options{Sched: sched, Post: post})
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newManager(t *testing.T, opts Options) (*Manager, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(opts, nil)
	m.now = c.Now
	t.Cleanup(m.Close)
	return m, c
}

func TestStartRegistersFreshSessions(t *testing.T) {
	m, _ := newManager(t, Options{})
	var built string
	a, err := m.Start(func(id string, sched schedule.Scheduler, post func(func())) (*app.App, error) {
		built = id
		return pageFactory(id, sched, post)
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, built)
	assert.True(t, ValidID(a.ID))
	assert.False(t, ValidID("not-an-id"))

	b, err := m.Start(pageFactory)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a.ID)
	assert.True(t, ok)
	assert.Same(t, a, got)
	_, ok = m.Get(NewID())
	assert.False(t, ok)
}

func TestStartBuildsOutsideManagerLock(t *testing.T) {
	m, _ := newManager(t, Options{})
	first, err := m.Start(pageFactory)
	require.NoError(t, err)

	building := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := m.Start(func(id string, sched schedule.Scheduler, post func(func())) (*app.App, error) {
			close(building)
			<-release
			return pageFactory(id, sched, post)
		})
		done <- err
	}()
	<-building

	looked := make(chan bool, 1)
	go func() {
		_, ok := m.Get(first.ID)
		looked <- ok
	}()
	select {
	case ok := <-looked:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Error("Get waited for another page to build")
	}
	assert.Equal(t, 1, m.Len())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 2, m.Len())
}

func TestDoSerializesAndRefusesClosed(t *testing.T) {
	m, _ := newManager(t, Options{})
	s, err := m.Start(pageFactory)
	require.NoError(t, err)

	var theme string
	require.NoError(t, s.Do(func(p *app.App) { theme = p.Theme() }))
	assert.Equal(t, "light", theme)

	m.Close()
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Do(func(*app.App) {}), ErrClosed)
}

func TestTimerWorkWakesWatchers(t *testing.T) {
	m, _ := newManager(t, Options{})
	s, err := m.Start(pageFactory)
	require.NoError(t, err)

	before, changed := s.Watch()
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("typing animation never reached the page")
	}
	after, _ := s.Watch()
	assert.Greater(t, after, before)

	var text string
	require.NoError(t, s.Do(func(p *app.App) { text = p.Typer.Text() }))
	assert.NotEmpty(t, text)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m, c := newManager(t, Options{TTL: 30 * time.Minute})
	idle, err := m.Start(pageFactory)
	require.NoError(t, err)
	c.now = c.now.Add(20 * time.Minute)
	fresh, err := m.Start(pageFactory)
	require.NoError(t, err)
	_, idleWatch := idle.Watch()

	c.now = c.now.Add(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.True(t, idle.Closed())
	assert.False(t, fresh.Closed())
	assert.Equal(t, 1, m.Len())

	select {
	case <-idleWatch:
	default:
		t.Fatal("watchers of an evicted session must be released")
	}
}

func TestCapacityEvictsLeastRecentlySeen(t *testing.T) {
	m, c := newManager(t, Options{MaxActive: 2})
	first, err := m.Start(pageFactory)
	require.NoError(t, err)
	c.now = c.now.Add(time.Minute)
	second, err := m.Start(pageFactory)
	require.NoError(t, err)
	c.now = c.now.Add(time.Minute)
	m.Get(first.ID)
	c.now = c.now.Add(time.Minute)
	_, err = m.Start(pageFactory)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.False(t, first.Closed())
	assert.True(t, second.Closed())
}

func TestFactoryErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(Options{}, nil)
	_, err := m.Start(func(string, schedule.Scheduler, func(func())) (*app.App, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())
}

func TestRunClosesOnCancel(t *testing.T) {
	m, _ := newManager(t, Options{Sweep: time.Millisecond, TTL: time.Hour})
	s, err := m.Start(pageFactory)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
	assert.True(t, s.Closed())
	assert.Equal(t, 0, m.Len())
}
