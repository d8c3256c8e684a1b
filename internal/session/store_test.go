package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore()
	s.now = clock.Now
	return s, clock
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	s, _ := newTestStore()

	a := s.GetOrCreate("5511999")
	a.Intent.Category = "som"
	b := s.GetOrCreate("5511999")

	assert.Same(t, a, b)
	assert.Equal(t, "som", b.Intent.Category)
	assert.Empty(t, b.History)
	assert.Equal(t, 1, s.Len())
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s, clock := newTestStore()
	s.GetOrCreate("idle")
	clock.Advance(20 * time.Minute)
	s.GetOrCreate("fresh")
	clock.Advance(11 * time.Minute)

	removed := s.Sweep(clock.Now(), 30*time.Minute)

	assert.Equal(t, 1, removed)
	_, ok := s.LastActivity("idle")
	assert.False(t, ok)
	_, ok = s.LastActivity("fresh")
	assert.True(t, ok)
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	s, clock := newTestStore()
	s.GetOrCreate("u1")
	clock.Advance(25 * time.Minute)
	s.Touch("u1")
	clock.Advance(25 * time.Minute)

	assert.Zero(t, s.Sweep(clock.Now(), 30*time.Minute))
}

func TestSweepSkipsInFlightSessions(t *testing.T) {
	s, clock := newTestStore()
	_, release := s.Acquire("busy")
	clock.Advance(time.Hour)

	assert.Zero(t, s.Sweep(clock.Now(), 30*time.Minute))

	release()
	release() // second call is a no-op
	clock.Advance(time.Hour)
	assert.Equal(t, 1, s.Sweep(clock.Now(), 30*time.Minute))
}

func TestConcurrentUsersDoNotInterfere(t *testing.T) {
	s, _ := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i)
			for j := 0; j < 50; j++ {
				sess, release := s.Acquire(userID)
				sess.Append(model.RoleUser, "msg", time.Now())
				release()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 20, s.Len())
	for i := 0; i < 20; i++ {
		assert.Len(t, s.GetOrCreate(fmt.Sprintf("user-%d", i)).History, 50)
	}
}

func TestSessionRecentAndShownProduct(t *testing.T) {
	sess := &Session{}
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		sess.Append(model.RoleUser, text, time.Time{})
	}

	recent := sess.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "d", recent[0].Text)
	assert.Len(t, sess.Recent(0), 5)

	sess.ShowProducts([]model.Product{{ID: "p1"}, {ID: "p2"}})
	p, ok := sess.ShownProduct(2)
	assert.True(t, ok)
	assert.Equal(t, "p2", p.ID)
	_, ok = sess.ShownProduct(3)
	assert.False(t, ok)
	_, ok = sess.ShownProduct(0)
	assert.False(t, ok)
}

func TestSweeperRunOnce(t *testing.T) {
	s := NewStore()
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	s.GetOrCreate("old")

	sw, err := NewSweeper(s, time.Minute, 30*time.Minute, logger.NewNop())
	require.NoError(t, err)
	sw.RunOnce()

	assert.Zero(t, s.Len())
}

func TestNewSweeperRejectsBadInterval(t *testing.T) {
	for _, tc := range []struct {
		name     string
		interval time.Duration
		idle     time.Duration
	}{
		{"zero interval", 0, time.Minute},
		{"negative interval", -time.Second, time.Minute},
		{"both zero", 0, 0},
		{"zero idle", time.Minute, 0},
		{"negative idle", time.Minute, -time.Minute},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSweeper(NewStore(), tc.interval, tc.idle, logger.NewNop())
			assert.Error(t, err)
		})
	}
}
