package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/wordpace/codec"
	"github.com/anjiri1684/wordpace/database"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	// go-redis starts a process-wide time cache ticker from its package init.
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("github.com/redis/go-redis/v9/internal/pool.startGlobalTimeCache.func1"))
}

var start = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type harness struct {
	engine *Engine
	clock  *clockwork.FakeClock
	store  *database.MemoryStore
	events *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := database.NewMemoryStore()
	return newHarnessWithStore(t, store)
}

func newHarnessWithStore(t *testing.T, store *database.MemoryStore) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(start)
	log := zaptest.NewLogger(t)
	events := &recorder{}
	c := codec.New(store, "", clock, log)
	e := NewEngine(context.Background(), c,
		WithClock(clock), WithLocation(time.UTC), WithLogger(log), WithNotifier(events))
	t.Cleanup(func() { e.Close() })
	return &harness{engine: e, clock: clock, store: store, events: events}
}

func TestEngine_PersistsAfterMutation(t *testing.T) {
	h := newHarness(t)
	h.engine.AddProgress(120)
	require.NoError(t, h.engine.Flush(context.Background()))

	raw, err := h.store.Get(context.Background(), codec.DefaultKey)
	require.NoError(t, err)
	p, report := codec.Decode(raw, start)
	require.False(t, report.Corrupt)
	assert.Equal(t, 120, p.LevelProgress)
}

func TestEngine_ReloadSeesCommittedState(t *testing.T) {
	store := database.NewMemoryStore()
	h := newHarnessWithStore(t, store)
	h.engine.AddProgress(900)
	h.engine.StartTrial()
	require.NoError(t, h.engine.Close())

	again := newHarnessWithStore(t, store)
	snap := again.engine.Snapshot()
	assert.Equal(t, 900, snap.LevelProgress)
	assert.True(t, snap.TrialConsumed)
	assert.True(t, snap.UnlockedBadgeIDs.Has("reached-intermediate"))
}

func TestEngine_MutationKeepsNewerVersionFields(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()
	raw := `{"schemaVersion":6,"levelProgress":10,"dailyGoal":{"words":2500}}`
	require.NoError(t, store.Set(ctx, codec.DefaultKey, []byte(raw)))

	h := newHarnessWithStore(t, store)
	h.engine.AddProgress(5)
	require.NoError(t, h.engine.Flush(ctx))

	saved, err := store.Get(ctx, codec.DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, string(saved), `"dailyGoal":{"words":2500}`)
	p, report := codec.Decode(saved, start)
	require.False(t, report.Corrupt, "%v", report.Err)
	assert.Equal(t, 6, p.SchemaVersion)
	assert.Equal(t, 15, p.LevelProgress)
}

func TestEngine_ReadsDoNotPersist(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.Flush(context.Background()))
	writes := h.store.Writes()

	h.engine.CurrentLevel()
	h.engine.CanUse("quiz")
	h.engine.Overview()
	require.NoError(t, h.engine.Flush(context.Background()))
	assert.Equal(t, writes, h.store.Writes())
}

func TestEngine_SnapshotIsIsolated(t *testing.T) {
	h := newHarness(t)
	snap := h.engine.Snapshot()
	snap.UnlockedBadgeIDs.Add("forged")
	snap.Stats.CategoryCounts["x"] = 9

	again := h.engine.Snapshot()
	assert.False(t, again.UnlockedBadgeIDs.Has("forged"))
	assert.Zero(t, again.Stats.CategoryCounts["x"])
}

func TestEngine_Reset(t *testing.T) {
	h := newHarness(t)
	h.engine.AddProgress(3000)
	h.engine.GrantPremium()
	h.clock.Advance(time.Hour)

	h.engine.Reset()
	snap := h.engine.Snapshot()
	assert.Zero(t, snap.LevelProgress)
	assert.False(t, snap.IsPremium)
	assert.Empty(t, snap.UnlockedBadgeIDs)
	assert.Equal(t, start.Add(time.Hour), snap.CreatedAt)
}

func TestEngine_CloseIsIdempotent(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.Close())
	require.NoError(t, h.engine.Close())
	assert.NoError(t, h.engine.Flush(context.Background()))
}
