// Package services holds the progression and entitlement engine: one owned
// profile, a synchronous mutation surface and a background persister.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/wordpace/codec"
	"github.com/anjiri1684/wordpace/models"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type EventType string

const (
	EventLevelUp            EventType = "level_up"
	EventBadgeUnlocked      EventType = "badge_unlocked"
	EventStreakBreakPending EventType = "streak_break_pending"
	EventTrialExpired       EventType = "trial_expired"
	EventEntitlementChanged EventType = "entitlement_changed"
)

type Event struct {
	Type    EventType     `json:"type"`
	At      time.Time     `json:"at"`
	Level   int           `json:"level,omitempty"`
	Badge   *models.Badge `json:"badge,omitempty"`
	Streak  int           `json:"streak,omitempty"`
	Premium bool          `json:"premium,omitempty"`
}

// Notifier receives engine events after the mutation that produced them has
// been committed.
type Notifier interface {
	Notify(Event)
}

type Option func(*Engine)

func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLocation sets the zone local calendar days and months are computed in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

type Engine struct {
	mu       sync.Mutex
	profile  *models.Profile
	codec    *codec.Codec
	clock    clockwork.Clock
	loc      *time.Location
	log      *zap.Logger
	notifier Notifier

	pending chan *models.Profile
	flushes chan chan error
	done    chan struct{}
	wg      sync.WaitGroup
	closed  sync.Once
}

// NewEngine loads (and if needed migrates) the stored profile and starts the
// persister. Close must be called to stop it.
func NewEngine(ctx context.Context, c *codec.Codec, opts ...Option) *Engine {
	e := &Engine{
		codec:   c,
		clock:   clockwork.NewRealClock(),
		loc:     time.Local,
		log:     zap.NewNop(),
		pending: make(chan *models.Profile, 1),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("engine")
	e.profile = c.Load(ctx)

	e.wg.Add(1)
	go e.persistLoop()
	return e
}

// mutation runs fn against the profile with a single clock reading. When fn
// reports a change, a snapshot is queued for persistence. Events are delivered
// after the lock is released.
func (e *Engine) mutation(fn func(p *models.Profile, now time.Time) (changed bool, events []Event)) {
	e.mu.Lock()
	now := e.clock.Now()
	changed, events := fn(e.profile, now)
	if changed {
		e.queue(e.profile.Clone())
	}
	e.mu.Unlock()

	if e.notifier == nil {
		return
	}
	for _, ev := range events {
		if ev.At.IsZero() {
			ev.At = now
		}
		e.notifier.Notify(ev)
	}
}

// read runs fn without persisting anything.
func (e *Engine) read(fn func(p *models.Profile, now time.Time)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.profile, e.clock.Now())
}

// queue replaces any snapshot still waiting to be written. Only the latest
// state matters, so older snapshots are dropped.
func (e *Engine) queue(snap *models.Profile) {
	for {
		select {
		case e.pending <- snap:
			return
		default:
		}
		select {
		case <-e.pending:
		default:
		}
	}
}

func (e *Engine) persistLoop() {
	defer e.wg.Done()
	for {
		select {
		case snap := <-e.pending:
			e.write(snap)
		case reply := <-e.flushes:
			reply <- e.drain()
		case <-e.done:
			e.drain()
			return
		}
	}
}

func (e *Engine) drain() error {
	select {
	case snap := <-e.pending:
		return e.write(snap)
	default:
		return nil
	}
}

func (e *Engine) write(snap *models.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.codec.Save(ctx, snap); err != nil {
		e.log.Error("🔥 failed to persist profile", zap.Error(err))
		return err
	}
	return nil
}

// Flush blocks until every committed mutation has been written.
func (e *Engine) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case e.flushes <- reply:
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending snapshot and stops the persister.
func (e *Engine) Close() error {
	e.closed.Do(func() {
		close(e.done)
		e.wg.Wait()
	})
	return nil
}

// Snapshot returns a deep copy of the current profile.
func (e *Engine) Snapshot() models.Profile {
	var out models.Profile
	e.read(func(p *models.Profile, _ time.Time) {
		out = *p.Clone()
	})
	return out
}

// Reset restores every field to its first-launch default.
func (e *Engine) Reset() {
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		*p = *models.NewProfile(now)
		e.log.Info("profile reset by user")
		return true, nil
	})
}

func (e *Engine) day(now time.Time) string {
	return now.In(e.loc).Format("2006-01-02")
}

func (e *Engine) month(now time.Time) string {
	return now.In(e.loc).Format("2006-01")
}
