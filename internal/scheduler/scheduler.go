// Package scheduler owns the single daily reminder timer.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
)

// Sender is the minimal interface needed to deliver a reminder.
// telegram.Client implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Source produces the reminder digest. ok=false means there is nothing
// to deliver and the firing is a silent no-op. notes.Service implements
// this.
type Source interface {
	Digest(ctx context.Context) (text string, chatID int64, ok bool, err error)
}

// Scheduler arms at most one recurring daily timer. Arm replaces any
// previous timer; a generation counter discards firings from timers
// that were replaced after their callback was already in flight.
type Scheduler struct {
	src Source
	snd Sender
	log *zap.Logger
	loc *time.Location
	now func() time.Time

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	next  time.Time
	clock domain.Clock
}

func New(src Source, snd Sender, log *zap.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{src: src, snd: snd, log: log, loc: loc, now: time.Now}
}

// Arm schedules the daily reminder at the given wall-clock time,
// cancelling any previously armed timer first. Returns the next fire
// time. Safe to call repeatedly; exactly one timer is live afterwards.
func (s *Scheduler) Arm(c domain.Clock) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	s.clock = c
	s.armLocked(s.gen)

	s.log.Info("daily reminder armed",
		zap.String("at", c.String()),
		zap.Time("next", s.next))
	return s.next
}

// armLocked computes the next occurrence and starts the timer. Caller
// holds s.mu.
func (s *Scheduler) armLocked(gen uint64) {
	next := domain.NextOccurrence(s.now().In(s.loc), s.clock)
	s.next = next
	s.timer = time.AfterFunc(next.Sub(s.now()), func() { s.fired(gen) })
}

// fired runs on the timer goroutine: deliver, then re-arm for the next
// day unless a newer Arm replaced this timer meanwhile.
func (s *Scheduler) fired(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.fire(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.armLocked(gen)
}

// fire performs one delivery attempt. Failures are logged and dropped;
// the next day's firing is unaffected.
func (s *Scheduler) fire(ctx context.Context) {
	text, chatID, ok, err := s.src.Digest(ctx)
	if err != nil {
		s.log.Error("building reminder digest failed", zap.Error(err))
		return
	}
	if !ok {
		s.log.Debug("no outstanding notes, skipping reminder")
		return
	}
	if err := s.snd.SendMessage(chatID, text); err != nil {
		s.log.Error("reminder delivery failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// NextFireAt reports when the armed timer will fire next; ok is false
// when nothing is armed.
func (s *Scheduler) NextFireAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next, s.timer != nil
}

// Stop cancels the armed timer, if any. Used on shutdown; users have no
// unschedule command.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}
