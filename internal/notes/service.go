// Package notes holds the note and reminder operations behind the
// Telegram handlers. Every mutation is a load-mutate-save pass through
// the injected repository, which serializes it against concurrent
// commands.
package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
	"github.com/kazanTW/pa-telegram-bot/internal/store"
)

var (
	ErrEmptyContent = errors.New("note content is empty")
	ErrTimeUnset    = errors.New("reminder time not configured")
)

type Service struct {
	repo store.Repo
	log  *zap.Logger
	now  func() time.Time
}

func New(repo store.Repo, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Add validates and appends a new note, returning the created note and
// its store index.
func (s *Service) Add(ctx context.Context, category, content string) (domain.Note, int, error) {
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return domain.Note{}, 0, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Note{}, 0, ErrEmptyContent
	}

	note := domain.Note{
		Content:   content,
		Category:  cat,
		CreatedAt: s.now().UTC(),
	}
	var index int
	err = s.repo.Update(ctx, func(st *domain.State) error {
		index = len(st.Notes)
		st.Notes = append(st.Notes, note)
		return nil
	})
	if err != nil {
		return domain.Note{}, 0, err
	}
	return note, index, nil
}

// Listing is the result of List. Total counts every note ever created,
// so callers can tell "no notes at all" apart from "all completed".
type Listing struct {
	Total int
	Items []domain.IndexedNote
}

// List returns the incomplete notes tagged with their true store
// indices.
func (s *Service) List(ctx context.Context) (Listing, error) {
	st, err := s.repo.Load(ctx)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Total: len(st.Notes), Items: st.Incomplete()}, nil
}

// Complete marks the note at index as done. Completing an already
// completed note, or an out-of-range index, changes nothing; the bool
// reports whether the index referred to a real note.
func (s *Service) Complete(ctx context.Context, index int) (domain.Note, bool, error) {
	var (
		note domain.Note
		ok   bool
	)
	err := s.repo.Update(ctx, func(st *domain.State) error {
		if index < 0 || index >= len(st.Notes) {
			return nil
		}
		st.Notes[index].Completed = true
		note, ok = st.Notes[index], true
		return nil
	})
	if err != nil {
		return domain.Note{}, false, err
	}
	return note, ok, nil
}

// ReminderTime returns the configured daily reminder time, or nil when
// unset.
func (s *Service) ReminderTime(ctx context.Context) (*domain.Clock, error) {
	st, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return st.ReminderTime, nil
}

// SetReminderTime parses strict HH:MM input and persists it, returning
// the normalized clock. Invalid input leaves the stored time untouched.
func (s *Service) SetReminderTime(ctx context.Context, input string) (domain.Clock, error) {
	clock, err := domain.ParseClock(input)
	if err != nil {
		return domain.Clock{}, err
	}
	err = s.repo.Update(ctx, func(st *domain.State) error {
		st.ReminderTime = &clock
		return nil
	})
	if err != nil {
		return domain.Clock{}, err
	}
	return clock, nil
}

// Schedule records chatID as the reminder destination and returns the
// configured clock for the caller to arm. ErrTimeUnset when no reminder
// time has been set yet; nothing is persisted in that case.
func (s *Service) Schedule(ctx context.Context, chatID int64) (domain.Clock, error) {
	var clock domain.Clock
	err := s.repo.Update(ctx, func(st *domain.State) error {
		if st.ReminderTime == nil {
			return ErrTimeUnset
		}
		clock = *st.ReminderTime
		st.ChatID = &chatID
		return nil
	})
	if err != nil {
		return domain.Clock{}, err
	}
	return clock, nil
}

// Digest builds the daily reminder. ok is false when there is nothing
// to deliver: every note completed, none exist, or no destination has
// been stored yet (the latter is logged, since a timer should not be
// armed without one).
func (s *Service) Digest(ctx context.Context) (text string, chatID int64, ok bool, err error) {
	st, err := s.repo.Load(ctx)
	if err != nil {
		return "", 0, false, err
	}
	text = domain.Digest(st.Notes)
	if text == "" {
		return "", 0, false, nil
	}
	if st.ChatID == nil {
		s.log.Warn("reminder due but no destination chat is stored")
		return "", 0, false, nil
	}
	return text, *st.ChatID, true, nil
}
